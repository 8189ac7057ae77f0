package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fxledger/internal/domain/account"
	"fxledger/internal/infrastructure/http/v1/dto"
)

// AccountHandler serves the account endpoints. Account creation and
// deletion go through the user endpoints, so accounts stay linked to their
// owner; this handler covers reads and cash operations.
type AccountHandler struct {
	registry *account.Registry
}

// NewAccountHandler creates an account handler.
func NewAccountHandler(registry *account.Registry) *AccountHandler {
	return &AccountHandler{registry: registry}
}

// Get handles GET /accounts/:accountId.
func (h *AccountHandler) Get(c *gin.Context) {
	accountID, ok := pathID(c, "accountId")
	if !ok {
		return
	}
	s, err := h.registry.Get(c.Request.Context(), accountID)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromAccount(s))
}

// Deposit handles PUT /accounts/deposit, e.g. cash arriving from an ATM.
func (h *AccountHandler) Deposit(c *gin.Context) {
	var req dto.DepositRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.registry.Deposit(c.Request.Context(), req.ID, req.Amount, req.CurrencyName)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromAccount(s))
}

// Withdraw handles PUT /accounts/withdraw.
func (h *AccountHandler) Withdraw(c *gin.Context) {
	var req dto.WithdrawRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.registry.Withdraw(c.Request.Context(), req.ID, req.Amount, req.CurrencyName)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromAccount(s))
}
