package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"fxledger/internal/core/apperror"
	"fxledger/internal/domain/transfer"
	"fxledger/internal/infrastructure/http/v1/dto"
)

// TransferHandler serves the transfer endpoints.
type TransferHandler struct {
	ledger *transfer.Ledger
}

// NewTransferHandler creates a transfer handler.
func NewTransferHandler(ledger *transfer.Ledger) *TransferHandler {
	return &TransferHandler{ledger: ledger}
}

// Create handles POST /transfers. A transfer that fails for insufficient
// funds is still created (status FAILED); only validation and missing
// entities are errors.
func (h *TransferHandler) Create(c *gin.Context) {
	var req dto.CreateTransferRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.ledger.Create(c.Request.Context(), req.FromAccountID, req.ToAccountID, req.Amount, req.CurrencyName)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromTransfer(t))
}

// Get handles GET /transfers/:transferId.
func (h *TransferHandler) Get(c *gin.Context) {
	transferID, ok := pathID(c, "transferId")
	if !ok {
		return
	}
	t, err := h.ledger.Get(c.Request.Context(), transferID)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTransfer(t))
}

// List handles GET /transfers?accountId=&offset=&limit=.
func (h *TransferHandler) List(c *gin.Context) {
	raw := c.Query("accountId")
	if raw == "" {
		abortWith(c, apperror.NewInvalidArgument("accountId query parameter is required"))
		return
	}
	accountID, ok := queryID(c, "accountId")
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return
	}
	// No limit means the full history.
	limit, ok := queryInt(c, "limit", math.MaxInt)
	if !ok {
		return
	}
	transfers, err := h.ledger.List(c.Request.Context(), accountID, offset, limit)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTransfers(transfers))
}
