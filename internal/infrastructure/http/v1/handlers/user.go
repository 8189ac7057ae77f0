package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fxledger/internal/domain/user"
	"fxledger/internal/infrastructure/http/v1/dto"
)

// UserHandler serves the user endpoints, including account
// creation/deletion on behalf of a user.
type UserHandler struct {
	registry *user.Registry
}

// NewUserHandler creates a user handler.
func NewUserHandler(registry *user.Registry) *UserHandler {
	return &UserHandler{registry: registry}
}

// Create handles POST /users.
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.registry.Create(c.Request.Context(), req.FullName)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromUser(s))
}

// Get handles GET /users/:userId.
func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	s, err := h.registry.Get(c.Request.Context(), userID)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUser(s))
}

// Update handles PUT /users/:userId.
func (h *UserHandler) Update(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.registry.Update(c.Request.Context(), userID, req.FullName)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUser(s))
}

// Delete handles DELETE /users/:userId.
func (h *UserHandler) Delete(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	if err := h.registry.Delete(c.Request.Context(), userID); err != nil {
		abortWith(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateAccount handles POST /users/:userId/accounts.
func (h *UserHandler) CreateAccount(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	var req dto.CreateUserAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.registry.CreateAccount(c.Request.Context(), userID, req.CurrencyName)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromAccount(s))
}

// DeleteAccount handles DELETE /users/:userId/accounts/:accountId.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	accountID, ok := pathID(c, "accountId")
	if !ok {
		return
	}
	if err := h.registry.DeleteAccount(c.Request.Context(), userID, accountID); err != nil {
		abortWith(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
