package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fxledger/internal/domain/currency"
	"fxledger/internal/infrastructure/http/v1/dto"
)

// CurrencyHandler serves the currency endpoints.
type CurrencyHandler struct {
	registry *currency.Registry
}

// NewCurrencyHandler creates a currency handler.
func NewCurrencyHandler(registry *currency.Registry) *CurrencyHandler {
	return &CurrencyHandler{registry: registry}
}

// List handles GET /currencies.
func (h *CurrencyHandler) List(c *gin.Context) {
	snapshots := h.registry.List(c.Request.Context())
	c.JSON(http.StatusOK, dto.FromCurrencies(snapshots))
}

// Get handles GET /currencies/:name.
func (h *CurrencyHandler) Get(c *gin.Context) {
	s, err := h.registry.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromCurrency(s))
}

// Create handles POST /currencies.
func (h *CurrencyHandler) Create(c *gin.Context) {
	var req dto.CreateCurrencyRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.registry.Create(c.Request.Context(), req.Name, req.Rate)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromCurrency(s))
}

// Update handles PUT /currencies/:name.
func (h *CurrencyHandler) Update(c *gin.Context) {
	var req dto.UpdateCurrencyRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.registry.UpdateRate(c.Request.Context(), c.Param("name"), req.Rate)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromCurrency(s))
}
