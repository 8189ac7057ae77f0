// Package dto defines the request and response bodies of the HTTP API.
package dto

import (
	"github.com/shopspring/decimal"

	"fxledger/internal/domain/currency"
)

// --- Request DTOs ---

// CreateCurrencyRequest is the request body for creating a currency.
type CreateCurrencyRequest struct {
	Name string          `json:"name" binding:"required"`
	Rate decimal.Decimal `json:"rate"`
}

// UpdateCurrencyRequest is the request body for updating a currency's rate.
type UpdateCurrencyRequest struct {
	Rate decimal.Decimal `json:"rate"`
}

// --- Response DTOs ---

// CurrencyResponse is the response body for a currency.
type CurrencyResponse struct {
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
}

// FromCurrency creates response DTO from a currency snapshot.
func FromCurrency(s currency.Snapshot) CurrencyResponse {
	return CurrencyResponse{Name: s.Name, Rate: s.Rate}
}

// FromCurrencies creates response DTOs from currency snapshots.
func FromCurrencies(snapshots []currency.Snapshot) []CurrencyResponse {
	out := make([]CurrencyResponse, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, FromCurrency(s))
	}
	return out
}
