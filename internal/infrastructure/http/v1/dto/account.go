package dto

import (
	"github.com/shopspring/decimal"

	"fxledger/internal/domain/account"
)

// --- Request DTOs ---

// DepositRequest is the request body for depositing into an account.
type DepositRequest struct {
	ID           int64           `json:"id" binding:"required"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyName string          `json:"currencyName" binding:"required"`
}

// WithdrawRequest is the request body for withdrawing from an account.
type WithdrawRequest struct {
	ID           int64           `json:"id" binding:"required"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyName string          `json:"currencyName" binding:"required"`
}

// --- Response DTOs ---

// AccountResponse is the response body for an account.
type AccountResponse struct {
	ID           int64           `json:"id"`
	Balance      decimal.Decimal `json:"balance"`
	CurrencyName string          `json:"currencyName"`
}

// FromAccount creates response DTO from an account snapshot.
func FromAccount(s account.Snapshot) AccountResponse {
	return AccountResponse{ID: s.ID, Balance: s.Balance, CurrencyName: s.CurrencyName}
}
