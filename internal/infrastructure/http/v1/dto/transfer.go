package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"fxledger/internal/domain/transfer"
)

// --- Request DTOs ---

// CreateTransferRequest is the request body for creating a transfer.
type CreateTransferRequest struct {
	FromAccountID int64           `json:"fromAccountId"`
	ToAccountID   int64           `json:"toAccountId"`
	Amount        decimal.Decimal `json:"amount"`
	CurrencyName  string          `json:"currencyName" binding:"required"`
}

// --- Response DTOs ---

// TransferResponse is the response body for a transfer.
type TransferResponse struct {
	ID            int64           `json:"id"`
	FromAccountID int64           `json:"fromAccountId"`
	ToAccountID   int64           `json:"toAccountId"`
	Amount        decimal.Decimal `json:"amount"`
	CurrencyName  string          `json:"currencyName"`
	Timestamp     time.Time       `json:"timestamp"`
	Status        string          `json:"status"`
}

// FromTransfer creates response DTO from a transfer record.
func FromTransfer(t transfer.Transfer) TransferResponse {
	return TransferResponse{
		ID:            t.ID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount,
		CurrencyName:  t.CurrencyName,
		Timestamp:     t.Timestamp,
		Status:        string(t.Status),
	}
}

// FromTransfers creates response DTOs from transfer records.
func FromTransfers(transfers []transfer.Transfer) []TransferResponse {
	out := make([]TransferResponse, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, FromTransfer(t))
	}
	return out
}
