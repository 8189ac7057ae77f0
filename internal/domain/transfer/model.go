// Package transfer provides the transfer ledger: atomic inter-account
// money movement and the append-only transfer history.
package transfer

import (
	"time"

	"fxledger/internal/core/id"
	"fxledger/internal/core/types"
)

// Status is a transfer's terminal state. A transfer's status is fully
// decided before the record becomes visible; there is no observable
// in-flight state.
type Status string

const (
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
)

// Transfer is an immutable ledger record. Never mutated after insertion.
type Transfer struct {
	ID            id.ID       `json:"id"`
	FromAccountID id.ID       `json:"fromAccountId"`
	ToAccountID   id.ID       `json:"toAccountId"`
	Amount        types.Money `json:"amount"`
	CurrencyName  string      `json:"currencyName"`
	Timestamp     time.Time   `json:"timestamp"`
	Status        Status      `json:"status"`
}
