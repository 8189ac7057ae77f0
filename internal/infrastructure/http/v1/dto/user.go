package dto

import (
	"fxledger/internal/domain/user"
)

// --- Request DTOs ---

// CreateUserRequest is the request body for creating a user.
type CreateUserRequest struct {
	FullName string `json:"fullName" binding:"required"`
}

// UpdateUserRequest is the request body for renaming a user.
type UpdateUserRequest struct {
	FullName string `json:"fullName" binding:"required"`
}

// CreateUserAccountRequest is the request body for opening an account for a user.
type CreateUserAccountRequest struct {
	CurrencyName string `json:"currencyName" binding:"required"`
}

// --- Response DTOs ---

// UserResponse is the response body for a user.
type UserResponse struct {
	ID         int64   `json:"id"`
	FullName   string  `json:"fullName"`
	AccountIDs []int64 `json:"accountIds"`
}

// FromUser creates response DTO from a user snapshot.
func FromUser(s user.Snapshot) UserResponse {
	return UserResponse{ID: s.ID, FullName: s.FullName, AccountIDs: s.AccountIDs}
}
