package models

import (
	"time"
)

// APIResponse represents a standard API response structure
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// APIError represents an API error response
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// TipOutcome is the response body for tip submissions. Status mirrors the
// persisted transaction state. Remaining is a pointer so a zero allowance
// still serializes; it is only set for outcomes where the ledger was read.
type TipOutcome struct {
	Status    string `json:"status"`
	Remaining *int64 `json:"remainingAllowance,omitempty"`
}

// PointsSummary is the response body for the points lookup endpoint.
type PointsSummary struct {
	WalletAddress string       `json:"walletAddress"`
	TotalPoints   int64        `json:"totalPoints"`
	Events        []PointEvent `json:"events"`
}

// PointEvent is one event row in a points summary.
type PointEvent struct {
	Event     string    `json:"event"`
	Platform  string    `json:"platform"`
	Points    int64     `json:"points"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreatedUser is the response body for user creation.
type CreatedUser struct {
	UserID        int64  `json:"userId"`
	WalletAddress string `json:"walletAddress"`
	Created       bool   `json:"created"`
}

// NewSuccessResponse creates a successful API response
func NewSuccessResponse(data interface{}, message string) *APIResponse {
	return &APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewErrorResponse creates an error API response
func NewErrorResponse(code, message string, details map[string]string) *APIResponse {
	return &APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Timestamp: time.Now(),
	}
}
