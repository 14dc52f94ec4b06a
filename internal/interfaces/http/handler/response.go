package handler

import "github.com/ideation/backend/internal/interfaces/http/dto"

// The types below only describe response envelopes for swag. Handlers write
// through dto.Success and friends.

// APIResponse is the envelope with a typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is the envelope of a failed request
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// SuccessResponse is returned by commands with no payload, like mark-all-read
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// CountData carries the unread notification count
type CountData struct {
	Count int64 `json:"count" example:"3"`
}

// MessageData carries a confirmation, like "verification email sent"
type MessageData struct {
	Message string `json:"message"`
}
