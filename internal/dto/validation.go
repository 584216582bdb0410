package dto

import "time"

// ValidateRequest is the payload for validating a candidate. FirstViewAt is
// the session-scoped timestamp captured by the client when it opened the
// queue; it is threaded through every validation of that session.
type ValidateRequest struct {
	FirstViewAt *time.Time `json:"firstViewAt"`
	Reason      string     `json:"reason" validate:"required"`
}

// RollbackRequest reverses a validation event. The reason is mandatory.
type RollbackRequest struct {
	Reason string `json:"reason" validate:"required"`
}
