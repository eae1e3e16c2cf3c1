package models

import "time"

// ============================================================
// Password Recovery Models
// ============================================================

// RequestRecoveryRequest asks for a recovery code to be emailed
type RequestRecoveryRequest struct {
	Email string `json:"email"`
}

// VerifyCodeRequest checks a recovery code without consuming it
type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// ChangePasswordRequest consumes a recovery code and sets a new password
type ChangePasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// RecoveryCode is an in-memory recovery entry keyed by corporate email.
// At most one live entry exists per email; issuing a new one replaces the
// prior entry outright. Used entries are terminal.
type RecoveryCode struct {
	EmployeeID int
	Code       string
	Email      string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	Used       bool
}

// RecoveryResponse is the shared response shape for recovery operations
type RecoveryResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
