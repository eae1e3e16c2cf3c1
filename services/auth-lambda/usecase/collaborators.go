package usecase

import (
	"context"

	"github.com/sige-marimon/services/services/auth-lambda/models"
)

// CredentialStore is the remote tabular backend holding employee records and
// the administrator identity provider. Implemented by
// repository.EmployeeRepository over the REST row-filter client.
type CredentialStore interface {
	// AuthenticateAdmin submits the credential pair to the identity
	// provider's password-grant endpoint. Any failure (transport, status,
	// malformed payload) comes back as an error.
	AuthenticateAdmin(ctx context.Context, email, password string) (*models.AdminIdentity, error)

	// QueryEmployeesByEmail reads employee rows where
	// corporate_email = email AND active = true.
	QueryEmployeesByEmail(ctx context.Context, email string) ([]models.EmployeeRecord, error)

	// PatchEmployeePassword partially updates the employee row's password
	// field.
	PatchEmployeePassword(ctx context.Context, employeeID int, newPassword string) error
}

// NotificationSender is the fire-and-forget email dispatch capability.
// Latency and retries are its concern, not the caller's.
type NotificationSender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// EmployeeDirectory provides the read-only employee views consumed by the UI
// layer.
type EmployeeDirectory interface {
	ListActiveEmployees(ctx context.Context) ([]models.EmployeeRecord, error)
	GetEmployee(ctx context.Context, id int) (*models.EmployeeRecord, error)
}
