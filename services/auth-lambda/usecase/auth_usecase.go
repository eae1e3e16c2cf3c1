package usecase

import (
	"context"
	"strings"

	"github.com/sige-marimon/services/common/logger"
	"github.com/sige-marimon/services/common/validator"
	"github.com/sige-marimon/services/services/auth-lambda/models"
)

// Internal rejection reasons. The handler collapses all of them to the
// generic message so the caller cannot distinguish the failure cause.
const (
	ReasonMissingCredentials   = "missing credentials"
	ReasonEmployeeNotFound     = "employee not found or inactive"
	ReasonIncorrectPassword    = "incorrect password"
	ReasonIncorrectCredentials = "incorrect credentials"
	ReasonConnectionError      = "connection error"
)

// Default profile names when the identity provider omits metadata
const (
	defaultAdminFirstName = "Admin"
	defaultAdminLastName  = "Sistema"
)

// AuthUseCase decides whether a credential pair matches an administrator
// identity, an employee identity, or neither. The administrator path is
// always tried first and short-circuits the employee path.
type AuthUseCase struct {
	store CredentialStore
	log   *logger.Logger
}

// NewAuthUseCase creates a new auth use case
func NewAuthUseCase(store CredentialStore) *AuthUseCase {
	return &AuthUseCase{
		store: store,
		log:   logger.With("component", "auth"),
	}
}

// Login resolves the credential pair to an AuthOutcome. It never returns an
// error: transport faults on the administrator path fall through to the
// employee path, and faults on the employee path map to a connection-error
// rejection.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) models.AuthOutcome {
	// Validate before any remote call
	if validator.IsBlank(email) || validator.IsBlank(password) {
		return models.Rejected{Reason: ReasonMissingCredentials}
	}

	// Administrator path
	identity, err := uc.store.AuthenticateAdmin(ctx, email, password)
	if err == nil && identity != nil {
		firstName := identity.FirstName
		lastName := identity.LastName
		if firstName == "" {
			firstName = defaultAdminFirstName
		}
		if lastName == "" {
			lastName = defaultAdminLastName
		}
		uc.log.Info("admin login email=%s", identity.Email)
		return models.Administrator{
			ID:        identity.ID,
			Email:     identity.Email,
			FirstName: firstName,
			LastName:  lastName,
			CreatedAt: identity.CreatedAt,
			UpdatedAt: identity.UpdatedAt,
		}
	}
	if err != nil {
		uc.log.Debug("admin path did not authenticate email=%s: %v", email, err)
	}

	// Employee path
	employees, err := uc.store.QueryEmployeesByEmail(ctx, email)
	if err != nil {
		uc.log.Error("employee lookup failed email=%s: %v", email, err)
		return models.Rejected{Reason: ReasonConnectionError}
	}
	if len(employees) == 0 {
		return models.Rejected{Reason: ReasonEmployeeNotFound}
	}

	employee := employees[0]
	if employee.Password != password {
		return models.Rejected{Reason: ReasonIncorrectPassword}
	}

	firstName, lastName := SplitName(employee.Name)
	uc.log.Info("employee login email=%s id=%d", employee.CorporateEmail, employee.ID)
	return models.Employee{
		ID:        employee.ID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     employee.CorporateEmail,
		AreaID:    employee.AreaID,
	}
}

// SplitName splits a full name on single spaces: the first token is the
// first name, the remaining tokens rejoined are the last name (empty when
// the name has no spaces).
func SplitName(name string) (string, string) {
	parts := strings.Split(name, " ")
	if len(parts) <= 1 {
		return name, ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
