package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sige-marimon/services/common/store"
	"github.com/sige-marimon/services/services/auth-lambda/models"
)

const employeesTable = "employees"

// EmployeeRepository resolves the credential store contract against the
// hosted backend: row-filter reads on the employees table plus the identity
// provider's token endpoint.
type EmployeeRepository struct {
	client *store.Client
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(client *store.Client) *EmployeeRepository {
	if client == nil {
		client = store.NewClient(nil)
	}
	return &EmployeeRepository{client: client}
}

// AuthenticateAdmin submits the credential pair to the password-grant
// endpoint and synthesizes the admin identity from the response payload.
func (r *EmployeeRepository) AuthenticateAdmin(ctx context.Context, email, password string) (*models.AdminIdentity, error) {
	session, err := r.client.AdminSignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	identity := &models.AdminIdentity{
		ID:        session.User.ID,
		Email:     session.User.Email,
		CreatedAt: session.User.CreatedAt,
		UpdatedAt: session.User.UpdatedAt,
	}
	if v, ok := session.User.UserMetadata["first_name"].(string); ok {
		identity.FirstName = v
	}
	if v, ok := session.User.UserMetadata["last_name"].(string); ok {
		identity.LastName = v
	}
	return identity, nil
}

// QueryEmployeesByEmail reads active employee rows matching the corporate
// email.
func (r *EmployeeRepository) QueryEmployeesByEmail(ctx context.Context, email string) ([]models.EmployeeRecord, error) {
	var employees []models.EmployeeRecord
	err := r.client.Select(ctx, employeesTable, []store.Filter{
		store.Eq("corporate_email", email),
		store.Eq("active", "true"),
	}, &employees)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	return employees, nil
}

// PatchEmployeePassword partially updates the employee row's password field
func (r *EmployeeRepository) PatchEmployeePassword(ctx context.Context, employeeID int, newPassword string) error {
	err := r.client.Patch(ctx, employeesTable,
		[]store.Filter{store.Eq("id", strconv.Itoa(employeeID))},
		map[string]string{"password": newPassword},
	)
	if err != nil {
		return fmt.Errorf("failed to update employee password: %w", err)
	}
	return nil
}

// ListActiveEmployees reads every active employee row
func (r *EmployeeRepository) ListActiveEmployees(ctx context.Context) ([]models.EmployeeRecord, error) {
	var employees []models.EmployeeRecord
	err := r.client.Select(ctx, employeesTable, []store.Filter{
		store.Eq("active", "true"),
	}, &employees)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// GetEmployee reads one employee row by id; nil when absent
func (r *EmployeeRepository) GetEmployee(ctx context.Context, id int) (*models.EmployeeRecord, error) {
	var employees []models.EmployeeRecord
	err := r.client.Select(ctx, employeesTable, []store.Filter{
		store.Eq("id", strconv.Itoa(id)),
	}, &employees)
	if err != nil {
		return nil, fmt.Errorf("failed to query employee: %w", err)
	}
	if len(employees) == 0 {
		return nil, nil
	}
	return &employees[0], nil
}
