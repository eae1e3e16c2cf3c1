package usecase

import (
	"context"

	apperrors "github.com/sige-marimon/services/common/errors"
	"github.com/sige-marimon/services/services/auth-lambda/models"
)

// EmployeeUseCase serves the read-only employee views used by the UI layer
type EmployeeUseCase struct {
	directory EmployeeDirectory
}

// NewEmployeeUseCase creates a new employee use case
func NewEmployeeUseCase(directory EmployeeDirectory) *EmployeeUseCase {
	return &EmployeeUseCase{directory: directory}
}

// ListEmployees returns all active employees with credentials stripped
func (uc *EmployeeUseCase) ListEmployees(ctx context.Context) ([]models.EmployeeRecord, error) {
	employees, err := uc.directory.ListActiveEmployees(ctx)
	if err != nil {
		return nil, apperrors.StoreError(err)
	}
	for i := range employees {
		employees[i].Password = ""
	}
	return employees, nil
}

// GetEmployee returns one employee by id with credentials stripped
func (uc *EmployeeUseCase) GetEmployee(ctx context.Context, id int) (*models.EmployeeRecord, error) {
	employee, err := uc.directory.GetEmployee(ctx, id)
	if err != nil {
		return nil, apperrors.StoreError(err)
	}
	if employee == nil {
		return nil, apperrors.NotFound("employee")
	}
	employee.Password = ""
	return employee, nil
}
