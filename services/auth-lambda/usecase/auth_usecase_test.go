package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sige-marimon/services/services/auth-lambda/models"
)

func activeEmployee() models.EmployeeRecord {
	return models.EmployeeRecord{
		ID:             7,
		Name:           "Juan Carlos Perez",
		CorporateEmail: "juan@marimon.com",
		AreaID:         2,
		Password:       "secret",
		Active:         true,
	}
}

// ============================================================
// Test: validation before any remote call
// ============================================================

func TestLoginValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"Empty email", "", "x"},
		{"Empty password", "a@b.com", ""},
		{"Both empty", "", ""},
		{"Whitespace email", "   ", "x"},
		{"Whitespace password", "a@b.com", "  \t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			uc := NewAuthUseCase(store)

			outcome := uc.Login(context.Background(), tt.email, tt.password)

			rejected, ok := outcome.(models.Rejected)
			if !ok {
				t.Fatalf("Login() = %T, want Rejected", outcome)
			}
			if rejected.Reason != ReasonMissingCredentials {
				t.Errorf("Login() reason = %q, want %q", rejected.Reason, ReasonMissingCredentials)
			}
			if store.adminCalls != 0 || store.queryCalls != 0 {
				t.Errorf("no remote call expected, got admin=%d query=%d", store.adminCalls, store.queryCalls)
			}
		})
	}
}

// ============================================================
// Test: administrator path precedence
// ============================================================

func TestLoginAdminFirst(t *testing.T) {
	t.Run("Admin wins when both paths would succeed", func(t *testing.T) {
		store := &fakeStore{
			admin: &models.AdminIdentity{
				ID:        "9f6c",
				Email:     "juan@marimon.com",
				FirstName: "Juan",
				LastName:  "Director",
			},
			employees: []models.EmployeeRecord{activeEmployee()},
		}
		uc := NewAuthUseCase(store)

		outcome := uc.Login(context.Background(), "juan@marimon.com", "secret")

		admin, ok := outcome.(models.Administrator)
		if !ok {
			t.Fatalf("Login() = %T, want Administrator", outcome)
		}
		if admin.ID != "9f6c" {
			t.Errorf("Administrator.ID = %q, want %q", admin.ID, "9f6c")
		}
		if store.queryCalls != 0 {
			t.Error("employee path must not run after an admin success")
		}
	})

	t.Run("Profile defaults when the provider omits metadata", func(t *testing.T) {
		store := &fakeStore{
			admin: &models.AdminIdentity{
				ID:        "9f6c",
				Email:     "admin@marimon.com",
				CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			},
		}
		uc := NewAuthUseCase(store)

		outcome := uc.Login(context.Background(), "admin@marimon.com", "s3cret1")

		admin, ok := outcome.(models.Administrator)
		if !ok {
			t.Fatalf("Login() = %T, want Administrator", outcome)
		}
		if admin.FirstName != "Admin" || admin.LastName != "Sistema" {
			t.Errorf("profile defaults = (%q, %q), want (Admin, Sistema)", admin.FirstName, admin.LastName)
		}
	})
}

// ============================================================
// Test: employee fallthrough
// ============================================================

func TestLoginEmployeeFallthrough(t *testing.T) {
	t.Run("Correct password", func(t *testing.T) {
		store := &fakeStore{
			adminErr:  errors.New("invalid_grant"),
			employees: []models.EmployeeRecord{activeEmployee()},
		}
		uc := NewAuthUseCase(store)

		outcome := uc.Login(context.Background(), "juan@marimon.com", "secret")

		employee, ok := outcome.(models.Employee)
		if !ok {
			t.Fatalf("Login() = %T, want Employee", outcome)
		}
		if employee.ID != 7 || employee.AreaID != 2 {
			t.Errorf("Employee = %+v", employee)
		}
		if employee.FirstName != "Juan" || employee.LastName != "Carlos Perez" {
			t.Errorf("name split = (%q, %q), want (Juan, Carlos Perez)", employee.FirstName, employee.LastName)
		}
	})

	t.Run("Wrong password", func(t *testing.T) {
		store := &fakeStore{
			adminErr:  errors.New("invalid_grant"),
			employees: []models.EmployeeRecord{activeEmployee()},
		}
		uc := NewAuthUseCase(store)

		outcome := uc.Login(context.Background(), "juan@marimon.com", "wrong")

		rejected, ok := outcome.(models.Rejected)
		if !ok {
			t.Fatalf("Login() = %T, want Rejected", outcome)
		}
		if rejected.Reason != ReasonIncorrectPassword {
			t.Errorf("reason = %q, want %q", rejected.Reason, ReasonIncorrectPassword)
		}
	})

	t.Run("Password comparison is case-sensitive", func(t *testing.T) {
		store := &fakeStore{
			adminErr:  errors.New("invalid_grant"),
			employees: []models.EmployeeRecord{activeEmployee()},
		}
		uc := NewAuthUseCase(store)

		outcome := uc.Login(context.Background(), "juan@marimon.com", "SECRET")
		if _, ok := outcome.(models.Rejected); !ok {
			t.Fatalf("Login() = %T, want Rejected", outcome)
		}
	})

	t.Run("Unknown or inactive employee", func(t *testing.T) {
		store := &fakeStore{
			adminErr: errors.New("invalid_grant"),
			employees: []models.EmployeeRecord{
				{ID: 8, Name: "Ana", CorporateEmail: "ana@marimon.com", Password: "x", Active: false},
			},
		}
		uc := NewAuthUseCase(store)

		outcome := uc.Login(context.Background(), "ana@marimon.com", "x")

		rejected, ok := outcome.(models.Rejected)
		if !ok {
			t.Fatalf("Login() = %T, want Rejected", outcome)
		}
		if rejected.Reason != ReasonEmployeeNotFound {
			t.Errorf("reason = %q, want %q", rejected.Reason, ReasonEmployeeNotFound)
		}
	})

	t.Run("Store failure maps to connection error", func(t *testing.T) {
		store := &fakeStore{
			adminErr: errors.New("invalid_grant"),
			queryErr: errors.New("dial tcp: connection refused"),
		}
		uc := NewAuthUseCase(store)

		outcome := uc.Login(context.Background(), "juan@marimon.com", "secret")

		rejected, ok := outcome.(models.Rejected)
		if !ok {
			t.Fatalf("Login() = %T, want Rejected", outcome)
		}
		if rejected.Reason != ReasonConnectionError {
			t.Errorf("reason = %q, want %q", rejected.Reason, ReasonConnectionError)
		}
	})
}

// ============================================================
// Test: name splitting
// ============================================================

func TestSplitName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantFirst string
		wantLast  string
	}{
		{"Single token", "jose", "jose", ""},
		{"Two tokens", "Ana Lopez", "Ana", "Lopez"},
		{"Three tokens", "Juan Carlos Perez", "Juan", "Carlos Perez"},
		{"Empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := SplitName(tt.input)
			if first != tt.wantFirst || last != tt.wantLast {
				t.Errorf("SplitName(%q) = (%q, %q), want (%q, %q)",
					tt.input, first, last, tt.wantFirst, tt.wantLast)
			}
		})
	}
}
