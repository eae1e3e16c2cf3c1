package models

import "time"

// LoginRequest is the credential pair submitted per login attempt.
// Transient, never persisted.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EmployeeRecord is an employee row owned by the remote data store. The auth
// service only reads it and, during password change, patches the password
// field.
type EmployeeRecord struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	CorporateEmail string `json:"corporate_email"`
	AreaID         int    `json:"area_id"`
	Password       string `json:"password"`
	Active         bool   `json:"active"`
	ImageURL       string `json:"image_url,omitempty"`
}

// AdminIdentity is the profile resolved by the identity provider's
// password-grant endpoint.
type AdminIdentity struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ============================================================
// AuthOutcome - tagged result of a login attempt
// ============================================================

// AuthOutcome is one of Administrator, Employee or Rejected.
// Produced fresh per login call, never persisted.
type AuthOutcome interface {
	isAuthOutcome()
}

// Administrator is a successful admin-path login
type Administrator struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Employee is a successful employee-path login
type Employee struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	AreaID    int    `json:"areaId"`
}

// Rejected is a failed login with an internal reason
type Rejected struct {
	Reason string `json:"reason"`
}

func (Administrator) isAuthOutcome() {}
func (Employee) isAuthOutcome()      {}
func (Rejected) isAuthOutcome()      {}

// LoginResponse is the API payload for a successful login
type LoginResponse struct {
	Role  string      `json:"role"`
	User  interface{} `json:"user"`
	Token string      `json:"token"`
}
