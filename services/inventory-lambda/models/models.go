package models

import "time"

// Movement types
const (
	MovementEntry = "ENTRY"
	MovementExit  = "EXIT"
)

// Product is a catalog row owned by the remote data store
type Product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	ImageURL string  `json:"image_url,omitempty"`
}

// Movement is an inventory entry or exit recorded against a product
type Movement struct {
	ID         int       `json:"id,omitempty"`
	ProductID  int       `json:"product_id"`
	Type       string    `json:"type"`
	Quantity   int       `json:"quantity"`
	Reason     string    `json:"reason,omitempty"`
	EmployeeID int       `json:"employee_id"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// MovementRequest is the API payload for registering a movement
type MovementRequest struct {
	ProductID  int    `json:"productId"`
	Type       string `json:"type"`
	Quantity   int    `json:"quantity"`
	Reason     string `json:"reason"`
	EmployeeID int    `json:"employeeId"`
}

// ProductQuery filters and paginates the catalog
type ProductQuery struct {
	Search   string `json:"search"`
	Category string `json:"category"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

// ProductPage is one page of catalog results
type ProductPage struct {
	Items      []Product `json:"items"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalItems int       `json:"totalItems"`
	TotalPages int       `json:"totalPages"`
}
