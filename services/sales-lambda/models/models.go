package models

import "time"

// Sale is a completed sales transaction
type Sale struct {
	ID            int       `json:"id,omitempty"`
	Folio         string    `json:"folio"`
	EmployeeID    int       `json:"employee_id"`
	CustomerName  string    `json:"customer_name,omitempty"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	Total         float64   `json:"total"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

// SaleItem is one line of a sale
type SaleItem struct {
	ID          int     `json:"id,omitempty"`
	SaleID      int     `json:"sale_id"`
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

// SaleItemRequest is one requested line in a sale registration
type SaleItemRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// SaleRequest is the API payload for registering a sale
type SaleRequest struct {
	EmployeeID    int               `json:"employeeId"`
	CustomerName  string            `json:"customerName"`
	CustomerEmail string            `json:"customerEmail"`
	Items         []SaleItemRequest `json:"items"`
}

// SaleResponse is the registered sale with its lines
type SaleResponse struct {
	Sale  Sale       `json:"sale"`
	Items []SaleItem `json:"items"`
}
