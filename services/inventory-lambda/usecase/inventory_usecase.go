package usecase

import (
	"context"
	"strings"

	apperrors "github.com/sige-marimon/services/common/errors"
	"github.com/sige-marimon/services/common/logger"
	"github.com/sige-marimon/services/services/inventory-lambda/models"
)

// Pagination defaults and caps
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ProductStore is the catalog and movement access consumed by the use case
type ProductStore interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	PatchProductStock(ctx context.Context, productID, stock int) error
	InsertMovement(ctx context.Context, movement models.Movement) error
	ListMovementsByProduct(ctx context.Context, productID int) ([]models.Movement, error)
}

// InventoryUseCase handles catalog reads and inventory movements
type InventoryUseCase struct {
	store ProductStore
	log   *logger.Logger
}

// NewInventoryUseCase creates a new inventory use case
func NewInventoryUseCase(store ProductStore) *InventoryUseCase {
	return &InventoryUseCase{
		store: store,
		log:   logger.With("component", "inventory"),
	}
}

// ListProducts fetches the catalog and applies search, category filter and
// pagination over the in-memory list.
func (uc *InventoryUseCase) ListProducts(ctx context.Context, query models.ProductQuery) (*models.ProductPage, error) {
	products, err := uc.store.ListProducts(ctx)
	if err != nil {
		return nil, apperrors.StoreError(err)
	}

	filtered := filterProducts(products, query)

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &models.ProductPage{
		Items:      filtered[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// filterProducts applies the name substring and category predicates
func filterProducts(products []models.Product, query models.ProductQuery) []models.Product {
	search := strings.ToLower(strings.TrimSpace(query.Search))
	category := strings.TrimSpace(query.Category)

	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// RegisterMovement records an inventory entry or exit and adjusts the
// product's stock. An exit must not exceed the current stock.
func (uc *InventoryUseCase) RegisterMovement(ctx context.Context, req models.MovementRequest) (*models.Product, error) {
	if req.Type != models.MovementEntry && req.Type != models.MovementExit {
		return nil, apperrors.ValidationError("movement type must be ENTRY or EXIT")
	}
	if req.Quantity <= 0 {
		return nil, apperrors.ValidationError("quantity must be positive")
	}
	if req.ProductID <= 0 {
		return nil, apperrors.ValidationError("invalid product id")
	}

	product, err := uc.store.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, apperrors.StoreError(err)
	}
	if product == nil {
		return nil, apperrors.NotFound("product")
	}

	newStock := product.Stock
	switch req.Type {
	case models.MovementEntry:
		newStock += req.Quantity
	case models.MovementExit:
		if req.Quantity > product.Stock {
			return nil, apperrors.InsufficientStock(product.ID)
		}
		newStock -= req.Quantity
	}

	movement := models.Movement{
		ProductID:  req.ProductID,
		Type:       req.Type,
		Quantity:   req.Quantity,
		Reason:     req.Reason,
		EmployeeID: req.EmployeeID,
	}
	if err := uc.store.InsertMovement(ctx, movement); err != nil {
		return nil, apperrors.StoreError(err)
	}

	if err := uc.store.PatchProductStock(ctx, product.ID, newStock); err != nil {
		// Movement row already committed; surface the inconsistency
		uc.log.Error("stock update failed after movement insert product_id=%d: %v", product.ID, err)
		return nil, apperrors.StoreError(err)
	}

	product.Stock = newStock
	uc.log.Info("movement recorded product_id=%d type=%s qty=%d stock=%d",
		product.ID, req.Type, req.Quantity, newStock)
	return product, nil
}

// ListMovements returns the movements recorded for one product
func (uc *InventoryUseCase) ListMovements(ctx context.Context, productID int) ([]models.Movement, error) {
	if productID <= 0 {
		return nil, apperrors.ValidationError("invalid product id")
	}
	movements, err := uc.store.ListMovementsByProduct(ctx, productID)
	if err != nil {
		return nil, apperrors.StoreError(err)
	}
	return movements, nil
}
