package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sige-marimon/services/common/store"
	"github.com/sige-marimon/services/services/inventory-lambda/models"
)

const (
	productsTable  = "products"
	movementsTable = "inventory_movements"
)

// ProductRepository reads the product catalog and records inventory
// movements against the remote data store.
type ProductRepository struct {
	client *store.Client
}

// NewProductRepository creates a new product repository
func NewProductRepository(client *store.Client) *ProductRepository {
	if client == nil {
		client = store.NewClient(nil)
	}
	return &ProductRepository{client: client}
}

// ListProducts reads the full catalog
func (r *ProductRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.client.Select(ctx, productsTable, nil, &products); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProduct reads one product by id; nil when absent
func (r *ProductRepository) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	var products []models.Product
	err := r.client.Select(ctx, productsTable, []store.Filter{
		store.Eq("id", strconv.Itoa(id)),
	}, &products)
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	if len(products) == 0 {
		return nil, nil
	}
	return &products[0], nil
}

// PatchProductStock partially updates a product's stock field
func (r *ProductRepository) PatchProductStock(ctx context.Context, productID, stock int) error {
	err := r.client.Patch(ctx, productsTable,
		[]store.Filter{store.Eq("id", strconv.Itoa(productID))},
		map[string]int{"stock": stock},
	)
	if err != nil {
		return fmt.Errorf("failed to update product stock: %w", err)
	}
	return nil
}

// InsertMovement records an inventory movement row
func (r *ProductRepository) InsertMovement(ctx context.Context, movement models.Movement) error {
	if err := r.client.Insert(ctx, movementsTable, movement, nil); err != nil {
		return fmt.Errorf("failed to insert movement: %w", err)
	}
	return nil
}

// ListMovementsByProduct reads the movements recorded for a product
func (r *ProductRepository) ListMovementsByProduct(ctx context.Context, productID int) ([]models.Movement, error) {
	var movements []models.Movement
	err := r.client.Select(ctx, movementsTable, []store.Filter{
		store.Eq("product_id", strconv.Itoa(productID)),
	}, &movements)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return movements, nil
}
