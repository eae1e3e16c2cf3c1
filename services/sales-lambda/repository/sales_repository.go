package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sige-marimon/services/common/store"
	invmodels "github.com/sige-marimon/services/services/inventory-lambda/models"
	"github.com/sige-marimon/services/services/sales-lambda/models"
)

const (
	salesTable     = "sales"
	saleItemsTable = "sale_items"
	productsTable  = "products"
	movementsTable = "inventory_movements"
)

// SalesRepository persists sales and their lines, and adjusts product stock,
// against the remote data store.
type SalesRepository struct {
	client *store.Client
}

// NewSalesRepository creates a new sales repository
func NewSalesRepository(client *store.Client) *SalesRepository {
	if client == nil {
		client = store.NewClient(nil)
	}
	return &SalesRepository{client: client}
}

// GetProduct reads one product by id; nil when absent
func (r *SalesRepository) GetProduct(ctx context.Context, id int) (*invmodels.Product, error) {
	var products []invmodels.Product
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
func (r *SalesRepository) PatchProductStock(ctx context.Context, productID, stock int) error {
	err := r.client.Patch(ctx, productsTable,
		[]store.Filter{store.Eq("id", strconv.Itoa(productID))},
		map[string]int{"stock": stock},
	)
	if err != nil {
		return fmt.Errorf("failed to update product stock: %w", err)
	}
	return nil
}

// InsertSale writes the sale row and returns it with the assigned id
func (r *SalesRepository) InsertSale(ctx context.Context, sale models.Sale) (*models.Sale, error) {
	var created []models.Sale
	if err := r.client.Insert(ctx, salesTable, sale, &created); err != nil {
		return nil, fmt.Errorf("failed to insert sale: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("sale insert returned no representation")
	}
	return &created[0], nil
}

// InsertSaleItems writes the sale lines
func (r *SalesRepository) InsertSaleItems(ctx context.Context, items []models.SaleItem) error {
	if err := r.client.Insert(ctx, saleItemsTable, items, nil); err != nil {
		return fmt.Errorf("failed to insert sale items: %w", err)
	}
	return nil
}

// InsertMovement records the inventory exit for a sold line
func (r *SalesRepository) InsertMovement(ctx context.Context, movement invmodels.Movement) error {
	if err := r.client.Insert(ctx, movementsTable, movement, nil); err != nil {
		return fmt.Errorf("failed to insert movement: %w", err)
	}
	return nil
}

// GetSale reads one sale by id; nil when absent
func (r *SalesRepository) GetSale(ctx context.Context, id int) (*models.Sale, error) {
	var sales []models.Sale
	err := r.client.Select(ctx, salesTable, []store.Filter{
		store.Eq("id", strconv.Itoa(id)),
	}, &sales)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale: %w", err)
	}
	if len(sales) == 0 {
		return nil, nil
	}
	return &sales[0], nil
}

// ListSaleItems reads the lines of a sale
func (r *SalesRepository) ListSaleItems(ctx context.Context, saleID int) ([]models.SaleItem, error) {
	var items []models.SaleItem
	err := r.client.Select(ctx, saleItemsTable, []store.Filter{
		store.Eq("sale_id", strconv.Itoa(saleID)),
	}, &items)
	if err != nil {
		return nil, fmt.Errorf("failed to list sale items: %w", err)
	}
	return items, nil
}
