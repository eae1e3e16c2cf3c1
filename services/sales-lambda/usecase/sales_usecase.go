package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/sige-marimon/services/common/errors"
	"github.com/sige-marimon/services/common/logger"
	"github.com/sige-marimon/services/common/pdf"
	"github.com/sige-marimon/services/common/qrcode"
	"github.com/sige-marimon/services/common/validator"
	invmodels "github.com/sige-marimon/services/services/inventory-lambda/models"
	"github.com/sige-marimon/services/services/sales-lambda/models"
)

// SaleStore is the sales persistence consumed by the use case
type SaleStore interface {
	GetProduct(ctx context.Context, id int) (*invmodels.Product, error)
	PatchProductStock(ctx context.Context, productID, stock int) error
	InsertSale(ctx context.Context, sale models.Sale) (*models.Sale, error)
	InsertSaleItems(ctx context.Context, items []models.SaleItem) error
	InsertMovement(ctx context.Context, movement invmodels.Movement) error
	GetSale(ctx context.Context, id int) (*models.Sale, error)
	ListSaleItems(ctx context.Context, saleID int) ([]models.SaleItem, error)
}

// ReceiptSender delivers receipt PDFs by email
type ReceiptSender interface {
	SendReceipt(ctx context.Context, recipient, folio string, pdfBytes []byte) error
}

// SalesUseCase registers sales, renders receipts and emails them
type SalesUseCase struct {
	store  SaleStore
	sender ReceiptSender
	now    func() time.Time
	log    *logger.Logger
}

// NewSalesUseCase creates a new sales use case. A nil clock defaults to
// time.Now.
func NewSalesUseCase(store SaleStore, sender ReceiptSender, clock func() time.Time) *SalesUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &SalesUseCase{
		store:  store,
		sender: sender,
		now:    clock,
		log:    logger.With("component", "sales"),
	}
}

// RegisterSale validates the requested lines against the catalog, computes
// totals server-side, persists the sale and decrements stock per line.
func (uc *SalesUseCase) RegisterSale(ctx context.Context, req models.SaleRequest) (*models.SaleResponse, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.ValidationError("sale must have at least one item")
	}
	if req.EmployeeID <= 0 {
		return nil, apperrors.ValidationError("invalid employee id")
	}

	// Merge duplicate lines so a product's total quantity is checked against
	// stock exactly once and decremented exactly once
	qtyByProduct := make(map[int]int, len(req.Items))
	productOrder := make([]int, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, apperrors.ValidationError("quantity must be positive")
		}
		if _, seen := qtyByProduct[item.ProductID]; !seen {
			productOrder = append(productOrder, item.ProductID)
		}
		qtyByProduct[item.ProductID] += item.Quantity
	}

	// Resolve each product against the catalog before writing anything
	type resolvedLine struct {
		product  invmodels.Product
		quantity int
	}
	resolved := make([]resolvedLine, 0, len(productOrder))
	var total float64
	for _, productID := range productOrder {
		quantity := qtyByProduct[productID]
		product, err := uc.store.GetProduct(ctx, productID)
		if err != nil {
			return nil, apperrors.StoreError(err)
		}
		if product == nil {
			return nil, apperrors.NotFound("product")
		}
		if quantity > product.Stock {
			return nil, apperrors.InsufficientStock(product.ID)
		}
		resolved = append(resolved, resolvedLine{product: *product, quantity: quantity})
		total += product.Price * float64(quantity)
	}

	sale := models.Sale{
		Folio:         newFolio(),
		EmployeeID:    req.EmployeeID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		Total:         total,
		CreatedAt:     uc.now(),
	}
	created, err := uc.store.InsertSale(ctx, sale)
	if err != nil {
		return nil, apperrors.StoreError(err)
	}

	items := make([]models.SaleItem, 0, len(resolved))
	for _, line := range resolved {
		items = append(items, models.SaleItem{
			SaleID:      created.ID,
			ProductID:   line.product.ID,
			ProductName: line.product.Name,
			Quantity:    line.quantity,
			UnitPrice:   line.product.Price,
			Subtotal:    line.product.Price * float64(line.quantity),
		})
	}
	if err := uc.store.InsertSaleItems(ctx, items); err != nil {
		return nil, apperrors.StoreError(err)
	}

	// Decrement stock and record the exit per line
	for _, line := range resolved {
		newStock := line.product.Stock - line.quantity
		if err := uc.store.PatchProductStock(ctx, line.product.ID, newStock); err != nil {
			uc.log.Error("stock update failed sale=%s product_id=%d: %v", created.Folio, line.product.ID, err)
			return nil, apperrors.StoreError(err)
		}
		movement := invmodels.Movement{
			ProductID:  line.product.ID,
			Type:       invmodels.MovementExit,
			Quantity:   line.quantity,
			Reason:     fmt.Sprintf("sale %s", created.Folio),
			EmployeeID: req.EmployeeID,
		}
		if err := uc.store.InsertMovement(ctx, movement); err != nil {
			uc.log.Error("movement insert failed sale=%s product_id=%d: %v", created.Folio, line.product.ID, err)
			return nil, apperrors.StoreError(err)
		}
	}

	uc.log.Info("sale registered folio=%s total=%.2f items=%d", created.Folio, total, len(items))
	return &models.SaleResponse{Sale: *created, Items: items}, nil
}

// BuildReceipt renders the receipt PDF for a sale, QR folio included
func (uc *SalesUseCase) BuildReceipt(ctx context.Context, saleID int) ([]byte, *models.Sale, error) {
	sale, err := uc.store.GetSale(ctx, saleID)
	if err != nil {
		return nil, nil, apperrors.StoreError(err)
	}
	if sale == nil {
		return nil, nil, apperrors.NotFound("sale")
	}

	items, err := uc.store.ListSaleItems(ctx, saleID)
	if err != nil {
		return nil, nil, apperrors.StoreError(err)
	}

	qrBytes, err := qrcode.GenerateQRCodePngBytes(sale.Folio, 256)
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	lines := make([]pdf.ReceiptLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, pdf.ReceiptLine{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}

	pdfBytes, err := pdf.GenerateReceiptPDF(pdf.ReceiptData{
		Folio:          sale.Folio,
		Date:           sale.CreatedAt,
		CustomerName:   sale.CustomerName,
		CustomerEmail:  sale.CustomerEmail,
		Lines:          lines,
		Total:          sale.Total,
		QRCodePngBytes: qrBytes,
	})
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}
	return pdfBytes, sale, nil
}

// EmailReceipt renders the receipt and delivers it to the recipient. The
// sale is already committed; a delivery failure is reported but changes
// nothing.
func (uc *SalesUseCase) EmailReceipt(ctx context.Context, saleID int, recipient string) error {
	if msg := validator.GetEmailError(recipient); msg != "" {
		return apperrors.ValidationError(msg)
	}

	pdfBytes, sale, err := uc.BuildReceipt(ctx, saleID)
	if err != nil {
		return err
	}

	if err := uc.sender.SendReceipt(ctx, recipient, sale.Folio, pdfBytes); err != nil {
		uc.log.Error("receipt delivery failed folio=%s recipient=%s: %v", sale.Folio, recipient, err)
		return apperrors.EmailError(err)
	}

	uc.log.Info("receipt emailed folio=%s recipient=%s", sale.Folio, recipient)
	return nil
}

// newFolio mints a short, human-readable sale folio
func newFolio() string {
	return "V-" + strings.ToUpper(uuid.NewString()[:8])
}
