package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	apperrors "github.com/sige-marimon/services/common/errors"
	"github.com/sige-marimon/services/common/logger"
	"github.com/sige-marimon/services/common/response"
	"github.com/sige-marimon/services/services/inventory-lambda/models"
	"github.com/sige-marimon/services/services/inventory-lambda/usecase"
)

var log = logger.Default()

// InventoryHandler routes product catalog and movement requests
type InventoryHandler struct {
	useCase *usecase.InventoryUseCase
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(useCase *usecase.InventoryUseCase) *InventoryHandler {
	return &InventoryHandler{useCase: useCase}
}

// ============================================================
// HandleListProducts - GET /api/products
// Query params: search, category, page, pageSize
// ============================================================
func (h *InventoryHandler) HandleListProducts(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	query := models.ProductQuery{
		Search:   request.QueryStringParameters["search"],
		Category: request.QueryStringParameters["category"],
	}
	if v := request.QueryStringParameters["page"]; v != "" {
		query.Page, _ = strconv.Atoi(v)
	}
	if v := request.QueryStringParameters["pageSize"]; v != "" {
		query.PageSize, _ = strconv.Atoi(v)
	}

	page, err := h.useCase.ListProducts(ctx, query)
	if err != nil {
		return errorResponseFrom(err)
	}
	return response.Success(http.StatusOK, page)
}

// ============================================================
// HandleRegisterMovement - POST /api/movements
// ============================================================
func (h *InventoryHandler) HandleRegisterMovement(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req models.MovementRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.Error(http.StatusBadRequest, "Invalid request body")
	}

	product, err := h.useCase.RegisterMovement(ctx, req)
	if err != nil {
		return errorResponseFrom(err)
	}
	return response.Success(http.StatusCreated, product)
}

// ============================================================
// HandleListMovements - GET /api/movements?productId=N
// ============================================================
func (h *InventoryHandler) HandleListMovements(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	productID, err := strconv.Atoi(request.QueryStringParameters["productId"])
	if err != nil {
		return response.Error(http.StatusBadRequest, "productId is required")
	}

	movements, err := h.useCase.ListMovements(ctx, productID)
	if err != nil {
		return errorResponseFrom(err)
	}
	return response.Success(http.StatusOK, movements)
}

// ============================================================
// Helpers
// ============================================================

func errorResponseFrom(err error) (events.APIGatewayProxyResponse, error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		log.Warn("request failed code=%s: %s", appErr.Code, appErr.Message)
		return response.Error(appErr.HTTPStatus, appErr.Message)
	}
	log.Error("request failed: %v", err)
	return response.Error(http.StatusInternalServerError, "internal error")
}
