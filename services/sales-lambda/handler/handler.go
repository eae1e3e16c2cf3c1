package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	apperrors "github.com/sige-marimon/services/common/errors"
	"github.com/sige-marimon/services/common/logger"
	"github.com/sige-marimon/services/common/response"
	"github.com/sige-marimon/services/services/sales-lambda/models"
	"github.com/sige-marimon/services/services/sales-lambda/usecase"
)

var log = logger.Default()

// SalesHandler routes sale registration and receipt requests
type SalesHandler struct {
	useCase *usecase.SalesUseCase
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(useCase *usecase.SalesUseCase) *SalesHandler {
	return &SalesHandler{useCase: useCase}
}

// ============================================================
// HandleRegisterSale - POST /api/sales
// ============================================================
func (h *SalesHandler) HandleRegisterSale(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req models.SaleRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.Error(http.StatusBadRequest, "Invalid request body")
	}

	sale, err := h.useCase.RegisterSale(ctx, req)
	if err != nil {
		return errorResponseFrom(err)
	}
	return response.Success(http.StatusCreated, sale)
}

// ============================================================
// HandleGetReceipt - GET /api/sales/{id}/receipt
// Returns the receipt PDF, base64-encoded for API Gateway
// ============================================================
func (h *SalesHandler) HandleGetReceipt(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	saleID, err := strconv.Atoi(request.PathParameters["id"])
	if err != nil {
		return response.Error(http.StatusBadRequest, "invalid sale id")
	}

	pdfBytes, sale, err := h.useCase.BuildReceipt(ctx, saleID)
	if err != nil {
		return errorResponseFrom(err)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":                "application/pdf",
			"Content-Disposition":         fmt.Sprintf("attachment; filename=\"recibo-%s.pdf\"", sale.Folio),
			"Access-Control-Allow-Origin": "*",
		},
		Body:            base64.StdEncoding.EncodeToString(pdfBytes),
		IsBase64Encoded: true,
	}, nil
}

// ============================================================
// HandleEmailReceipt - POST /api/sales/{id}/email-receipt
// ============================================================
func (h *SalesHandler) HandleEmailReceipt(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	saleID, err := strconv.Atoi(request.PathParameters["id"])
	if err != nil {
		return response.Error(http.StatusBadRequest, "invalid sale id")
	}

	var req struct {
		Recipient string `json:"recipient"`
	}
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.Error(http.StatusBadRequest, "Invalid request body")
	}

	if err := h.useCase.EmailReceipt(ctx, saleID, req.Recipient); err != nil {
		return errorResponseFrom(err)
	}
	return response.Success(http.StatusOK, map[string]string{"message": "receipt sent"})
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
