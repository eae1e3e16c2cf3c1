package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sige-marimon/services/common/config"
	"github.com/sige-marimon/services/common/logger"
	"github.com/sige-marimon/services/common/store"
	"github.com/sige-marimon/services/services/inventory-lambda/handler"
	"github.com/sige-marimon/services/services/inventory-lambda/repository"
	"github.com/sige-marimon/services/services/inventory-lambda/usecase"
)

var inventoryHandler *handler.InventoryHandler

func init() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Warn("incomplete configuration: %v", err)
	}

	client := store.NewClient(&store.Config{
		BaseURL: cfg.StoreURL,
		APIKey:  cfg.StoreAPIKey,
		Timeout: cfg.StoreTimeout,
	})
	repo := repository.NewProductRepository(client)
	inventoryHandler = handler.NewInventoryHandler(usecase.NewInventoryUseCase(repo))
}

// Handler is the Lambda function handler
func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	path := request.Path
	method := request.HTTPMethod

	switch {
	case path == "/api/products" && method == "GET":
		return inventoryHandler.HandleListProducts(ctx, request)

	case path == "/api/movements" && method == "POST":
		return inventoryHandler.HandleRegisterMovement(ctx, request)

	case path == "/api/movements" && method == "GET":
		return inventoryHandler.HandleListMovements(ctx, request)

	default:
		return events.APIGatewayProxyResponse{
			StatusCode: 404,
			Body:       `{"error":"Not Found"}`,
			Headers: map[string]string{
				"Content-Type": "application/json",
			},
		}, nil
	}
}

func main() {
	lambda.Start(Handler)
}
