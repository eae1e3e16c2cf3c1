package main

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sige-marimon/services/common/config"
	"github.com/sige-marimon/services/common/email"
	"github.com/sige-marimon/services/common/logger"
	"github.com/sige-marimon/services/common/store"
	"github.com/sige-marimon/services/services/sales-lambda/handler"
	"github.com/sige-marimon/services/services/sales-lambda/repository"
	"github.com/sige-marimon/services/services/sales-lambda/usecase"
)

var salesHandler *handler.SalesHandler

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
	repo := repository.NewSalesRepository(client)
	sender := email.NewService(email.DefaultConfig())
	salesHandler = handler.NewSalesHandler(usecase.NewSalesUseCase(repo, sender, nil))
}

// Handler is the Lambda function handler
func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	path := request.Path
	method := request.HTTPMethod

	switch {
	case path == "/api/sales" && method == "POST":
		return salesHandler.HandleRegisterSale(ctx, request)

	case strings.HasPrefix(path, "/api/sales/") && strings.HasSuffix(path, "/receipt") && method == "GET":
		ensureSaleID(&request)
		return salesHandler.HandleGetReceipt(ctx, request)

	case strings.HasPrefix(path, "/api/sales/") && strings.HasSuffix(path, "/email-receipt") && method == "POST":
		ensureSaleID(&request)
		return salesHandler.HandleEmailReceipt(ctx, request)

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

// ensureSaleID fills PathParameters["id"] when the request arrives without
// API Gateway path mapping, as with the local dev adapter
func ensureSaleID(request *events.APIGatewayProxyRequest) {
	if request.PathParameters["id"] != "" {
		return
	}
	parts := strings.Split(strings.Trim(request.Path, "/"), "/")
	if len(parts) >= 3 {
		if request.PathParameters == nil {
			request.PathParameters = map[string]string{}
		}
		request.PathParameters["id"] = parts[2]
	}
}

func main() {
	lambda.Start(Handler)
}
