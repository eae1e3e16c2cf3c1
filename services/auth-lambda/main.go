package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sige-marimon/services/common/config"
	"github.com/sige-marimon/services/common/email"
	"github.com/sige-marimon/services/common/logger"
	"github.com/sige-marimon/services/common/store"
	"github.com/sige-marimon/services/services/auth-lambda/handler"
	"github.com/sige-marimon/services/services/auth-lambda/repository"
	"github.com/sige-marimon/services/services/auth-lambda/usecase"
)

var authHandler *handler.AuthHandler

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
	repo := repository.NewEmployeeRepository(client)
	sender := email.NewService(nil)

	authHandler = handler.NewAuthHandler(
		usecase.NewAuthUseCase(repo),
		usecase.NewRecoveryManager(repo, sender, nil),
		usecase.NewEmployeeUseCase(repo),
	)
}

// Handler is the Lambda function handler
func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	path := request.Path
	method := request.HTTPMethod

	switch {
	case path == "/api/login" && method == "POST":
		return authHandler.HandleLogin(ctx, request)

	case path == "/api/recovery/request" && method == "POST":
		return authHandler.HandleRequestRecovery(ctx, request)

	case path == "/api/recovery/verify" && method == "POST":
		return authHandler.HandleVerifyCode(ctx, request)

	case path == "/api/recovery/change-password" && method == "POST":
		return authHandler.HandleChangePassword(ctx, request)

	case path == "/api/employees" && method == "GET":
		return authHandler.HandleListEmployees(ctx, request)

	case request.PathParameters["id"] != "" && method == "GET":
		return authHandler.HandleGetEmployee(ctx, request)

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
