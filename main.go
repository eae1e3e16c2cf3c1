package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/sige-marimon/services/common/config"
	"github.com/sige-marimon/services/common/email"
	"github.com/sige-marimon/services/common/logger"
	"github.com/sige-marimon/services/common/store"
	authhandler "github.com/sige-marimon/services/services/auth-lambda/handler"
	authrepo "github.com/sige-marimon/services/services/auth-lambda/repository"
	authusecase "github.com/sige-marimon/services/services/auth-lambda/usecase"
	invhandler "github.com/sige-marimon/services/services/inventory-lambda/handler"
	invrepo "github.com/sige-marimon/services/services/inventory-lambda/repository"
	invusecase "github.com/sige-marimon/services/services/inventory-lambda/usecase"
	saleshandler "github.com/sige-marimon/services/services/sales-lambda/handler"
	salesrepo "github.com/sige-marimon/services/services/sales-lambda/repository"
	salesusecase "github.com/sige-marimon/services/services/sales-lambda/usecase"
)

// lambdaFunc is the shape every service handler method exposes
type lambdaFunc func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// adaptRequest converts an http.Request into the API Gateway shape the
// service handlers consume
func adaptRequest(r *http.Request, pathParams map[string]string) events.APIGatewayProxyRequest {
	var body string
	if r.Body != nil {
		defer r.Body.Close()
		if raw, err := io.ReadAll(r.Body); err == nil {
			body = string(raw)
		}
	}

	headers := make(map[string]string)
	for key, values := range r.Header {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	queryParams := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			queryParams[key] = values[0]
		}
	}

	return events.APIGatewayProxyRequest{
		HTTPMethod:            r.Method,
		Path:                  r.URL.Path,
		Headers:               headers,
		QueryStringParameters: queryParams,
		PathParameters:        pathParams,
		Body:                  body,
	}
}

// writeResponse writes an APIGatewayProxyResponse back to the client,
// decoding base64 bodies such as receipt PDFs
func writeResponse(w http.ResponseWriter, resp events.APIGatewayProxyResponse) {
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)

	if resp.IsBase64Encoded {
		if raw, err := base64.StdEncoding.DecodeString(resp.Body); err == nil {
			w.Write(raw)
			return
		}
	}
	w.Write([]byte(resp.Body))
}

// corsMiddleware handles CORS preflight requests for the local server
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}

// route binds one method+handler pair to an http endpoint
func route(method string, fn lambdaFunc) http.HandlerFunc {
	return corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		resp, err := fn(r.Context(), adaptRequest(r, nil))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeResponse(w, resp)
	})
}

// routeWithID binds a method+handler pair for endpoints carrying an {id}
// path segment
func routeWithID(method string, fn lambdaFunc) http.HandlerFunc {
	return corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id := r.PathValue("id")
		if id == "" {
			http.Error(w, "Missing id", http.StatusBadRequest)
			return
		}
		resp, err := fn(r.Context(), adaptRequest(r, map[string]string{"id": id}))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeResponse(w, resp)
	})
}

func main() {
	log := logger.Default()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Warn("incomplete configuration: %v", err)
	}

	client := store.NewClient(&store.Config{
		BaseURL: cfg.StoreURL,
		APIKey:  cfg.StoreAPIKey,
		Timeout: cfg.StoreTimeout,
	})
	sender := email.NewService(nil)

	empRepo := authrepo.NewEmployeeRepository(client)
	authH := authhandler.NewAuthHandler(
		authusecase.NewAuthUseCase(empRepo),
		authusecase.NewRecoveryManager(empRepo, sender, nil),
		authusecase.NewEmployeeUseCase(empRepo),
	)
	invH := invhandler.NewInventoryHandler(
		invusecase.NewInventoryUseCase(invrepo.NewProductRepository(client)),
	)
	salesH := saleshandler.NewSalesHandler(
		salesusecase.NewSalesUseCase(salesrepo.NewSalesRepository(client), sender, nil),
	)

	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("/api/login", route(http.MethodPost, authH.HandleLogin))
	mux.HandleFunc("/api/recovery/request", route(http.MethodPost, authH.HandleRequestRecovery))
	mux.HandleFunc("/api/recovery/verify", route(http.MethodPost, authH.HandleVerifyCode))
	mux.HandleFunc("/api/recovery/change-password", route(http.MethodPost, authH.HandleChangePassword))
	mux.HandleFunc("/api/employees", route(http.MethodGet, authH.HandleListEmployees))
	mux.HandleFunc("/api/employees/{id}", routeWithID(http.MethodGet, authH.HandleGetEmployee))

	// Inventory
	mux.HandleFunc("/api/products", route(http.MethodGet, invH.HandleListProducts))
	mux.HandleFunc("/api/movements", corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		var fn lambdaFunc
		switch r.Method {
		case http.MethodGet:
			fn = invH.HandleListMovements
		case http.MethodPost:
			fn = invH.HandleRegisterMovement
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		resp, err := fn(r.Context(), adaptRequest(r, nil))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeResponse(w, resp)
	}))

	// Sales
	mux.HandleFunc("/api/sales", route(http.MethodPost, salesH.HandleRegisterSale))
	mux.HandleFunc("/api/sales/{id}/receipt", routeWithID(http.MethodGet, salesH.HandleGetReceipt))
	mux.HandleFunc("/api/sales/{id}/email-receipt", routeWithID(http.MethodPost, salesH.HandleEmailReceipt))

	// Health
	mux.HandleFunc("/health", corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}))

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	log.Info("local backend listening on http://localhost:%s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatal("server stopped: %v", err)
	}
}
