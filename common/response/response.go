package response

import (
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
)

// CORS headers attached to every API response
var CORSHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET,POST,PATCH,DELETE,OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type,Authorization",
}

// APIResponse is the JSON envelope the services return for data and errors
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// SuccessResponse creates a success envelope
func SuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
	}
}

// ErrorResponse creates an error envelope
func ErrorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   message,
	}
}

// Success builds a complete proxy response carrying a success envelope
func Success(statusCode int, data interface{}) (events.APIGatewayProxyResponse, error) {
	return proxy(statusCode, "application/json", SuccessResponse(data))
}

// Error builds a complete proxy response carrying an error envelope
func Error(statusCode int, message string) (events.APIGatewayProxyResponse, error) {
	return proxy(statusCode, "application/json", ErrorResponse(message))
}

// Status builds a proxy response in the recovery flow's status/message shape
func Status(statusCode int, status, message string) (events.APIGatewayProxyResponse, error) {
	return proxy(statusCode, "application/json;charset=UTF-8", map[string]string{
		"status":  status,
		"message": message,
	})
}

func proxy(statusCode int, contentType string, payload interface{}) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(payload)

	headers := map[string]string{"Content-Type": contentType}
	for key, value := range CORSHeaders {
		headers[key] = value
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}
