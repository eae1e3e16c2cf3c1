package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/sige-marimon/services/common/jwt"
	"github.com/sige-marimon/services/common/logger"
	"github.com/sige-marimon/services/common/response"
	"github.com/sige-marimon/services/common/validator"
	"github.com/sige-marimon/services/services/auth-lambda/models"
	"github.com/sige-marimon/services/services/auth-lambda/usecase"
)

var log = logger.Default()

// AuthHandler routes authentication and password recovery requests
type AuthHandler struct {
	auth      *usecase.AuthUseCase
	recovery  *usecase.RecoveryManager
	employees *usecase.EmployeeUseCase
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *usecase.AuthUseCase, recovery *usecase.RecoveryManager, employees *usecase.EmployeeUseCase) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		recovery:  recovery,
		employees: employees,
	}
}

// ============================================================
// HandleLogin - POST /api/login
// Dual-path credential resolution: administrator first, employee second.
// All rejection causes collapse to one generic message at this boundary.
// ============================================================
func (h *AuthHandler) HandleLogin(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	reqLog := log.WithRequestID(uuid.NewString())

	var req models.LoginRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.Error(http.StatusBadRequest, "Invalid request body")
	}

	outcome := h.auth.Login(ctx, req.Email, req.Password)

	switch result := outcome.(type) {
	case models.Administrator:
		token, err := jwt.GenerateToken(result.ID, result.Email, jwt.RoleAdmin)
		if err != nil {
			reqLog.Error("token generation failed: %v", err)
			return response.Error(http.StatusInternalServerError, "failed to generate token")
		}
		return response.Success(http.StatusOK, models.LoginResponse{
			Role:  jwt.RoleAdmin,
			User:  result,
			Token: token,
		})

	case models.Employee:
		token, err := jwt.GenerateToken(strconv.Itoa(result.ID), result.Email, jwt.RoleEmployee)
		if err != nil {
			reqLog.Error("token generation failed: %v", err)
			return response.Error(http.StatusInternalServerError, "failed to generate token")
		}
		return response.Success(http.StatusOK, models.LoginResponse{
			Role:  jwt.RoleEmployee,
			User:  result,
			Token: token,
		})

	case models.Rejected:
		reqLog.Warn("login rejected email=%s reason=%s", req.Email, result.Reason)
		switch result.Reason {
		case usecase.ReasonMissingCredentials:
			return response.Error(http.StatusBadRequest, usecase.ReasonMissingCredentials)
		case usecase.ReasonConnectionError:
			return response.Error(http.StatusBadGateway, usecase.ReasonConnectionError)
		default:
			// Do not disclose whether the email or the password was wrong
			return response.Error(http.StatusUnauthorized, usecase.ReasonIncorrectCredentials)
		}
	}

	return response.Error(http.StatusInternalServerError, "unexpected outcome")
}

// ============================================================
// HandleRequestRecovery - POST /api/recovery/request
// ============================================================
func (h *AuthHandler) HandleRequestRecovery(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req models.RequestRecoveryRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.Error(http.StatusBadRequest, "Invalid request body")
	}
	if msg := validator.GetEmailError(req.Email); msg != "" {
		return response.Error(http.StatusBadRequest, msg)
	}

	ok, message := h.recovery.RequestRecovery(ctx, req.Email)
	if !ok {
		return response.Status(http.StatusBadRequest, "fail", message)
	}
	return response.Status(http.StatusOK, "success", message)
}

// ============================================================
// HandleVerifyCode - POST /api/recovery/verify
// Read-only check; never consumes the code
// ============================================================
func (h *AuthHandler) HandleVerifyCode(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req models.VerifyCodeRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.Error(http.StatusBadRequest, "Invalid request body")
	}
	if msg := validator.GetEmailError(req.Email); msg != "" {
		return response.Error(http.StatusBadRequest, msg)
	}
	if msg := validator.GetRecoveryCodeError(req.Code); msg != "" {
		return response.Error(http.StatusBadRequest, msg)
	}

	ok, message := h.recovery.VerifyCode(ctx, req.Email, req.Code)
	if !ok {
		return response.Status(http.StatusBadRequest, "fail", message)
	}
	return response.Status(http.StatusOK, "success", message)
}

// ============================================================
// HandleChangePassword - POST /api/recovery/change-password
// ============================================================
func (h *AuthHandler) HandleChangePassword(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req models.ChangePasswordRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.Error(http.StatusBadRequest, "Invalid request body")
	}
	if msg := validator.GetEmailError(req.Email); msg != "" {
		return response.Error(http.StatusBadRequest, msg)
	}
	if msg := validator.GetRecoveryCodeError(req.Code); msg != "" {
		return response.Error(http.StatusBadRequest, msg)
	}
	if msg := validator.GetPasswordError(req.NewPassword); msg != "" {
		return response.Error(http.StatusBadRequest, msg)
	}

	ok, message := h.recovery.ChangePassword(ctx, req.Email, req.Code, req.NewPassword)
	if !ok {
		return response.Status(http.StatusBadRequest, "fail", message)
	}
	return response.Status(http.StatusOK, "success", message)
}

// ============================================================
// HandleListEmployees - GET /api/employees
// ============================================================
func (h *AuthHandler) HandleListEmployees(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if err := requireToken(request); err != nil {
		return response.Error(http.StatusUnauthorized, err.Error())
	}

	employees, err := h.employees.ListEmployees(ctx)
	if err != nil {
		log.Error("list employees failed: %v", err)
		return response.Error(http.StatusBadGateway, "failed to load employees")
	}
	return response.Success(http.StatusOK, employees)
}

// ============================================================
// HandleGetEmployee - GET /api/employees/{id}
// ============================================================
func (h *AuthHandler) HandleGetEmployee(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if err := requireToken(request); err != nil {
		return response.Error(http.StatusUnauthorized, err.Error())
	}

	id, err := strconv.Atoi(request.PathParameters["id"])
	if err != nil || id <= 0 {
		return response.Error(http.StatusBadRequest, "invalid employee id")
	}

	employee, err := h.employees.GetEmployee(ctx, id)
	if err != nil {
		log.Error("get employee failed id=%d: %v", id, err)
		return response.Error(http.StatusNotFound, "employee not found")
	}
	return response.Success(http.StatusOK, employee)
}

// ============================================================
// Helpers
// ============================================================

func extractToken(request events.APIGatewayProxyRequest) string {
	if auth := request.Headers["Authorization"]; auth != "" {
		if len(auth) > 7 && auth[:7] == "Bearer " {
			return auth[7:]
		}
	}
	if auth := request.Headers["authorization"]; auth != "" {
		if len(auth) > 7 && auth[:7] == "Bearer " {
			return auth[7:]
		}
	}
	return ""
}

func requireToken(request events.APIGatewayProxyRequest) error {
	token := extractToken(request)
	if token == "" {
		return errMissingToken
	}
	if _, err := jwt.ValidateToken(token); err != nil {
		return errInvalidToken
	}
	return nil
}

var (
	errMissingToken = jsonError("Missing authorization token")
	errInvalidToken = jsonError("Invalid authorization token")
)

type jsonError string

func (e jsonError) Error() string { return string(e) }

