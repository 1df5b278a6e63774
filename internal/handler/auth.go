package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"user-auth-api/internal/payload"
	"user-auth-api/internal/usecase"
	"user-auth-api/shared/response"
	"user-auth-api/shared/validator"
)

// AuthHandler serves the /api authentication endpoints.
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	logger      *zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authUsecase usecase.AuthUsecase, logger *zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger,
	}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if fieldErrors := validator.ValidateStruct(req); len(fieldErrors) > 0 {
		response.BadRequest(w, "Provide name, email, and password", fieldErrors)
		return
	}

	user, err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(w, err, "register")
		return
	}

	response.Created(w, "User registered successfully. Please verify your email.", user)
}

// VerifyEmail handles POST /api/verify-email. Verifying an already verified
// account succeeds again; the response does not reveal the prior state.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.authUsecase.VerifyEmail(r.Context(), req.Code); err != nil {
		h.respondError(w, err, "verify email")
		return
	}

	response.OK(w, "Email verification successful", nil)
}

// Login handles POST /api/login. The token pair is returned in the body and
// also set as cookies.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	tokens, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(w, err, "login")
		return
	}

	setAuthCookies(w, tokens.AccessToken, tokens.RefreshToken)

	response.OK(w, "Login successful", payload.LoginResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// Logout handles POST /api/logout. Runs behind the auth middleware.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		response.BadRequest(w, "Invalid request", nil)
		return
	}

	if err := h.authUsecase.Logout(r.Context(), userID); err != nil {
		h.respondError(w, err, "logout")
		return
	}

	clearAuthCookies(w)

	response.OK(w, "Logout successful", nil)
}

// respondError maps usecase errors to HTTP status codes and user-facing
// messages. Anything unmapped falls through to a 500 carrying the error text.
func (h *AuthHandler) respondError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrEmailAlreadyRegistered):
		response.BadRequest(w, "Email is already registered", nil)
	case errors.Is(err, usecase.ErrInvalidCode):
		response.BadRequest(w, "Invalid code", nil)
	case errors.Is(err, usecase.ErrUserNotRegistered):
		response.BadRequest(w, "User not registered", nil)
	case errors.Is(err, usecase.ErrAccountInactive):
		response.BadRequest(w, "Account is inactive. Contact Admin.", nil)
	case errors.Is(err, usecase.ErrInvalidCredentials):
		response.BadRequest(w, "Invalid email or password", nil)
	default:
		h.logger.Error().Err(err).Str("operation", operation).Msg("unexpected error")
		response.InternalError(w, err.Error())
	}
}
