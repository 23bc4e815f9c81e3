package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/spendtrack/spendtrack/internal/spendtrack/service"
	"github.com/spendtrack/spendtrack/pkg/cryptox"
	"github.com/spendtrack/spendtrack/pkg/httpx"
	"github.com/spendtrack/spendtrack/pkg/slogx"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type credentialsRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type signupResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// decodeCredentials parses and validates a JSON credentials body. It writes
// the error response itself and reports whether the caller should proceed.
func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Request body must be valid JSON",
		})
		return credentialsRequest{}, false
	}
	if err := validate.Struct(req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "username and password are required; password must be 8-72 characters",
		})
		return credentialsRequest{}, false
	}
	return req, true
}

type SignupHandler struct {
	AuthService *service.AuthService
}

func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.AuthService.Signup(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			httpx.WriteJSON(w, http.StatusConflict, httpx.ErrorResponse{
				Error:            "username_taken",
				ErrorDescription: "Username is already taken",
			})
		case errors.Is(err, cryptox.ErrPasswordTooLong):
			httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "Password exceeds the maximum length",
			})
		default:
			log.Error("signup failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, httpx.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to create account",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, signupResponse{
		ID:       user.ID,
		Username: user.Username,
		Roles:    user.Roles,
	})
}

type LoginHandler struct {
	AuthService *service.AuthService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	token, err := h.AuthService.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteJSON(w, http.StatusUnauthorized, httpx.ErrorResponse{
				Error:            "invalid_credentials",
				ErrorDescription: "Incorrect username or password",
			})
			return
		}
		log.Error("login failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, httpx.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to authenticate",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, token)
}
