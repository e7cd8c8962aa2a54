package api

import (
	"errors"
	"net/http"

	"github.com/product-catalog/internal/middleware"
	"github.com/product-catalog/internal/model"
)

// Register godoc
// @Summary Register a new user
// @Description Create a user account and return its access token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Registration details"
// @Success 201 {object} model.AuthResponse
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 500 {object} ErrorResponse "Server error"
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadBody(w, err)
		return
	}

	user, token, err := h.auth.Register(r.Context(), req)
	if err != nil {
		if ve, ok := model.IsValidationError(err); ok {
			respondValidation(w, ve)
			return
		}
		h.log.ErrorContext(r.Context(), "failed to register user", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	respondJSON(w, http.StatusCreated, model.AuthResponse{
		Message:     "user registered successfully",
		User:        user,
		AccessToken: token,
	})
}

// Login godoc
// @Summary User login
// @Description Check credentials and return the user's access token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Login credentials"
// @Success 200 {object} model.AuthResponse
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Failure 500 {object} ErrorResponse "Server error"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadBody(w, err)
		return
	}

	user, token, err := h.auth.Login(r.Context(), req)
	if err != nil {
		if ve, ok := model.IsValidationError(err); ok {
			respondValidation(w, ve)
			return
		}
		if errors.Is(err, model.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.log.ErrorContext(r.Context(), "failed to log in", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	respondJSON(w, http.StatusOK, model.AuthResponse{
		Message:     "login successful",
		User:        user,
		AccessToken: token,
	})
}

// Logout godoc
// @Summary User logout
// @Description Revoke the caller's access token
// @Tags Authentication
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "No token bound to the caller"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Server error"
// @Security TokenAuth
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication credentials were not provided")
		return
	}

	if err := h.auth.Revoke(r.Context(), user); err != nil {
		if errors.Is(err, model.ErrTokenNotFound) {
			respondError(w, http.StatusBadRequest, "no token found for this user")
			return
		}
		h.log.ErrorContext(r.Context(), "failed to log out", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "failed to log out")
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Message: "logged out successfully"})
}
