package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/dkorolev/playsave/internal/middleware"
	"github.com/dkorolev/playsave/internal/models"
	"github.com/dkorolev/playsave/internal/repository"
	"github.com/dkorolev/playsave/internal/service"
	"github.com/dkorolev/playsave/internal/validation"
)

// AuthService defines the interface for authentication operations required
// by the HTTP handlers.
type AuthService interface {
	// Register hashes the password and creates the user. Returns
	// repository.ErrDuplicateUser if the username is taken.
	Register(ctx context.Context, username, password string) error
	// Login verifies the credentials and returns the user, or
	// service.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*models.User, error)
}

// AuthHandler handles HTTP requests for user registration and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Log receives internal errors; client responses stay generic.
	Log *zap.Logger
}

// credentialsRequest represents the JSON payload for registration and login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /api/register.
// It validates the username and password shape before any store access,
// then creates the user.
//
//	201 {success:true, message:"User registered"}
//	400 {success:false, message:<validation reason>}
//	409 {success:false, message:"Username already exists"}
//	500 {success:false, message:<generic>}
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validation.Username(req.Username); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.Password(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.AuthService.Register(r.Context(), req.Username, req.Password)
	if errors.Is(err, repository.ErrDuplicateUser) {
		writeError(w, http.StatusConflict, "Username already exists")
		return
	}
	if err != nil {
		h.Log.Error("failed to register user", zap.String("username", req.Username), zap.Error(err))
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	writeJSON(w, http.StatusCreated, response{Success: true, Message: "User registered"})
}

// Login handles POST /api/login.
// On success the session is bound to the user; unknown usernames and wrong
// passwords produce the identical 401 body, and the unknown-user path burns
// a dummy hash verification so timing does not tell them apart.
//
//	200 {success:true, message:"Logged in successfully", userID, username}
//	401 {success:false, message:"Invalid credentials"}
//	500 {success:false, message:<generic>}
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.Log.Error("failed to log user in", zap.String("username", req.Username), zap.Error(err))
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	if session := middleware.SessionFromContext(r.Context()); session != nil {
		session.Authenticate(user.ID)
	}

	writeJSON(w, http.StatusOK, response{
		Success:  true,
		Message:  "Logged in successfully",
		UserID:   user.ID,
		Username: user.Username,
	})
}
