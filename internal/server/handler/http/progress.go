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
	"github.com/dkorolev/playsave/internal/validation"
)

// ProgressService defines the interface for progress operations required by
// the HTTP handlers.
type ProgressService interface {
	// Save atomically creates or overwrites the progress for userID.
	Save(ctx context.Context, userID, level, coins int64, enemiesDefeated *int64) error
	// Get returns the progress for userID, or repository.ErrNotFound.
	Get(ctx context.Context, userID int64) (*models.Progress, error)
}

// ProgressHandler handles HTTP requests for saving and reading game progress.
type ProgressHandler struct {
	// ProgressService performs the underlying progress operations.
	ProgressService ProgressService
	// Log receives internal errors; client responses stay generic.
	Log *zap.Logger
	// EnforceSessionIdentity makes Save derive the user ID from the
	// authenticated session instead of trusting the request body, and
	// reject anonymous requests with 401.
	EnforceSessionIdentity bool
}

// saveProgressRequest represents the JSON payload for a progress save.
// Pointer fields distinguish absent values from zero.
type saveProgressRequest struct {
	UserID          *int64 `json:"userID"`
	Level           *int64 `json:"level"`
	Coins           *int64 `json:"coins"`
	EnemiesDefeated *int64 `json:"enemiesDefeated"`
}

// progressData echoes the saved fields back to the client.
type progressData struct {
	UserID int64 `json:"userID"`
	Level  int64 `json:"level"`
	Coins  int64 `json:"coins"`
}

// progressBody is the read-path response shape.
type progressBody struct {
	Level           int64 `json:"level"`
	Coins           int64 `json:"coins"`
	EnemiesDefeated int64 `json:"enemies_defeated"`
}

// Save handles POST /api/progress.
// All fields are validated before any store access. enemiesDefeated is
// optional; when omitted the stored value is preserved.
//
//	200 {success:true, message:"Progress saved successfully.", data:{userID, level, coins}}
//	400 {success:false, message:<validation reason>}
//	401 in enforced-identity mode when the session is anonymous
//	500 {success:false, message:<generic>}
func (h *ProgressHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if h.EnforceSessionIdentity {
		session := middleware.SessionFromContext(r.Context())
		if session == nil || !session.Authenticated() {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		userID := session.UserID()
		req.UserID = &userID
	}

	if err := validation.SaveProgress(req.UserID, req.Level, req.Coins, req.EnemiesDefeated); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.ProgressService.Save(r.Context(), *req.UserID, *req.Level, *req.Coins, req.EnemiesDefeated); err != nil {
		h.Log.Error("failed to save progress", zap.Int64("user_id", *req.UserID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "An error occurred while saving progress.")
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Progress saved successfully.",
		Data:    progressData{UserID: *req.UserID, Level: *req.Level, Coins: *req.Coins},
	})
}

// Get handles GET /api/progress?userID=…
//
//	200 {level, coins, enemies_defeated}
//	400 {success:false, message:"User ID is required"}
//	404 {success:false, message:"No progress found"}
//	500 {success:false, message:<generic>}
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("userID")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return
	}
	userID, err := validation.UserID(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	progress, err := h.ProgressService.Get(r.Context(), userID)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "No progress found")
		return
	}
	if err != nil {
		h.Log.Error("failed to fetch progress", zap.Int64("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, progressBody{
		Level:           progress.Level,
		Coins:           progress.Coins,
		EnemiesDefeated: progress.EnemiesDefeated,
	})
}
