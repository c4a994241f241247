package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"memoryvault/application/store"
	"memoryvault/domain/entities"
	"memoryvault/pkg/auth"
	"memoryvault/pkg/common"
	pkgerrors "memoryvault/pkg/errors"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	store  *store.MemoryStore
	logger *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(memories *store.MemoryStore, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		store:  memories,
		logger: logger,
	}
}

// ProfileResponse is a user together with their visible memories
type ProfileResponse struct {
	User     entities.User    `json:"user"`
	Memories []MemoryResponse `json:"memories"`
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.store.Users())
}

// GetUser handles GET /users/{userID}. The profile includes all of the
// user's memories when viewed by its owner, and only the public ones
// otherwise.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	viewer, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	user, ok := h.store.UserByID(chi.URLParam(r, "userID"))
	if !ok {
		common.RespondAppError(w, pkgerrors.NewNotFoundError("user"))
		return
	}

	memories := h.store.MemoriesByCreator(user.ID)
	if viewer.UserID != user.ID {
		visible := memories[:0]
		for _, m := range memories {
			if m.Privacy == entities.PrivacyPublic {
				visible = append(visible, m)
			}
		}
		memories = visible
	}

	common.RespondJSON(w, http.StatusOK, ProfileResponse{
		User:     user,
		Memories: newMemoryResponses(memories, viewer.UserID),
	})
}

// FollowUser handles POST /users/{userID}/follow with toggle semantics:
// following twice unfollows.
func (h *UserHandler) FollowUser(w http.ResponseWriter, r *http.Request) {
	viewer, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	targetID := chi.URLParam(r, "userID")
	if targetID == viewer.UserID {
		common.RespondAppError(w, pkgerrors.NewValidationError("cannot follow yourself"))
		return
	}
	if _, ok := h.store.UserByID(targetID); !ok {
		common.RespondAppError(w, pkgerrors.NewNotFoundError("user"))
		return
	}

	if err := h.store.FollowUser(r.Context(), viewer.UserID, targetID); err != nil {
		h.logger.Error("Failed to toggle follow",
			zap.String("followerID", viewer.UserID),
			zap.String("followingID", targetID),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}

	follower, _ := h.store.UserByID(viewer.UserID)
	common.RespondJSON(w, http.StatusOK, map[string]bool{
		"following": follower.IsFollowing(targetID),
	})
}
