package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"memoryvault/application/store"
	"memoryvault/domain/entities"
	"memoryvault/pkg/auth"
	"memoryvault/pkg/common"
	pkgerrors "memoryvault/pkg/errors"
	"memoryvault/pkg/utils"
)

// MemoryHandler handles memory-related HTTP requests
type MemoryHandler struct {
	store  *store.MemoryStore
	logger *zap.Logger
}

// NewMemoryHandler creates a new memory handler
func NewMemoryHandler(memories *store.MemoryStore, logger *zap.Logger) *MemoryHandler {
	return &MemoryHandler{
		store:  memories,
		logger: logger,
	}
}

// CreateMemoryRequest represents the request body for creating a memory.
// Tags arrive as a comma-separated string, the way the entry form
// submits them.
type CreateMemoryRequest struct {
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Date        string `json:"date" validate:"omitempty,max=40"`
	Location    string `json:"location" validate:"omitempty,max=200"`
	Category    string `json:"category"`
	Tags        string `json:"tags" validate:"omitempty,max=500"`
	Privacy     string `json:"privacy" validate:"omitempty,oneof=public private followers"`
}

// UpdateMemoryRequest represents the request body for updating a memory
type UpdateMemoryRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Date        *string `json:"date,omitempty" validate:"omitempty,max=40"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=200"`
	Category    *string `json:"category,omitempty"`
	Tags        *string `json:"tags,omitempty" validate:"omitempty,max=500"`
	Privacy     *string `json:"privacy,omitempty" validate:"omitempty,oneof=public private followers"`
}

// CommentRequest represents the request body for commenting on a memory
type CommentRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

// MemoryResponse is a memory augmented with viewer-specific state
type MemoryResponse struct {
	entities.Memory
	LikedByMe bool `json:"likedByMe"`
}

func newMemoryResponse(m entities.Memory, viewerID string) MemoryResponse {
	return MemoryResponse{
		Memory:    m,
		LikedByMe: viewerID != "" && m.LikedByUser(viewerID),
	}
}

func newMemoryResponses(memories []entities.Memory, viewerID string) []MemoryResponse {
	out := make([]MemoryResponse, 0, len(memories))
	for _, m := range memories {
		out = append(out, newMemoryResponse(m, viewerID))
	}
	return out
}

// CreateMemory handles POST /memories
func (h *MemoryHandler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	var req CreateMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		common.RespondAppError(w, pkgerrors.NewValidationError("title is required").WithCode("EmptyTitle"))
		return
	}
	if req.Category != "" && !entities.Category(req.Category).Valid() {
		common.RespondAppError(w, pkgerrors.NewValidationError("unknown category"))
		return
	}

	memory, err := h.store.AddMemory(r.Context(), store.MemoryDraft{
		CreatorID:   user.UserID,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Category:    entities.Category(req.Category),
		Tags:        entities.ParseTags(req.Tags),
		Privacy:     entities.Privacy(req.Privacy),
		Media:       []string{},
	})
	if err != nil {
		h.logger.Error("Failed to create memory", zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, newMemoryResponse(memory, user.UserID))
}

// ListMemories handles GET /memories, returning the caller's memories
func (h *MemoryHandler) ListMemories(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}
	memories := h.store.MemoriesByCreator(user.UserID)
	common.RespondJSON(w, http.StatusOK, newMemoryResponses(memories, user.UserID))
}

// ListPublicMemories handles GET /memories/public with optional search,
// category, and location filters.
func (h *MemoryHandler) ListPublicMemories(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	memories := h.store.PublicMemories(store.PublicFilter{
		Search:   query.Get("search"),
		Category: query.Get("category"),
		Location: query.Get("location"),
	})

	viewerID := ""
	if user, err := auth.GetUserFromContext(r.Context()); err == nil {
		viewerID = user.UserID
	}
	common.RespondJSON(w, http.StatusOK, newMemoryResponses(memories, viewerID))
}

// GetMemory handles GET /memories/{memoryID}
func (h *MemoryHandler) GetMemory(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	memory, ok := h.store.MemoryByID(chi.URLParam(r, "memoryID"))
	if !ok {
		common.RespondAppError(w, pkgerrors.NewNotFoundError("memory"))
		return
	}
	common.RespondJSON(w, http.StatusOK, newMemoryResponse(memory, user.UserID))
}

// UpdateMemory handles PUT /memories/{memoryID}. Only the creator may
// edit a memory.
func (h *MemoryHandler) UpdateMemory(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	memoryID := chi.URLParam(r, "memoryID")
	memory, ok := h.store.MemoryByID(memoryID)
	if !ok {
		common.RespondAppError(w, pkgerrors.NewNotFoundError("memory"))
		return
	}
	if memory.CreatorID != user.UserID {
		common.RespondAppError(w, pkgerrors.NewForbiddenError("only the creator can edit a memory"))
		return
	}

	var req UpdateMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	patch := entities.MemoryPatch{
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			common.RespondAppError(w, pkgerrors.NewValidationError("title is required").WithCode("EmptyTitle"))
			return
		}
		patch.Title = &title
	}
	if req.Category != nil {
		category := entities.Category(*req.Category)
		if !category.Valid() {
			common.RespondAppError(w, pkgerrors.NewValidationError("unknown category"))
			return
		}
		patch.Category = &category
	}
	if req.Privacy != nil {
		privacy := entities.Privacy(*req.Privacy)
		patch.Privacy = &privacy
	}
	if req.Tags != nil {
		tags := entities.ParseTags(*req.Tags)
		patch.Tags = &tags
	}

	if err := h.store.UpdateMemory(r.Context(), memoryID, patch); err != nil {
		h.logger.Error("Failed to update memory", zap.String("memoryID", memoryID), zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	updated, _ := h.store.MemoryByID(memoryID)
	common.RespondJSON(w, http.StatusOK, newMemoryResponse(updated, user.UserID))
}

// DeleteMemory handles DELETE /memories/{memoryID}. Only the creator
// may delete a memory.
func (h *MemoryHandler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	memoryID := chi.URLParam(r, "memoryID")
	memory, ok := h.store.MemoryByID(memoryID)
	if !ok {
		common.RespondAppError(w, pkgerrors.NewNotFoundError("memory"))
		return
	}
	if memory.CreatorID != user.UserID {
		common.RespondAppError(w, pkgerrors.NewForbiddenError("only the creator can delete a memory"))
		return
	}

	if err := h.store.DeleteMemory(r.Context(), memoryID); err != nil {
		h.logger.Error("Failed to delete memory", zap.String("memoryID", memoryID), zap.Error(err))
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "memory deleted"})
}

// LikeMemory handles POST /memories/{memoryID}/like with toggle
// semantics: liking twice restores the original state.
func (h *MemoryHandler) LikeMemory(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	memoryID := chi.URLParam(r, "memoryID")
	memory, found, err := h.store.LikeMemory(r.Context(), memoryID, user.UserID)
	if err != nil {
		h.logger.Error("Failed to toggle like", zap.String("memoryID", memoryID), zap.Error(err))
		common.RespondAppError(w, err)
		return
	}
	if !found {
		common.RespondAppError(w, pkgerrors.NewNotFoundError("memory"))
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"likes":     memory.Likes,
		"likedByMe": memory.LikedByUser(user.UserID),
	})
}

// AddComment handles POST /memories/{memoryID}/comments
func (h *MemoryHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	memoryID := chi.URLParam(r, "memoryID")
	comment, found, err := h.store.AddComment(r.Context(), memoryID, user.UserID, req.Text)
	if err != nil {
		h.logger.Error("Failed to add comment", zap.String("memoryID", memoryID), zap.Error(err))
		common.RespondAppError(w, err)
		return
	}
	if !found {
		common.RespondAppError(w, pkgerrors.NewNotFoundError("memory"))
		return
	}

	common.RespondJSON(w, http.StatusCreated, comment)
}
