package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"memoryvault/application/store"
	"memoryvault/pkg/common"
)

// AdminHandler handles platform-wide admin requests
type AdminHandler struct {
	store  *store.MemoryStore
	logger *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(memories *store.MemoryStore, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		store:  memories,
		logger: logger,
	}
}

// Stats handles GET /admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.store.Stats())
}
