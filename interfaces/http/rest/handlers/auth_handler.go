package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"memoryvault/application/store"
	"memoryvault/domain/entities"
	"memoryvault/pkg/auth"
	"memoryvault/pkg/common"
	"memoryvault/pkg/utils"
)

// AuthHandler handles session-related HTTP requests
type AuthHandler struct {
	sessions *store.SessionStore
	memories *store.MemoryStore
	tokens   *auth.TokenManager
	logger   *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	sessions *store.SessionStore,
	memories *store.MemoryStore,
	tokens *auth.TokenManager,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		memories: memories,
		tokens:   tokens,
		logger:   logger,
	}
}

// SignInRequest represents the request body for signing in
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=creator admin"`
}

// RegisterRequest represents the request body for registering
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=creator admin"`
}

// AuthResponse carries the established identity and its session token
type AuthResponse struct {
	User  entities.User `json:"user"`
	Token string        `json:"token"`
}

// SignIn handles POST /auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	user, err := h.sessions.SignIn(r.Context(), req.Email, req.Password, entities.Role(req.Role))
	if err != nil {
		h.logger.Error("Sign-in failed", zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	h.respondAuthenticated(w, r, http.StatusOK, user)
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	user, err := h.sessions.Register(r.Context(), req.Name, req.Email, req.Password, entities.Role(req.Role))
	if err != nil {
		h.logger.Error("Registration failed", zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	h.respondAuthenticated(w, r, http.StatusCreated, user)
}

// respondAuthenticated mirrors the identity into the users collection,
// signs a session token, and writes the auth response.
func (h *AuthHandler) respondAuthenticated(w http.ResponseWriter, r *http.Request, status int, user entities.User) {
	if err := h.memories.EnsureUser(r.Context(), user); err != nil {
		h.logger.Error("Failed to mirror session identity", zap.String("userID", user.ID), zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		h.logger.Error("Failed to sign session token", zap.Error(err))
		common.RespondError(w, http.StatusInternalServerError, "INTERNAL", "failed to establish session")
		return
	}

	common.RespondJSON(w, status, AuthResponse{User: user, Token: token})
}

// SignOut handles POST /auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(r.Context()); err != nil {
		h.logger.Error("Sign-out failed", zap.Error(err))
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{
		"id":    user.UserID,
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
	})
}
