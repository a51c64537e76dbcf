// Package handlers contains the HTTP handlers. Request and response
// shapes mirror what the frontend already speaks: flat {"error": msg}
// failures and snake_case entity documents with RFC3339 timestamps.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ideavine-backend/application/services"
	"ideavine-backend/pkg/common"
	"ideavine-backend/pkg/utils"
)

const maxJSONBody = 1 << 20 // 1 MiB

// UserHandler serves the user endpoints.
type UserHandler struct {
	users  *services.UserService
	logger *zap.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type createUserRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
	Name  string `json:"name"`
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := common.ParseJSONBody(r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" {
		common.RespondError(w, http.StatusBadRequest, "Missing required field: email")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.Create(r.Context(), req.Email, req.Name)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User created successfully",
		"user":    user,
	})
}

type lookupUserRequest struct {
	Email string `json:"email"`
}

// Lookup handles POST /users/lookup.
func (h *UserHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req lookupUserRequest
	if err := common.ParseJSONBody(r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" {
		common.RespondError(w, http.StatusBadRequest, "Missing required field: email")
		return
	}

	user, err := h.users.Lookup(r.Context(), req.Email)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// Delete handles DELETE /users/{email}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	if err := h.users.Delete(r.Context(), email); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User deleted successfully",
	})
}
