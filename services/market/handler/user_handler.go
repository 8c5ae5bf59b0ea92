package handler

import (
	"net/http"

	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/services/market/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service UserServiceInterface
}

func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// ListUsersHandler handles GET /users
func (h *UserHandler) ListUsersHandler(c *gin.Context) {
	actor := helpers.CurrentActor(c)
	users, err := h.service.List(c.Request.Context(), actor, repository.QueryFromValues(c.Request.URL.Query()))
	if err != nil {
		helpers.RespondError(c, "ListUsersHandler", err, nil)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	utils.JSONResponse(c, http.StatusOK, "users", users, "users retrieved successfully")
	helpers.LogSuccess("ListUsersHandler", "users retrieved successfully", map[string]any{
		"user_id": actor.UserID,
		"count":   len(users),
	})
}

// GetUserHandler handles GET /users/:id
func (h *UserHandler) GetUserHandler(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}

	user, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		helpers.RespondError(c, "GetUserHandler", err, map[string]any{"id": id})
		return
	}

	utils.JSONResponse(c, http.StatusOK, "user", user, "user retrieved successfully")
}

// UpdateUserHandler handles PUT /users/:id (username and email only)
func (h *UserHandler) UpdateUserHandler(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}
	fields, ok := helpers.BindFields(c, "UpdateUserHandler")
	if !ok {
		return
	}

	actor := helpers.CurrentActor(c)
	user, err := h.service.Update(c.Request.Context(), actor, id, fields)
	if err != nil {
		helpers.RespondError(c, "UpdateUserHandler", err, map[string]any{"id": id})
		return
	}

	utils.JSONResponse(c, http.StatusOK, "user", user, "user updated successfully")
	helpers.LogSuccess("UpdateUserHandler", "user updated successfully", map[string]any{
		"user_id": actor.UserID,
		"id":      id,
	})
}

// SetActiveHandler returns the handler for PUT /users/:id/activate and /users/:id/deactivate
func (h *UserHandler) SetActiveHandler(active bool) gin.HandlerFunc {
	message := "user deactivated successfully"
	if active {
		message = "user activated successfully"
	}

	return func(c *gin.Context) {
		id, ok := helpers.ParseID(c, "id")
		if !ok {
			return
		}

		actor := helpers.CurrentActor(c)
		user, err := h.service.SetActive(c.Request.Context(), actor, id, active)
		if err != nil {
			helpers.RespondError(c, "SetActiveHandler", err, map[string]any{"id": id, "active": active})
			return
		}

		utils.JSONResponse(c, http.StatusOK, "user", user, message)
		helpers.LogSuccess("SetActiveHandler", message, map[string]any{
			"user_id": actor.UserID,
			"id":      id,
		})
	}
}

// SetRoleHandler handles PUT /users/:id/role
func (h *UserHandler) SetRoleHandler(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}
	var req helpers.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SetRoleHandler", err)
		return
	}

	actor := helpers.CurrentActor(c)
	user, err := h.service.SetRole(c.Request.Context(), actor, id, req.Role)
	if err != nil {
		helpers.RespondError(c, "SetRoleHandler", err, map[string]any{"id": id, "role": req.Role})
		return
	}

	utils.JSONResponse(c, http.StatusOK, "user", user, "role updated successfully")
	helpers.LogSuccess("SetRoleHandler", "role updated successfully", map[string]any{
		"user_id": actor.UserID,
		"id":      id,
		"role":    user.Role,
	})
}

// DeleteUserHandler handles DELETE /users/:id
func (h *UserHandler) DeleteUserHandler(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}

	actor := helpers.CurrentActor(c)
	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		helpers.RespondError(c, "DeleteUserHandler", err, map[string]any{"id": id})
		return
	}

	utils.JSONResponse(c, http.StatusOK, "", nil, "user deleted successfully")
	helpers.LogSuccess("DeleteUserHandler", "user deleted successfully", map[string]any{
		"user_id": actor.UserID,
		"id":      id,
	})
}

// ProfileHandler handles GET /users/:id/profile
func (h *UserHandler) ProfileHandler(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}

	profile, err := h.service.Profile(c.Request.Context(), id)
	if err != nil {
		helpers.RespondError(c, "ProfileHandler", err, map[string]any{"id": id})
		return
	}

	utils.JSONResponse(c, http.StatusOK, "profile", profile, "profile retrieved successfully")
}
