package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/velocore/backend/internal/application/identity"
	"github.com/velocore/backend/internal/domain/identity"
	"github.com/velocore/backend/internal/interfaces/http/dto"
	"github.com/velocore/backend/internal/interfaces/http/middleware"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes registers user routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.RequireResource(identity.ResourceUser))
	{
		users.POST("", h.Register)
		users.GET("", h.List)
		users.GET("/:id", h.Get)
		users.PUT("/:id", h.Update)
		users.DELETE("/:id", h.Delete)
		users.POST("/:id/activate", h.Activate)
		users.POST("/:id/deactivate", h.Deactivate)
		users.POST("/:id/unlock", h.Unlock)
		users.POST("/:id/reset-password", h.ResetPassword)
		users.POST("/:id/roles", h.AssignRole)
		users.DELETE("/:id/roles/:roleID", h.RemoveRole)
	}
}

// RegisterUserRequest represents a request to create a user
type RegisterUserRequest struct {
	Username    string   `json:"username" binding:"required,min=3,max=100"`
	Password    string   `json:"password" binding:"required,min=8,max=200"`
	Email       string   `json:"email" binding:"omitempty,email,max=200"`
	DisplayName string   `json:"display_name" binding:"max=200"`
	RoleIDs     []string `json:"role_ids" binding:"omitempty,dive,uuid"`
	Active      bool     `json:"active"`
}

// Register creates a new user account
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	roleIDs := make([]uuid.UUID, 0, len(req.RoleIDs))
	for _, raw := range req.RoleIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid role ID format")
			return
		}
		roleIDs = append(roleIDs, id)
	}

	user, err := h.userService.Register(c.Request.Context(), identityapp.RegisterUserCommand{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		RoleIDs:     roleIDs,
		Active:      req.Active,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// UserListRequest represents user list query parameters
type UserListRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=PENDING ACTIVE LOCKED DEACTIVATED"`
}

// List returns users matching the filter
func (h *UserHandler) List(c *gin.Context) {
	var req UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := identity.UserFilter{Filter: listFilter(req.ListRequest)}
	if req.Status != "" {
		status := identity.UserStatus(req.Status)
		filter.Status = &status
	}

	result, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// Get returns a user by ID
func (h *UserHandler) Get(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	user, err := h.userService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// UpdateUserRequest represents a request to update user profile fields
type UpdateUserRequest struct {
	Email       *string `json:"email" binding:"omitempty,email,max=200"`
	DisplayName *string `json:"display_name" binding:"omitempty,max=200"`
}

// Update updates user profile fields
func (h *UserHandler) Update(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Update(c.Request.Context(), userID, identityapp.UpdateUserCommand{
		Email:       req.Email,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Delete removes a user account
func (h *UserHandler) Delete(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	if err := h.userService.Delete(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate activates a user account
func (h *UserHandler) Activate(c *gin.Context) {
	h.transition(c, h.userService.Activate)
}

// Deactivate deactivates a user account
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.userService.Deactivate)
}

// Unlock clears a user's login lockout
func (h *UserHandler) Unlock(c *gin.Context) {
	h.transition(c, h.userService.Unlock)
}

// ResetPasswordRequest represents an administrative password reset
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=200"`
}

// ResetPassword sets a new password for a user without the old one
func (h *UserHandler) ResetPassword(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.ResetPassword(c.Request.Context(), userID, req.NewPassword)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// AssignRoleRequest represents a role assignment
type AssignRoleRequest struct {
	RoleID string `json:"role_id" binding:"required,uuid"`
}

// AssignRole grants a role to a user
func (h *UserHandler) AssignRole(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	roleID, err := uuid.Parse(req.RoleID)
	if err != nil {
		h.BadRequest(c, "Invalid role ID format")
		return
	}

	user, err := h.userService.AssignRole(c.Request.Context(), userID, roleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// RemoveRole revokes a role from a user
func (h *UserHandler) RemoveRole(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}
	roleID, err := uuid.Parse(c.Param("roleID"))
	if err != nil {
		h.BadRequest(c, "Invalid role ID format")
		return
	}

	user, err := h.userService.RemoveRole(c.Request.Context(), userID, roleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// transition runs a single-ID state change and writes the updated user
func (h *UserHandler) transition(
	c *gin.Context,
	op func(ctx context.Context, id uuid.UUID) (*identity.User, error),
) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	user, err := op(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}
