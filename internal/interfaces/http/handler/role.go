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

// RoleHandler handles role management endpoints
type RoleHandler struct {
	BaseHandler
	roleService *identityapp.RoleService
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(roleService *identityapp.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// RegisterRoutes registers role routes
func (h *RoleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	roles := rg.Group("/roles")
	roles.Use(middleware.RequireResource(identity.ResourceRole))
	{
		roles.POST("", h.Create)
		roles.GET("", h.List)
		roles.GET("/:id", h.Get)
		roles.PUT("/:id", h.Update)
		roles.DELETE("/:id", h.Delete)
		roles.POST("/:id/enable", h.Enable)
		roles.POST("/:id/disable", h.Disable)
		roles.POST("/:id/permissions", h.GrantPermission)
		roles.DELETE("/:id/permissions/:code", h.RevokePermission)
	}

	// The permission table is static; reading it only needs role read access
	rg.GET("/permissions", middleware.RequireResourceAction(identity.ResourceRole, identity.ActionRead), h.ListPermissions)
}

// CreateRoleRequest represents a request to create a role
type CreateRoleRequest struct {
	Code        string   `json:"code" binding:"required,min=1,max=100"`
	Name        string   `json:"name" binding:"required,min=1,max=200"`
	Description string   `json:"description" binding:"max=500"`
	Permissions []string `json:"permissions"`
}

// Create creates a new role
func (h *RoleHandler) Create(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	role, err := h.roleService.Create(c.Request.Context(), identityapp.CreateRoleCommand{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, role)
}

// RoleListRequest represents role list query parameters
type RoleListRequest struct {
	dto.ListRequest
	EnabledOnly bool `form:"enabled_only"`
}

// List returns roles matching the filter
func (h *RoleHandler) List(c *gin.Context) {
	var req RoleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := identity.RoleFilter{
		Filter:      listFilter(req.ListRequest),
		EnabledOnly: req.EnabledOnly,
	}

	result, err := h.roleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// Get returns a role by ID
func (h *RoleHandler) Get(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid role ID format")
		return
	}

	role, err := h.roleService.Get(c.Request.Context(), roleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}

// UpdateRoleRequest represents a request to update a role
type UpdateRoleRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string  `json:"description" binding:"omitempty,max=500"`
	Permissions []string `json:"permissions"`
}

// Update updates a role. When permissions are provided the full set is
// replaced.
func (h *RoleHandler) Update(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid role ID format")
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	role, err := h.roleService.Update(c.Request.Context(), roleID, identityapp.UpdateRoleCommand{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}

// Delete removes a role
func (h *RoleHandler) Delete(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid role ID format")
		return
	}

	if err := h.roleService.Delete(c.Request.Context(), roleID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Enable enables a role
func (h *RoleHandler) Enable(c *gin.Context) {
	h.transition(c, h.roleService.Enable)
}

// Disable disables a role
func (h *RoleHandler) Disable(c *gin.Context) {
	h.transition(c, h.roleService.Disable)
}

// GrantPermissionRequest represents a permission grant
type GrantPermissionRequest struct {
	Code string `json:"code" binding:"required"`
}

// GrantPermission adds a permission to a role
func (h *RoleHandler) GrantPermission(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid role ID format")
		return
	}

	var req GrantPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	role, err := h.roleService.GrantPermission(c.Request.Context(), roleID, req.Code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}

// RevokePermission removes a permission from a role
func (h *RoleHandler) RevokePermission(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid role ID format")
		return
	}

	role, err := h.roleService.RevokePermission(c.Request.Context(), roleID, c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}

// ListPermissions returns the static permission table
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	h.Success(c, h.roleService.ListPermissions())
}

// transition runs a single-ID state change and writes the updated role
func (h *RoleHandler) transition(
	c *gin.Context,
	op func(ctx context.Context, id uuid.UUID) (*identity.Role, error),
) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid role ID format")
		return
	}

	role, err := op(c.Request.Context(), roleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}
