package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/identitysvc/domain"
)

// RoleHandlers handles role administration HTTP requests.
type RoleHandlers struct {
	roleSvc domain.RoleService
	authSvc domain.AuthService
}

// NewRoleHandlers creates new role handlers.
func NewRoleHandlers(roleSvc domain.RoleService, authSvc domain.AuthService) *RoleHandlers {
	return &RoleHandlers{roleSvc: roleSvc, authSvc: authSvc}
}

// CreateRoleRequest represents a role creation request.
type CreateRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// AddPermissionRequest represents a permission grant request.
type AddPermissionRequest struct {
	Name        string `json:"name" binding:"required"`
	Resource    string `json:"resource" binding:"required"`
	Action      string `json:"action" binding:"required"`
	Description string `json:"description"`
}

// AssignRoleRequest represents a user-role assignment request.
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// List returns all roles.
func (h *RoleHandlers) List(c *gin.Context) {
	roles, err := h.roleSvc.ListRoles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list roles"})
		return
	}

	payload := make([]gin.H, 0, len(roles))
	for _, role := range roles {
		payload = append(payload, rolePayload(role))
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"roles": payload}})
}

// Create creates a new custom role.
func (h *RoleHandlers) Create(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := h.roleSvc.CreateRole(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoleAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Role already exists"})
		case domain.IsValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create role"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"role": rolePayload(role)}})
}

// Delete removes a role by name.
func (h *RoleHandlers) Delete(c *gin.Context) {
	name := c.Param("name")
	if err := h.roleSvc.DeleteRole(c.Request.Context(), name); err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Role deleted"}})
}

// AddPermission grants a permission to a role.
func (h *RoleHandlers) AddPermission(c *gin.Context) {
	var req AddPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := h.roleSvc.AddPermission(c.Request.Context(), c.Param("name"), req.Name, req.Resource, req.Action, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoleNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		case domain.IsValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add permission"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"role": rolePayload(role)}})
}

// RemovePermission revokes a permission from a role.
func (h *RoleHandlers) RemovePermission(c *gin.Context) {
	role, err := h.roleSvc.RemovePermission(c.Request.Context(), c.Param("name"), c.Param("permission"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoleNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		case errors.Is(err, domain.ErrPermissionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Permission not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove permission"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"role": rolePayload(role)}})
}

// AssignToUser attaches a role to a user.
func (h *RoleHandlers) AssignToUser(c *gin.Context) {
	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := domain.UserID(c.Param("id"))
	if err := h.authSvc.AssignRole(c.Request.Context(), userID, req.Role); err != nil {
		h.writeAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Role assigned"}})
}

// RevokeFromUser detaches a role from a user.
func (h *RoleHandlers) RevokeFromUser(c *gin.Context) {
	userID := domain.UserID(c.Param("id"))
	if err := h.authSvc.RevokeRole(c.Request.Context(), userID, c.Param("name")); err != nil {
		h.writeAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Role revoked"}})
}

func (h *RoleHandlers) writeAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, domain.ErrRoleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Role assignment failed"})
	}
}

func rolePayload(role *domain.Role) gin.H {
	perms := make([]gin.H, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		perms = append(perms, gin.H{
			"id":       p.ID,
			"name":     p.Name,
			"resource": p.Resource,
			"action":   p.Action,
		})
	}
	return gin.H{
		"id":          role.ID,
		"name":        role.Name,
		"description": role.Description,
		"kind":        string(role.Kind),
		"permissions": perms,
	}
}
