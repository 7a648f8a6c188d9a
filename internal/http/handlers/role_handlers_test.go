package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/identitysvc/domain"
	"github.com/you/identitysvc/internal/mocks"
)

func newRoleRouter(roleSvc domain.RoleService, authSvc domain.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewRoleHandlers(roleSvc, authSvc)
	r := gin.New()
	r.GET("/admin/roles", h.List)
	r.POST("/admin/roles", h.Create)
	r.DELETE("/admin/roles/:name", h.Delete)
	r.POST("/admin/roles/:name/permissions", h.AddPermission)
	r.DELETE("/admin/roles/:name/permissions/:permission", h.RemovePermission)
	r.POST("/admin/users/:id/roles", h.AssignToUser)
	r.DELETE("/admin/users/:id/roles/:name", h.RevokeFromUser)
	return r
}

func TestRoleHandlers_Create(t *testing.T) {
	t.Run("creates a role", func(t *testing.T) {
		r := newRoleRouter(&mocks.MockRoleService{}, &mocks.MockAuthService{})

		w := performJSON(t, r, http.MethodPost, "/admin/roles", CreateRoleRequest{Name: "editor", Description: "can edit"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"name":"editor"`)
	})

	t.Run("duplicate role", func(t *testing.T) {
		roleSvc := &mocks.MockRoleService{
			CreateRoleFunc: func(ctx context.Context, name, description string) (*domain.Role, error) {
				return nil, domain.ErrRoleAlreadyExists
			},
		}
		r := newRoleRouter(roleSvc, &mocks.MockAuthService{})

		w := performJSON(t, r, http.MethodPost, "/admin/roles", CreateRoleRequest{Name: "editor"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing name", func(t *testing.T) {
		r := newRoleRouter(&mocks.MockRoleService{}, &mocks.MockAuthService{})

		w := performJSON(t, r, http.MethodPost, "/admin/roles", map[string]string{"description": "no name"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRoleHandlers_List(t *testing.T) {
	role, err := domain.NewRole("editor", "can edit", domain.RoleKindCustom)
	require.NoError(t, err)
	roleSvc := &mocks.MockRoleService{
		ListRolesFunc: func(ctx context.Context) ([]*domain.Role, error) {
			return []*domain.Role{role}, nil
		},
	}
	r := newRoleRouter(roleSvc, &mocks.MockAuthService{})

	w := performJSON(t, r, http.MethodGet, "/admin/roles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), role.ID)
}

func TestRoleHandlers_Delete(t *testing.T) {
	t.Run("deletes a role", func(t *testing.T) {
		var deleted string
		roleSvc := &mocks.MockRoleService{
			DeleteRoleFunc: func(ctx context.Context, name string) error {
				deleted = name
				return nil
			},
		}
		r := newRoleRouter(roleSvc, &mocks.MockAuthService{})

		w := performJSON(t, r, http.MethodDelete, "/admin/roles/editor", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "editor", deleted)
	})

	t.Run("unknown role", func(t *testing.T) {
		roleSvc := &mocks.MockRoleService{
			DeleteRoleFunc: func(ctx context.Context, name string) error {
				return domain.ErrRoleNotFound
			},
		}
		r := newRoleRouter(roleSvc, &mocks.MockAuthService{})

		w := performJSON(t, r, http.MethodDelete, "/admin/roles/nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRoleHandlers_Permissions(t *testing.T) {
	t.Run("grants a permission", func(t *testing.T) {
		role, err := domain.NewRole("editor", "", domain.RoleKindCustom)
		require.NoError(t, err)
		roleSvc := &mocks.MockRoleService{
			AddPermissionFunc: func(ctx context.Context, roleName, permName, resource, action, description string) (*domain.Role, error) {
				perm, err := domain.NewPermission(permName, resource, action, description)
				require.NoError(t, err)
				role.AddPermission(perm)
				return role, nil
			},
		}
		r := newRoleRouter(roleSvc, &mocks.MockAuthService{})

		body := AddPermissionRequest{Name: "doc:write", Resource: "doc", Action: "write"}
		w := performJSON(t, r, http.MethodPost, "/admin/roles/editor/permissions", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "doc:write")
	})

	t.Run("revoke unknown permission", func(t *testing.T) {
		roleSvc := &mocks.MockRoleService{
			RemovePermissionFunc: func(ctx context.Context, roleName, permName string) (*domain.Role, error) {
				return nil, domain.ErrPermissionNotFound
			},
		}
		r := newRoleRouter(roleSvc, &mocks.MockAuthService{})

		w := performJSON(t, r, http.MethodDelete, "/admin/roles/editor/permissions/nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRoleHandlers_UserAssignment(t *testing.T) {
	t.Run("assigns a role to a user", func(t *testing.T) {
		var gotUser domain.UserID
		var gotRole string
		authSvc := &mocks.MockAuthService{
			AssignRoleFunc: func(ctx context.Context, userID domain.UserID, roleName string) error {
				gotUser, gotRole = userID, roleName
				return nil
			},
		}
		r := newRoleRouter(&mocks.MockRoleService{}, authSvc)

		w := performJSON(t, r, http.MethodPost, "/admin/users/user-1/roles", AssignRoleRequest{Role: "editor"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.UserID("user-1"), gotUser)
		assert.Equal(t, "editor", gotRole)
	})

	t.Run("unknown user", func(t *testing.T) {
		authSvc := &mocks.MockAuthService{
			AssignRoleFunc: func(ctx context.Context, userID domain.UserID, roleName string) error {
				return domain.ErrUserNotFound
			},
		}
		r := newRoleRouter(&mocks.MockRoleService{}, authSvc)

		w := performJSON(t, r, http.MethodPost, "/admin/users/nope/roles", AssignRoleRequest{Role: "editor"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("revokes a role from a user", func(t *testing.T) {
		var gotRole string
		authSvc := &mocks.MockAuthService{
			RevokeRoleFunc: func(ctx context.Context, userID domain.UserID, roleName string) error {
				gotRole = roleName
				return nil
			},
		}
		r := newRoleRouter(&mocks.MockRoleService{}, authSvc)

		w := performJSON(t, r, http.MethodDelete, "/admin/users/user-1/roles/editor", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "editor", gotRole)
	})
}
