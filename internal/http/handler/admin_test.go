package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salon-service/internal/auth"
	"salon-service/internal/authz"
	"salon-service/internal/domain/user"
)

func adminContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, role authz.Role) echo.Context {
	c := e.NewContext(req, rec)
	c.Set(auth.ContextKeyToken, authz.Token{
		Authenticated: true,
		Role:          role,
		EmailVerified: true,
		UserID:        uuid.NewString(),
	})
	return c
}

func TestAdminListUsers(t *testing.T) {
	users := newFakeUserRepo()
	users.add(&user.User{Email: "a@example.com", Name: "A", EmailVerified: true})
	users.add(&user.User{Email: "b@example.com", Name: "B", Role: authz.RoleStaff})
	h := NewAdminHandler(users, nil)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	rec := httptest.NewRecorder()
	c := adminContext(e, req, rec, authz.RoleAdmin)

	require.NoError(t, h.ListUsers(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []AdminUserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestAdminUpdateRole(t *testing.T) {
	users := newFakeUserRepo()
	target := users.add(&user.User{Email: "staffer@example.com", Name: "Staffer"})
	h := NewAdminHandler(users, nil)
	e := echo.New()

	req, rec := jsonRequest(http.MethodPut, "/api/admin/users/"+target.ID.String()+"/role", `{"role":"staff"}`)
	c := adminContext(e, req, rec, authz.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues(target.ID.String())

	require.NoError(t, h.UpdateRole(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	updated, err := users.GetByID(nil, target.ID)
	require.NoError(t, err)
	assert.Equal(t, authz.RoleStaff, updated.Role)
}

func TestAdminUpdateRoleRejectsUnknownRole(t *testing.T) {
	users := newFakeUserRepo()
	target := users.add(&user.User{Email: "staffer@example.com", Name: "Staffer"})
	h := NewAdminHandler(users, nil)
	e := echo.New()

	req, rec := jsonRequest(http.MethodPut, "/api/admin/users/"+target.ID.String()+"/role", `{"role":"superadmin"}`)
	c := adminContext(e, req, rec, authz.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues(target.ID.String())

	require.NoError(t, h.UpdateRole(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	unchanged, err := users.GetByID(nil, target.ID)
	require.NoError(t, err)
	assert.Equal(t, authz.RoleUser, unchanged.Role)
}

func TestAdminUpdateRoleBadUserID(t *testing.T) {
	h := NewAdminHandler(newFakeUserRepo(), nil)
	e := echo.New()

	req, rec := jsonRequest(http.MethodPut, "/api/admin/users/not-a-uuid/role", `{"role":"staff"}`)
	c := adminContext(e, req, rec, authz.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	require.NoError(t, h.UpdateRole(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// The in-handler check holds even when the tier middleware is absent.
func TestAdminUpdateRoleGuardedAgainstLowerRoles(t *testing.T) {
	users := newFakeUserRepo()
	target := users.add(&user.User{Email: "staffer@example.com", Name: "Staffer"})
	h := NewAdminHandler(users, nil)
	e := echo.New()

	for _, role := range []authz.Role{authz.RoleUser, authz.RoleStaff, authz.RoleOwner} {
		req, rec := jsonRequest(http.MethodPut, "/api/admin/users/"+target.ID.String()+"/role", `{"role":"admin"}`)
		c := adminContext(e, req, rec, role)
		c.SetParamNames("id")
		c.SetParamValues(target.ID.String())

		err := h.UpdateRole(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr, "role %s must be denied", role)
		assert.Equal(t, http.StatusForbidden, httpErr.Code)

		unchanged, getErr := users.GetByID(nil, target.ID)
		require.NoError(t, getErr)
		assert.Equal(t, authz.RoleUser, unchanged.Role)
	}
}
