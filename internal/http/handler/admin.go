package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"salon-service/internal/audit"
	"salon-service/internal/auth"
	"salon-service/internal/authz"
	"salon-service/internal/domain/user"
	"salon-service/internal/repository"
	apperrors "salon-service/pkg/errors"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// AdminHandler serves user administration. Route-level middleware has
// already required the admin tier before these run.
type AdminHandler struct {
	userRepo repository.UserRepository
	audits   AuditLogger
}

func NewAdminHandler(userRepo repository.UserRepository, audits AuditLogger) *AdminHandler {
	return &AdminHandler{userRepo: userRepo, audits: audits}
}

type AdminUserResponse struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
	CreatedAt     string `json:"created_at"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

func adminUserResponse(u *user.User) AdminUserResponse {
	return AdminUserResponse{
		UserID:        u.ID.String(),
		Email:         u.Email,
		Name:          u.Name,
		Role:          string(u.Role),
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	limit := queryInt(c, "limit", defaultListLimit)
	if limit < 1 || limit > maxListLimit {
		limit = defaultListLimit
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	users, err := h.userRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	resp := make([]AdminUserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, adminUserResponse(u))
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) UpdateRole(c echo.Context) error {
	// Role changes stay admin-only even if the route table is rewired.
	if err := auth.Guard(c, authz.Requirement{
		RequireAuth:         true,
		RequireVerification: true,
		RequiredRole:        authz.RoleAdmin,
	}); err != nil {
		return err
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondWithMappedError(c, apperrors.BadRequest(msgInvalidUserID))
	}

	var req UpdateRoleRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	role := authz.Role(req.Role)
	if !authz.IsValidRole(role) {
		return respondError(c, http.StatusBadRequest, msgInvalidRole)
	}

	if err := h.userRepo.UpdateRole(c.Request().Context(), userID, role); err != nil {
		return RespondWithMappedError(c, err)
	}

	auditEvent(h.audits, c, audit.ResourceTypeUser, &userID, audit.ActionUpdateRole, audit.StatusSuccess, map[string]any{
		"role": string(role),
	})
	return respondMessage(c, http.StatusOK, "role updated")
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
