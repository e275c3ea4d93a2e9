package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"salon-service/internal/audit"
	"salon-service/internal/auth"
	"salon-service/internal/authz"
	"salon-service/internal/domain/otp"
	"salon-service/internal/domain/user"
	"salon-service/internal/repository"
	apperrors "salon-service/pkg/errors"
	"salon-service/pkg/logger"
	"salon-service/pkg/password"
	"salon-service/pkg/validator"
)

type csrfTokenManager interface {
	GetOrCreateToken(userID uuid.UUID) (string, error)
}

type AuthHandler struct {
	userRepo repository.UserRepository
	db       interface {
		SignupTransaction(ctx context.Context, email, name, passwordHash, codeHash string, codeExpiresAt time.Time) (*user.User, *otp.OTP, error)
	}
	jwtService *auth.JWTService
	otpService *auth.OTPService
	oauth      *auth.GoogleOAuth
	csrf       csrfTokenManager
	audits     AuditLogger
	sessionTTL time.Duration
}

func NewAuthHandler(userRepo repository.UserRepository, db interface {
	SignupTransaction(ctx context.Context, email, name, passwordHash, codeHash string, codeExpiresAt time.Time) (*user.User, *otp.OTP, error)
}, jwtService *auth.JWTService, otpService *auth.OTPService, oauth *auth.GoogleOAuth, csrf csrfTokenManager, audits AuditLogger, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		userRepo:   userRepo,
		db:         db,
		jwtService: jwtService,
		otpService: otpService,
		oauth:      oauth,
		csrf:       csrf,
		audits:     audits,
		sessionTTL: sessionTTL,
	}
}

type SignupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type SignupResponse struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	CSRFToken string `json:"csrf_token,omitempty"`
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type ResendOTPRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if err := validator.Email(req.Email); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.DisplayName(req.Name); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.Password(req.Password); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	passwordHash, err := password.Hash(req.Password)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgPasswordProcessFail)
	}

	code, codeHash, codeExpiresAt, err := h.otpService.NewCode()
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgCreateAccountFail)
	}

	ctx := c.Request().Context()
	u, _, err := h.db.SignupTransaction(ctx, req.Email, req.Name, passwordHash, codeHash, codeExpiresAt)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailExists) {
			return respondError(c, http.StatusConflict, msgEmailAlreadyExists)
		}
		return respondError(c, http.StatusInternalServerError, msgCreateAccountFail)
	}

	// The account exists either way; a lost email is recoverable via resend.
	if err := h.otpService.Deliver(u.Email, u.Name, code); err != nil {
		c.Logger().Errorf("failed to deliver verification code for user %s: %v", u.ID, err)
	}

	auditEvent(h.audits, c, audit.ResourceTypeUser, &u.ID, audit.ActionCreate, audit.StatusSuccess, map[string]any{
		"email": logger.MaskEmail(u.Email),
	})

	return c.JSON(http.StatusCreated, SignupResponse{
		UserID:  u.ID.String(),
		Email:   u.Email,
		Message: msgSignupOK,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		password.Burn("")
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	u, err := h.userRepo.GetByEmail(c.Request().Context(), req.Email)
	if err != nil {
		// Burn a bcrypt comparison so "no such account" takes as long
		// as "wrong password" and does not leak email existence.
		password.Burn(req.Password)
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	if !u.HasPassword() {
		// Google-only accounts have no password to check.
		password.Burn(req.Password)
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		auditEvent(h.audits, c, audit.ResourceTypeSession, &u.ID, audit.ActionLogin, audit.StatusFailure, nil)
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	auditEvent(h.audits, c, audit.ResourceTypeSession, &u.ID, audit.ActionLogin, audit.StatusSuccess, nil)
	return h.issueSession(c, u, http.StatusOK)
}

func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req VerifyEmailRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validator.Email(req.Email); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.OTPCode(req.Code); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	u, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same response as a wrong code so account existence stays hidden.
		auth.VerifyCodeHash(req.Code, "")
		return RespondWithMappedError(c, apperrors.OTPInvalid("invalid verification code"))
	}

	if err := h.otpService.Verify(ctx, u.ID, req.Code); err != nil {
		auditEvent(h.audits, c, audit.ResourceTypeVerification, &u.ID, audit.ActionVerify, audit.StatusFailure, nil)
		return RespondWithMappedError(c, err)
	}

	auditEvent(h.audits, c, audit.ResourceTypeVerification, &u.ID, audit.ActionVerify, audit.StatusSuccess, nil)
	u.EmailVerified = true
	return h.issueSession(c, u, http.StatusOK)
}

func (h *AuthHandler) ResendOTP(c echo.Context) error {
	var req ResendOTPRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validator.Email(req.Email); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	u, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err == nil && !u.EmailVerified {
		if err := h.otpService.Issue(ctx, u.ID); err != nil {
			c.Logger().Errorf("failed to issue verification code for user %s: %v", u.ID, err)
		}
	}

	// Uniform response regardless of whether the account exists.
	return respondMessage(c, http.StatusOK, msgVerificationResent)
}

func (h *AuthHandler) GoogleBegin(c echo.Context) error {
	if h.oauth == nil {
		return respondError(c, http.StatusNotFound, msgOAuthNotConfigured)
	}

	authURL, state, err := h.oauth.Begin()
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgOAuthBeginFail)
	}

	c.SetCookie(auth.StateCookie(state))
	return c.Redirect(http.StatusFound, authURL)
}

func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	if h.oauth == nil {
		return respondError(c, http.StatusNotFound, msgOAuthNotConfigured)
	}

	gotState := c.QueryParam("state")
	wantState := auth.ReadStateCookie(c)
	code := c.QueryParam("code")
	c.SetCookie(auth.ClearStateCookie())

	u, err := h.oauth.Callback(c.Request().Context(), gotState, wantState, code)
	if err != nil {
		c.Logger().Errorf("google callback failed: %v", err)
		return respondError(c, http.StatusUnauthorized, msgOAuthCallbackFail)
	}

	token, err := h.jwtService.Generate(u.ID, u.Email, u.Role, u.EmailVerified)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgGenerateTokenFail)
	}

	auditEvent(h.audits, c, audit.ResourceTypeSession, &u.ID, audit.ActionLogin, audit.StatusSuccess, map[string]any{
		"provider": "google",
	})
	c.SetCookie(auth.SessionCookie(token, h.sessionTTL))
	return c.Redirect(http.StatusFound, authz.DashboardPath)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	auditEvent(h.audits, c, audit.ResourceTypeSession, nil, audit.ActionLogout, audit.StatusSuccess, nil)
	c.SetCookie(auth.ClearSessionCookie())
	return respondMessage(c, http.StatusOK, msgLoggedOut)
}

type MeResponse struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
}

func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	u, err := h.userRepo.GetByID(c.Request().Context(), userID)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusOK, MeResponse{
		UserID:        u.ID.String(),
		Email:         u.Email,
		Name:          u.Name,
		Role:          string(u.Role),
		EmailVerified: u.EmailVerified,
	})
}

func (h *AuthHandler) issueSession(c echo.Context, u *user.User, status int) error {
	token, err := h.jwtService.Generate(u.ID, u.Email, u.Role, u.EmailVerified)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgGenerateTokenFail)
	}

	resp := LoginResponse{Token: token}
	if h.csrf != nil {
		if csrfToken, err := h.csrf.GetOrCreateToken(u.ID); err == nil {
			resp.CSRFToken = csrfToken
		}
	}

	c.SetCookie(auth.SessionCookie(token, h.sessionTTL))
	return c.JSON(status, resp)
}
