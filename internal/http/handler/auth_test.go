package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"salon-service/internal/auth"
	"salon-service/internal/authz"
	"salon-service/internal/domain/otp"
	"salon-service/internal/domain/user"
	apperrors "salon-service/pkg/errors"
	"salon-service/pkg/password"
)

type fakeUserRepo struct {
	byEmail map[string]*user.User
	byID    map[uuid.UUID]*user.User
	roles   map[uuid.UUID]authz.Role
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: map[string]*user.User{},
		byID:    map[uuid.UUID]*user.User{},
		roles:   map[uuid.UUID]authz.Role{},
	}
}

func (r *fakeUserRepo) add(u *user.User) *user.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = authz.RoleUser
	}
	r.byEmail[u.Email] = u
	r.byID[u.ID] = u
	return u
}

func (r *fakeUserRepo) Create(_ context.Context, input user.CreateUserInput) (*user.User, error) {
	if _, exists := r.byEmail[input.Email]; exists {
		return nil, apperrors.Conflict("email already exists")
	}
	return r.add(&user.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: input.PasswordHash,
		Role:         authz.RoleUser,
	}), nil
}

func (r *fakeUserRepo) CreateOAuth(_ context.Context, input user.CreateOAuthUserInput) (*user.User, error) {
	googleID := input.GoogleID
	return r.add(&user.User{Email: input.Email, Name: input.Name, GoogleID: &googleID}), nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user not found")
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user not found")
}

func (r *fakeUserRepo) GetByGoogleID(_ context.Context, googleID string) (*user.User, error) {
	for _, u := range r.byID {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (r *fakeUserRepo) LinkGoogleID(_ context.Context, id uuid.UUID, googleID string) error {
	u, ok := r.byID[id]
	if !ok {
		return apperrors.NotFound("user not found")
	}
	u.GoogleID = &googleID
	return nil
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, id uuid.UUID) error {
	u, ok := r.byID[id]
	if !ok {
		return apperrors.NotFound("user not found")
	}
	u.EmailVerified = true
	return nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id uuid.UUID, role authz.Role) error {
	u, ok := r.byID[id]
	if !ok {
		return apperrors.NotFound("user not found")
	}
	u.Role = role
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]*user.User, error) {
	users := make([]*user.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, u)
	}
	return users, nil
}

type fakeOTPRepo struct {
	byUser map[uuid.UUID]*otp.OTP
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{byUser: map[uuid.UUID]*otp.OTP{}}
}

func (r *fakeOTPRepo) Create(_ context.Context, input otp.CreateOTPInput) (*otp.OTP, error) {
	row := &otp.OTP{
		ID:        uuid.New(),
		UserID:    input.UserID,
		CodeHash:  input.CodeHash,
		ExpiresAt: input.ExpiresAt,
		CreatedAt: time.Now(),
	}
	r.byUser[input.UserID] = row
	return row, nil
}

func (r *fakeOTPRepo) GetLatest(_ context.Context, userID uuid.UUID) (*otp.OTP, error) {
	if row, ok := r.byUser[userID]; ok {
		return row, nil
	}
	return nil, apperrors.NotFound("code not found")
}

func (r *fakeOTPRepo) IncrementAttempts(_ context.Context, id uuid.UUID) error {
	for _, row := range r.byUser {
		if row.ID == id {
			row.Attempts++
			return nil
		}
	}
	return apperrors.NotFound("code not found")
}

func (r *fakeOTPRepo) MarkUsed(_ context.Context, id uuid.UUID) error {
	for _, row := range r.byUser {
		if row.ID == id {
			now := time.Now()
			row.UsedAt = &now
			return nil
		}
	}
	return apperrors.NotFound("code not found")
}

func (r *fakeOTPRepo) InvalidateForUser(_ context.Context, userID uuid.UUID) error {
	if row, ok := r.byUser[userID]; ok {
		row.ExpiresAt = time.Now()
	}
	return nil
}

type fakeSender struct {
	codes []string
	to    []string
}

func (s *fakeSender) SendVerificationCode(to, name, code string, expiry time.Duration) error {
	s.to = append(s.to, to)
	s.codes = append(s.codes, code)
	return nil
}

type fakeSignupDB struct {
	users *fakeUserRepo
	otps  *fakeOTPRepo
}

func (db *fakeSignupDB) SignupTransaction(ctx context.Context, email, name, passwordHash, codeHash string, codeExpiresAt time.Time) (*user.User, *otp.OTP, error) {
	if _, exists := db.users.byEmail[email]; exists {
		return nil, nil, &apperrors.AppError{Code: "EMAIL_EXISTS", Message: "email already exists", Err: apperrors.ErrEmailExists}
	}
	u := db.users.add(&user.User{Email: email, Name: name, PasswordHash: passwordHash})
	row, err := db.otps.Create(ctx, otp.CreateOTPInput{UserID: u.ID, CodeHash: codeHash, ExpiresAt: codeExpiresAt})
	if err != nil {
		return nil, nil, err
	}
	return u, row, nil
}

type authFixture struct {
	handler *AuthHandler
	users   *fakeUserRepo
	otps    *fakeOTPRepo
	sender  *fakeSender
	jwt     *auth.JWTService
}

func newAuthFixture() *authFixture {
	users := newFakeUserRepo()
	otps := newFakeOTPRepo()
	sender := &fakeSender{}
	jwtService := auth.NewJWTService("test-secret-0123456789abcdefghijklmn", time.Hour)
	otpService := auth.NewOTPService(otps, users, sender, 10*time.Minute, 3)
	db := &fakeSignupDB{users: users, otps: otps}

	return &authFixture{
		handler: NewAuthHandler(users, db, jwtService, otpService, nil, nil, nil, time.Hour),
		users:   users,
		otps:    otps,
		sender:  sender,
		jwt:     jwtService,
	}
}

func jsonRequest(method, target, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, contentTypeJSON)
	return req, httptest.NewRecorder()
}

func TestSignup(t *testing.T) {
	fx := newAuthFixture()
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/auth/signup",
		`{"email":"priya@example.com","name":"Priya","password":"correct horse"}`)
	c := e.NewContext(req, rec)

	assert.NoError(t, fx.handler.Signup(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp SignupResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "priya@example.com", resp.Email)

	// The verification code went out to the new address.
	assert.Equal(t, []string{"priya@example.com"}, fx.sender.to)
	assert.Len(t, fx.sender.codes[0], 6)

	u := fx.users.byEmail["priya@example.com"]
	assert.False(t, u.EmailVerified)
	assert.NotEqual(t, "correct horse", u.PasswordHash)
}

func TestSignupDuplicateEmail(t *testing.T) {
	fx := newAuthFixture()
	fx.users.add(&user.User{Email: "priya@example.com"})
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/auth/signup",
		`{"email":"priya@example.com","name":"Priya","password":"correct horse"}`)
	c := e.NewContext(req, rec)

	assert.NoError(t, fx.handler.Signup(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSignupValidation(t *testing.T) {
	fx := newAuthFixture()
	e := echo.New()

	tests := []struct {
		name string
		body string
	}{
		{"bad email", `{"email":"nope","name":"Priya","password":"correct horse"}`},
		{"short password", `{"email":"priya@example.com","name":"Priya","password":"short"}`},
		{"empty name", `{"email":"priya@example.com","name":"","password":"correct horse"}`},
		{"unknown field", `{"email":"priya@example.com","name":"Priya","password":"correct horse","admin":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := jsonRequest(http.MethodPost, "/auth/signup", tt.body)
			c := e.NewContext(req, rec)
			assert.NoError(t, fx.handler.Signup(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	fx := newAuthFixture()
	hash, err := password.Hash("correct horse")
	assert.NoError(t, err)
	fx.users.add(&user.User{Email: "priya@example.com", PasswordHash: hash, EmailVerified: true})
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/auth/login",
		`{"email":"priya@example.com","password":"correct horse"}`)
	c := e.NewContext(req, rec)

	assert.NoError(t, fx.handler.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	claims, err := fx.jwt.Verify(resp.Token)
	assert.NoError(t, err)
	assert.Equal(t, "priya@example.com", claims.Email)
	assert.True(t, claims.EmailVerified)

	// Session cookie travels alongside the JSON token.
	cookies := rec.Result().Cookies()
	assert.NotEmpty(t, cookies)
	assert.Equal(t, "session", cookies[0].Name)
}

func TestLoginFailures(t *testing.T) {
	fx := newAuthFixture()
	hash, err := password.Hash("correct horse")
	assert.NoError(t, err)
	fx.users.add(&user.User{Email: "priya@example.com", PasswordHash: hash})
	e := echo.New()

	tests := []struct {
		name string
		body string
	}{
		{"wrong password", `{"email":"priya@example.com","password":"wrong horse"}`},
		{"unknown email", `{"email":"ghost@example.com","password":"correct horse"}`},
		{"empty password", `{"email":"priya@example.com","password":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := jsonRequest(http.MethodPost, "/auth/login", tt.body)
			c := e.NewContext(req, rec)
			assert.NoError(t, fx.handler.Login(c))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), msgInvalidCredentials)
		})
	}
}

func TestVerifyEmail(t *testing.T) {
	fx := newAuthFixture()
	u := fx.users.add(&user.User{Email: "priya@example.com"})
	fx.otps.byUser[u.ID] = &otp.OTP{
		ID:        uuid.New(),
		UserID:    u.ID,
		CodeHash:  auth.HashCode("482913"),
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/auth/verify-email",
		`{"email":"priya@example.com","code":"482913"}`)
	c := e.NewContext(req, rec)

	assert.NoError(t, fx.handler.VerifyEmail(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, fx.users.byID[u.ID].EmailVerified)

	// The fresh session reflects verified status without a re-login.
	var resp LoginResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	claims, err := fx.jwt.Verify(resp.Token)
	assert.NoError(t, err)
	assert.True(t, claims.EmailVerified)
}

func TestVerifyEmailWrongCode(t *testing.T) {
	fx := newAuthFixture()
	u := fx.users.add(&user.User{Email: "priya@example.com"})
	fx.otps.byUser[u.ID] = &otp.OTP{
		ID:        uuid.New(),
		UserID:    u.ID,
		CodeHash:  auth.HashCode("482913"),
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/auth/verify-email",
		`{"email":"priya@example.com","code":"000000"}`)
	c := e.NewContext(req, rec)

	assert.NoError(t, fx.handler.VerifyEmail(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, fx.users.byID[u.ID].EmailVerified)
	assert.Equal(t, 1, fx.otps.byUser[u.ID].Attempts)
}

func TestVerifyEmailUnknownAccountIndistinguishable(t *testing.T) {
	fx := newAuthFixture()
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/auth/verify-email",
		`{"email":"ghost@example.com","code":"482913"}`)
	c := e.NewContext(req, rec)

	assert.NoError(t, fx.handler.VerifyEmail(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResendOTP(t *testing.T) {
	fx := newAuthFixture()
	fx.users.add(&user.User{Email: "priya@example.com"})
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/auth/resend-otp", `{"email":"priya@example.com"}`)
	c := e.NewContext(req, rec)

	assert.NoError(t, fx.handler.ResendOTP(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, fx.sender.codes, 1)
}

func TestResendOTPUniformForUnknownAndVerified(t *testing.T) {
	fx := newAuthFixture()
	fx.users.add(&user.User{Email: "done@example.com", EmailVerified: true})
	e := echo.New()

	for _, email := range []string{"ghost@example.com", "done@example.com"} {
		req, rec := jsonRequest(http.MethodPost, "/auth/resend-otp", `{"email":"`+email+`"}`)
		c := e.NewContext(req, rec)
		assert.NoError(t, fx.handler.ResendOTP(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	// No email went out for either address.
	assert.Empty(t, fx.sender.codes)
}

func TestGoogleBeginNotConfigured(t *testing.T) {
	fx := newAuthFixture()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, fx.handler.GoogleBegin(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMe(t *testing.T) {
	fx := newAuthFixture()
	u := fx.users.add(&user.User{Email: "priya@example.com", Name: "Priya", EmailVerified: true})
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(auth.ContextKeyUserID, u.ID)

	assert.NoError(t, fx.handler.Me(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp MeResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, u.ID.String(), resp.UserID)
	assert.Equal(t, "user", resp.Role)
}
