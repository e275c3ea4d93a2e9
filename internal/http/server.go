package http

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"salon-service/internal/auth"
	"salon-service/internal/authz"
	"salon-service/internal/billing"
	"salon-service/internal/config"
	"salon-service/internal/http/handler"
	"salon-service/internal/http/middleware"
	"salon-service/internal/repository"
	"salon-service/internal/repository/postgres"
)

const (
	jsonKeyStatus    = "status"
	statusOK         = "ok"
	requestBodyLimit = "1M"
)

type ServerDependencies struct {
	Config         *config.Config
	DB             *postgres.DB
	UserRepo       repository.UserRepository
	JWTService     *auth.JWTService
	OTPService     *auth.OTPService
	OAuth          *auth.GoogleOAuth
	BillingService *billing.Service
	Reconciler     *billing.Reconciler
	Policy         *authz.Policy
	AuthMiddleware *auth.Middleware
	CSRFMiddleware *middleware.CSRFMiddleware
	AuditLogger    handler.AuditLogger
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = CustomHTTPErrorHandler

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID middleware (first, so all logs have request ID)
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))

	globalRateLimiter := middleware.NewGlobalRateLimiter()
	e.Use(globalRateLimiter.Middleware())

	// Edge enforcement for page routes. The /api group is excluded and
	// carries its own JWT middleware chain below.
	routeGuard := middleware.NewRouteGuard(deps.AuthMiddleware, deps.Policy)
	e.Use(routeGuard.Middleware())

	// Strict rate limiting for auth and webhook endpoints
	strictRateLimiter := middleware.NewStrictRateLimiter()

	authHandler := handler.NewAuthHandler(
		deps.UserRepo,
		deps.DB,
		deps.JWTService,
		deps.OTPService,
		deps.OAuth,
		deps.CSRFMiddleware,
		deps.AuditLogger,
		deps.Config.JWT.ExpiryDuration,
	)
	subscriptionHandler := handler.NewSubscriptionHandler(deps.BillingService)
	adminHandler := handler.NewAdminHandler(deps.UserRepo, deps.AuditLogger)
	webhookHandler := handler.NewWebhookHandler(deps.Reconciler, deps.Config.Razorpay.WebhookSecret)

	e.POST("/auth/signup", authHandler.Signup, strictRateLimiter.Middleware())
	e.POST("/auth/login", authHandler.Login, strictRateLimiter.Middleware())
	e.POST("/auth/verify-email", authHandler.VerifyEmail, strictRateLimiter.Middleware())
	e.POST("/auth/resend-otp", authHandler.ResendOTP, strictRateLimiter.Middleware())
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/google", authHandler.GoogleBegin, strictRateLimiter.Middleware())
	e.GET("/auth/google/callback", authHandler.GoogleCallback, strictRateLimiter.Middleware())
	e.GET("/health", healthCheck)

	api := e.Group("/api")

	// Webhooks authenticate by signature, not session.
	api.POST("/webhooks/razorpay", webhookHandler.Razorpay, strictRateLimiter.Middleware())

	jwtAPI := api.Group("")
	jwtAPI.Use(deps.AuthMiddleware.RequireJWT())
	jwtAPI.Use(deps.CSRFMiddleware.Middleware())

	jwtAPI.GET("/me", authHandler.Me)

	verified := deps.AuthMiddleware.RequireTier(authz.TierVerified)
	jwtAPI.GET("/subscriptions", subscriptionHandler.Get, verified)
	jwtAPI.POST("/subscriptions", subscriptionHandler.Create, verified)
	jwtAPI.POST("/subscriptions/:id/change-plan", subscriptionHandler.ChangePlan, verified)
	jwtAPI.POST("/subscriptions/:id/pause", subscriptionHandler.Pause, verified)
	jwtAPI.POST("/subscriptions/:id/resume", subscriptionHandler.Resume, verified)
	jwtAPI.POST("/subscriptions/:id/cancel", subscriptionHandler.Cancel, verified)

	admin := deps.AuthMiddleware.RequireTier(authz.TierAdmin)
	jwtAPI.GET("/admin/users", adminHandler.ListUsers, admin)
	jwtAPI.PUT("/admin/users/:id/role", adminHandler.UpdateRole, admin)

	return &Server{echo: e, deps: deps}
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{jsonKeyStatus: statusOK})
}

// Start begins serving on the configured port. Blocks until the server
// stops.
func (s *Server) Start() error {
	return s.echo.Start(":" + s.deps.Config.Server.Port)
}

// Shutdown drains in-flight requests within the given timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout())
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

func (s *Server) shutdownTimeout() time.Duration {
	if t := s.deps.Config.Server.ShutdownTimeout; t > 0 {
		return t
	}
	return 10 * time.Second
}

// Echo exposes the underlying router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
