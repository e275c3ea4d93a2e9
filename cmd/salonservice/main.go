package main

import (
	"context"
	"errors"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"salon-service/internal/audit"
	"salon-service/internal/auth"
	"salon-service/internal/authz"
	"salon-service/internal/billing"
	"salon-service/internal/config"
	"salon-service/internal/http"
	"salon-service/internal/http/middleware"
	"salon-service/internal/repository/postgres"
	"salon-service/pkg/mailer"
)

const (
	envFilePath      = ".env"
	signalBufferSize = 1
	companyName      = "Salon"
)

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

func main() {
	if err := godotenv.Load(envFilePath); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	zapLogger.Info("database connection established")

	userRepo := postgres.NewUserRepository(db)
	otpRepo := postgres.NewOTPRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)

	mailService, err := buildMailer(cfg)
	if err != nil {
		zapLogger.Fatal("failed to configure mail providers", zap.Error(err))
	}

	verificationSender, err := mailer.NewVerificationSender(mailService, companyName)
	if err != nil {
		zapLogger.Fatal("failed to build verification template", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryDuration)
	otpService := auth.NewOTPService(otpRepo, userRepo, verificationSender, cfg.App.OTPExpiry, cfg.App.OTPMaxAttempts)

	var oauth *auth.GoogleOAuth
	if cfg.Google.Enabled() {
		oauth = auth.NewGoogleOAuth(&cfg.Google, userRepo)
		zapLogger.Info("google sign-in enabled")
	}

	gateway := billing.NewGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	billingService := billing.NewService(gateway, subscriptionRepo, cfg.Razorpay.BasicPlanID, cfg.Razorpay.ProPlanID, zapLogger)
	reconciler := billing.NewReconciler(subscriptionRepo, zapLogger)

	policy := authz.DefaultPolicy()
	authMiddleware := auth.NewMiddleware(jwtService, policy)

	csrfMiddleware := middleware.NewCSRFMiddleware(context.Background())
	defer csrfMiddleware.Stop()

	server := http.NewServer(&http.ServerDependencies{
		Config:         cfg,
		DB:             db,
		UserRepo:       userRepo,
		JWTService:     jwtService,
		OTPService:     otpService,
		OAuth:          oauth,
		BillingService: billingService,
		Reconciler:     reconciler,
		Policy:         policy,
		AuthMiddleware: authMiddleware,
		CSRFMiddleware: csrfMiddleware,
		AuditLogger:    audit.NewLogger(db.Pool),
	})

	go func() {
		zapLogger.Info("starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := server.Start(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, signalBufferSize)
	signal.Notify(quit, shutdownSignals...)
	<-quit

	zapLogger.Info("shutting down server")

	if err := server.Shutdown(context.Background()); err != nil {
		zapLogger.Fatal("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("server exited gracefully")
}

func buildMailer(cfg *config.Config) (*mailer.Mailer, error) {
	var providers []mailer.Provider
	if cfg.Mail.ResendAPIKey != "" {
		providers = append(providers, mailer.NewResendProvider(mailer.ResendConfig{APIKey: cfg.Mail.ResendAPIKey}))
	}
	if cfg.Mail.SendGridAPIKey != "" {
		providers = append(providers, mailer.NewSendGridProvider(mailer.SendGridConfig{APIKey: cfg.Mail.SendGridAPIKey}))
	}
	return mailer.New(cfg.Mail.From, providers...)
}
