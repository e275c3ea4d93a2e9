package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envJWTSecret             = "JWT_SECRET"
	envJWTExpiry             = "JWT_EXPIRY_MINUTES"
	envGoogleClientID        = "GOOGLE_CLIENT_ID"
	envGoogleClientSecret    = "GOOGLE_CLIENT_SECRET"
	envGoogleRedirectURL     = "GOOGLE_REDIRECT_URL"
	envRazorpayKeyID         = "RAZORPAY_KEY_ID"
	envRazorpayKeySecret     = "RAZORPAY_KEY_SECRET"
	envRazorpayWebhookSecret = "RAZORPAY_WEBHOOK_SECRET"
	envRazorpayBasicPlanID   = "RAZORPAY_BASIC_PLAN_ID"
	envRazorpayProPlanID     = "RAZORPAY_PRO_PLAN_ID"
	envMailFrom              = "MAIL_FROM"
	envResendAPIKey          = "RESEND_API_KEY"
	envSendGridAPIKey        = "SENDGRID_API_KEY"
	envOTPExpiry             = "OTP_EXPIRY_MINUTES"
	envOTPMaxAttempts        = "OTP_MAX_ATTEMPTS"
	envBaseURL               = "BASE_URL"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 10 * time.Second
	defaultServerWriteTimeout = 10 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultDBHost             = "localhost"
	defaultDBPort             = 5432
	defaultDBName             = "salonservice"
	defaultDBUser             = "salonservice_app"
	defaultDBSSLMode          = "disable"
	defaultDBMaxConns         = 25
	defaultDBMinConns         = 5
	defaultJWTExpiry          = 60 * time.Minute
	defaultOTPExpiry          = 10 * time.Minute
	defaultOTPMaxAttempts     = 5
	defaultBaseURL            = "http://localhost:8080"
	defaultMailFrom           = "no-reply@salonservice.local"
	minJWTSecretLength        = 32
	minUniqueCharsInSecret    = 16
	minRepeatedCharThreshold  = 4
	maxRepeatedChars          = 2

	errPortRequiredFmt            = "PORT must be set"
	errDBPasswordRequiredFmt      = "DB_PASSWORD must be set"
	errJWTSecretRequiredFmt       = "JWT_SECRET must be set"
	errJWTSecretMinLengthFmt      = "JWT_SECRET must be at least %d characters"
	errJWTSecretLowEntropyFmt     = "JWT_SECRET has insufficient entropy (appears non-random). Use a cryptographically secure random string."
	errRazorpayKeyRequiredFmt     = "RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET must be set"
	errRazorpayWebhookRequiredFmt = "RAZORPAY_WEBHOOK_SECRET must be set"
	errMailProviderRequiredFmt    = "at least one of RESEND_API_KEY or SENDGRID_API_KEY must be set"
	errInvalidConfigurationFmt    = "invalid configuration: %w"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Google   GoogleConfig
	Razorpay RazorpayConfig
	Mail     MailConfig
	App      AppConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

type JWTConfig struct {
	Secret         string
	ExpiryDuration time.Duration
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Enabled reports whether Google OAuth is configured. The rest of the
// auth surface works without it.
func (c *GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	BasicPlanID   string
	ProPlanID     string
}

type MailConfig struct {
	From           string
	ResendAPIKey   string
	SendGridAPIKey string
}

type AppConfig struct {
	BaseURL        string
	OTPExpiry      time.Duration
	OTPMaxAttempts int
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
		},
		Database: DatabaseConfig{
			Host:     getEnv(envDBHost, defaultDBHost),
			Port:     getIntEnv(envDBPort, defaultDBPort),
			Database: getEnv(envDBName, defaultDBName),
			User:     getEnv(envDBUser, defaultDBUser),
			Password: os.Getenv(envDBPassword),
			SSLMode:  getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns: getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns: getIntEnv(envDBMinConns, defaultDBMinConns),
		},
		JWT: JWTConfig{
			Secret:         os.Getenv(envJWTSecret),
			ExpiryDuration: getDurationEnv(envJWTExpiry, defaultJWTExpiry),
		},
		Google: GoogleConfig{
			ClientID:     os.Getenv(envGoogleClientID),
			ClientSecret: os.Getenv(envGoogleClientSecret),
			RedirectURL:  getEnv(envGoogleRedirectURL, defaultBaseURL+"/auth/google/callback"),
		},
		Razorpay: RazorpayConfig{
			KeyID:         os.Getenv(envRazorpayKeyID),
			KeySecret:     os.Getenv(envRazorpayKeySecret),
			WebhookSecret: os.Getenv(envRazorpayWebhookSecret),
			BasicPlanID:   os.Getenv(envRazorpayBasicPlanID),
			ProPlanID:     os.Getenv(envRazorpayProPlanID),
		},
		Mail: MailConfig{
			From:           getEnv(envMailFrom, defaultMailFrom),
			ResendAPIKey:   os.Getenv(envResendAPIKey),
			SendGridAPIKey: os.Getenv(envSendGridAPIKey),
		},
		App: AppConfig{
			BaseURL:        getEnv(envBaseURL, defaultBaseURL),
			OTPExpiry:      getDurationEnv(envOTPExpiry, defaultOTPExpiry),
			OTPMaxAttempts: getIntEnv(envOTPMaxAttempts, defaultOTPMaxAttempts),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequiredFmt)
	}

	if c.Database.Password == "" {
		return fmt.Errorf(errDBPasswordRequiredFmt)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf(errJWTSecretRequiredFmt)
	}

	if len(c.JWT.Secret) < minJWTSecretLength {
		return fmt.Errorf(errJWTSecretMinLengthFmt, minJWTSecretLength)
	}

	if !hasMinimumEntropy(c.JWT.Secret) {
		return fmt.Errorf(errJWTSecretLowEntropyFmt)
	}

	if c.Razorpay.KeyID == "" || c.Razorpay.KeySecret == "" {
		return fmt.Errorf(errRazorpayKeyRequiredFmt)
	}

	if c.Razorpay.WebhookSecret == "" {
		return fmt.Errorf(errRazorpayWebhookRequiredFmt)
	}

	if c.Mail.ResendAPIKey == "" && c.Mail.SendGridAPIKey == "" {
		return fmt.Errorf(errMailProviderRequiredFmt)
	}

	return nil
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minJWTSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	uniqueChars := len(charCounts)
	if uniqueChars < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}
