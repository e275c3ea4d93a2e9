package auth

const (
	ContextKeyUserID   = "user_id"
	ContextKeyEmail    = "email"
	ContextKeyRole     = "role"
	ContextKeyVerified = "email_verified"
	ContextKeyToken    = "session_token"

	jsonKeyError = "error"

	headerAuthorization = "Authorization"
	sessionCookieName   = "session"
	stateCookieName     = "oauth_state"

	bearerScheme    = "bearer"
	authHeaderParts = 2
)

const (
	msgMissingAuthorization    = "missing authorization token"
	msgInvalidOrExpiredToken   = "invalid or expired token"
	msgUserNotAuthenticated    = "user not authenticated"
	msgInvalidUserIDCtx        = "invalid user ID in context"
	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgTokenParseFailed        = "failed to parse token: %w"
	msgInvalidTokenClaims      = "invalid token claims"
	msgEmailNotVerified        = "email verification required"
	msgInsufficientRole        = "insufficient role"
	msgOTPInvalid              = "invalid verification code"
	msgOTPExpired              = "verification code expired"
	msgOTPAttemptsExceeded     = "too many verification attempts"
)
