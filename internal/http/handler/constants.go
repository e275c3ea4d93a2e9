package handler

const (
	jsonKeyError   = "error"
	jsonKeyMessage = "message"
)

const (
	msgContentTypeJSONRequired = "Content-Type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
	msgInvalidCredentials      = "invalid email or password"
	msgPasswordProcessFail     = "failed to process password"
	msgCreateAccountFail       = "failed to create account"
	msgGenerateTokenFail       = "failed to generate token"
	msgEmailAlreadyExists      = "email already exists"
	msgSignupOK                = "account created, check your email for a verification code"
	msgVerificationOK          = "email verified"
	msgVerificationResent      = "verification code sent"
	msgLoggedOut               = "logged out"
	msgOAuthNotConfigured      = "google sign-in is not configured"
	msgOAuthBeginFail          = "failed to start google sign-in"
	msgOAuthCallbackFail       = "google sign-in failed"
	msgInvalidUserID           = "invalid user id"
	msgInvalidSubscriptionID   = "invalid subscription id"
	msgInvalidRole             = "invalid role"
	msgWebhookBadSignature     = "invalid webhook signature"
	msgWebhookReadFail         = "failed to read webhook body"
)
