package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"salon-service/internal/authz"
)

type JWTClaims struct {
	UserID        uuid.UUID  `json:"user_id"`
	Email         string     `json:"email"`
	Role          authz.Role `json:"role"`
	EmailVerified bool       `json:"email_verified"`
	jwt.RegisteredClaims
}

// SessionToken converts the claims into the evaluator's token shape.
func (c *JWTClaims) SessionToken() authz.Token {
	return authz.Token{
		Authenticated: true,
		Role:          c.Role,
		EmailVerified: c.EmailVerified,
		UserID:        c.UserID.String(),
		Email:         c.Email,
	}
}

type JWTService struct {
	secret []byte
	expiry time.Duration
}

func NewJWTService(secret string, expiry time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		expiry: expiry,
	}
}

func (s *JWTService) Generate(userID uuid.UUID, email string, role authz.Role, verified bool) (string, error) {
	claims := JWTClaims{
		UserID:        userID,
		Email:         email,
		Role:          role,
		EmailVerified: verified,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) Verify(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf(msgUnexpectedSigningMethod, token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, fmt.Errorf(msgTokenParseFailed, err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf(msgInvalidTokenClaims)
	}

	return claims, nil
}
