package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/snackradar/snackradar/internal/model"
)

// Claims represents JWT claims with token type and identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id,omitempty"`
	Email     string `json:"email,omitempty"`
	TokenType string `json:"typ"`
}

// JWT issues and validates identity tokens backed by symmetric HMAC.
type JWT struct {
	secretKey string
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string) *JWT {
	return &JWT{secretKey: secretKey}
}

const (
	sessionTTL = 30 * 24 * time.Hour
	resetTTL   = time.Hour
	typeSess   = "session"
	typeReset  = "password_reset"
	typeSSO    = "sso"
)

// GenerateSessionToken creates a long-lived token carried by the device to
// restore the signed-in identity across restarts.
func (j *JWT) GenerateSessionToken(id model.Identity) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
		UserID:    string(id),
		TokenType: typeSess,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ParseSessionToken validates a session token and extracts the identity.
func (j *JWT) ParseSessionToken(tokenString string) (model.Identity, error) {
	claims, err := j.parse(tokenString, typeSess)
	if err != nil {
		return "", err
	}
	return model.Identity(claims.UserID), nil
}

// GenerateResetToken creates a short-lived password-reset token for an email.
func (j *JWT) GenerateResetToken(email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(resetTTL)),
		},
		Email:     email,
		TokenType: typeReset,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}

	return tokenString, nil
}

// ParseResetToken validates a password-reset token and extracts the email.
func (j *JWT) ParseResetToken(tokenString string) (string, error) {
	claims, err := j.parse(tokenString, typeReset)
	if err != nil {
		return "", err
	}
	return claims.Email, nil
}

// ParseSSOToken validates a federated sign-on token and extracts the email.
func (j *JWT) ParseSSOToken(tokenString string) (string, error) {
	claims, err := j.parse(tokenString, typeSSO)
	if err != nil {
		return "", err
	}
	return claims.Email, nil
}

func (j *JWT) parse(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}
	return claims, nil
}
