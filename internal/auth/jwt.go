package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/artyaffairs/storefront/internal/models"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 72 * time.Hour

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrInvalidSubject = errors.New("invalid subject claim")
)

// Tokens signs and validates bearer tokens with a shared HMAC secret.
// The subject is the identity provider's user id; email and name ride along
// so a profile row can be created without another lookup.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens returns a Tokens for secret. A zero ttl uses DefaultTokenTTL.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

// GenerateToken creates a signed token for u.
func (t *Tokens) GenerateToken(u models.User) (string, error) {
	// 1. Build the claims. "sub" is the standard claim for the user id.
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"name":  u.Name,
		"exp":   now.Add(t.ttl).Unix(),
		"iat":   now.Unix(),
	}

	// 2. Sign with HS256.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ValidateToken parses and validates a token and returns the user it names.
func (t *Tokens) ValidateToken(tokenString string) (models.User, error) {
	// 1. Parse, rejecting anything not signed with an HMAC method.
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return models.User{}, err
	}

	// 2. Pull the user out of the claims.
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.User{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return models.User{}, ErrInvalidSubject
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	return models.User{ID: sub, Email: email, Name: name}, nil
}
