package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/egor/engadvisor/session"
)

// Context keys set by SessionAuth.
const (
	SessionIDKey = "sessionID"
	ProfileKey   = "profile"
)

const issuer = "engadvisor"

// JWTClaims is the payload of a session token.
type JWTClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// Tokens issues and validates session tokens.
type Tokens struct {
	key []byte
	ttl time.Duration
}

// NewTokens creates a Tokens signing with secret. Tokens expire after ttl.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{key: []byte(secret), ttl: ttl}
}

// GenerateToken signs a token for sessionID.
func (t *Tokens) GenerateToken(sessionID string) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.key)
}

// ValidateToken checks the signature and expiry of tokenString.
func (t *Tokens) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || claims.SessionID == "" {
		return nil, errors.New("malformed token claims")
	}
	return claims, nil
}

// SessionAuth validates the bearer token and loads the session profile.
func SessionAuth(tokens *Tokens, store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		profile, err := store.Get(claims.SessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}

		c.Set(SessionIDKey, claims.SessionID)
		c.Set(ProfileKey, profile)
		c.Next()
	}
}

// Profile returns the session profile stored by SessionAuth.
func Profile(c *gin.Context) (*session.Profile, bool) {
	v, ok := c.Get(ProfileKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*session.Profile)
	return p, ok
}
