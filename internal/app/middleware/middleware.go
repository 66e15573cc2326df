package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

type contextKey string

const SessionIDKey contextKey = "sessionID"

const (
	sessionCookieName = "voyago_session"
	sessionTTL        = 30 * 24 * time.Hour
)

// CORSMiddleware handles CORS headers
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SecurityMiddleware adds security headers
func SecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("X-XSS-Protection", "1; mode=block")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// OTELGinMiddleware returns the OpenTelemetry middleware for Gin
func OTELGinMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionMiddleware keys all per-client state. There are no accounts: the
// first request mints a guest session id, signs it into a cookie, and every
// later request carries it. A bad or expired cookie just gets a fresh one.
func SessionMiddleware(secret string, logger *zap.Logger) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		if sid, ok := parseSessionCookie(c, key); ok {
			c.Set(string(SessionIDKey), sid)
			c.Next()
			return
		}

		sid := uuid.New().String()
		token, err := signSession(sid, key)
		if err != nil {
			logger.Error("Failed to sign session token", zap.Error(err))
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.SetCookie(sessionCookieName, token, int(sessionTTL.Seconds()), "/", "", false, true)
		c.Set(string(SessionIDKey), sid)
		c.Next()
	}
}

func parseSessionCookie(c *gin.Context, key []byte) (string, bool) {
	raw, err := c.Cookie(sessionCookieName)
	if err != nil || raw == "" {
		return "", false
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil || !token.Valid || claims.SessionID == "" {
		return "", false
	}
	return claims.SessionID, true
}

func signSession(sid string, key []byte) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// GetSessionIDFromContext returns the guest session id set by
// SessionMiddleware, or "" when the middleware did not run.
func GetSessionIDFromContext(c *gin.Context) string {
	if sid, exists := c.Get(string(SessionIDKey)); exists {
		if s, ok := sid.(string); ok {
			return s
		}
	}
	return ""
}
