package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/precisionhealth/skinsight-be/internal/apperrors"
)

type contextKey string

// SubjectKey is the context key under which the middleware stores the
// verified token subject.
const SubjectKey = contextKey("tokenSubject")

// TokenCodec signs and verifies bearer tokens. The signing secret and default
// TTL come from configuration; there is no package-level state.
//
// Tokens are never revoked before their natural expiry. That is a deliberate
// parity with the legacy behavior, not an oversight.
type TokenCodec struct {
	secret     []byte
	defaultTTL time.Duration
}

// NewTokenCodec creates a codec with the given secret and default TTL.
func NewTokenCodec(secret string, defaultTTL time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), defaultTTL: defaultTTL}
}

// Issue mints a signed token for the given subject. A non-positive ttl uses
// the codec's default.
func (c *TokenCodec) Issue(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify parses and validates a token and returns its subject. A malformed
// token, a bad signature and an elapsed expiry all return the same
// ErrInvalidCredential; the underlying cause is only logged, so callers
// cannot tell which check failed.
func (c *TokenCodec) Verify(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil {
		log.Debug().Str("cause", verifyCause(err)).Msg("Token verification failed")
		return "", apperrors.ErrInvalidCredential
	}
	if !token.Valid || claims.Subject == "" {
		log.Debug().Str("cause", "invalid claims").Msg("Token verification failed")
		return "", apperrors.ErrInvalidCredential
	}
	return claims.Subject, nil
}

// verifyCause names the internal failure reason for logs only.
func verifyCause(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "bad signature"
	default:
		return err.Error()
	}
}

// Middleware creates a middleware for protecting routes. On success the
// token subject is placed in the request context under SubjectKey.
func (c *TokenCodec) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string

			// 1. Try to get the token from the Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, "Bearer ")
				if len(parts) == 2 {
					tokenStr = strings.TrimSpace(parts[1])
				}
			}

			// 2. If not in header, fall back to the cookie
			if tokenStr == "" {
				if cookie, err := r.Cookie("token"); err == nil {
					tokenStr = cookie.Value
				}
			}

			if tokenStr == "" {
				http.Error(w, "Missing auth token", http.StatusUnauthorized)
				return
			}

			subject, err := c.Verify(tokenStr)
			if err != nil {
				http.Error(w, "Invalid auth token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectFromContext extracts the verified token subject, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(SubjectKey).(string)
	return subject, ok
}
