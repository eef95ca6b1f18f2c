package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ClaimsKey is the gin context key holding verified token claims.
const ClaimsKey = "claims"

// Token exposes the payload of a verified bearer token.
type Token interface {
	Claims(v interface{}) error
}

// Verifier validates a raw bearer token. internal/tokens provides the HS256 one.
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// AuthMiddleware guards a route with a bearer token. Every rejection is a 401
// with the same envelope the resource routes use for failures.
func AuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, reason := bearerToken(c.GetHeader("Authorization"))
		if reason != "" {
			abortWithError(c, http.StatusUnauthorized, reason)
			return
		}
		tok, err := ver.Verify(c.Request.Context(), raw)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "invalid token")
			return
		}
		var claims map[string]interface{}
		if err := tok.Claims(&claims); err != nil {
			abortWithError(c, http.StatusUnauthorized, "failed to parse claims")
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header value. The
// scheme match is case-insensitive; reason is non-empty when the header is unusable.
func bearerToken(header string) (token, reason string) {
	if header == "" {
		return "", "missing Authorization header"
	}
	scheme, rest, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(rest)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", "invalid Authorization header"
	}
	return token, ""
}
