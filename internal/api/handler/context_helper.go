package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"uniguide/backend/pkg/response"
)

// Context keys set by middleware.JWTAuth.
const (
	ctxUserID   = "user_id"
	ctxRole     = "role"
	ctxTokenJTI = "token_jti"
	ctxTokenExp = "token_exp"
)

// MustGetUserID extracts user_id from the gin context. When the JWT
// middleware did not set it, a 401 is written and ok is false; callers
// return immediately.
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, ctxUserID)
}

// MustGetRole extracts role from the gin context.
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, ctxRole)
}

// tokenInfo returns the id of the current token and the time it has left.
func tokenInfo(c *gin.Context) (jti string, remaining time.Duration) {
	jti = c.GetString(ctxTokenJTI)
	if exp, ok := c.Get(ctxTokenExp); ok {
		if t, ok := exp.(time.Time); ok {
			remaining = time.Until(t)
		}
	}
	if remaining < 0 {
		remaining = 0
	}
	return jti, remaining
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, response.CodeUnauthenticated, "unauthenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, response.CodeUnauthenticated, "unauthenticated")
		return "", false
	}
	return s, true
}
