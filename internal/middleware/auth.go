package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrmorrispmorris/dailymood/backend/internal/apierror"
	"github.com/mrmorrispmorris/dailymood/backend/internal/logger"
	"github.com/mrmorrispmorris/dailymood/backend/pkg/supabase"
)

// Context keys set by Auth
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
)

// TokenVerifier resolves a bearer token to a user
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*supabase.User, error)
}

// Auth middleware to verify JWT tokens
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Ctx(c.Request.Context())

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			log.Debug("authentication failed: missing or malformed authorization header")
			apierror.AbortWithProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
			return
		}

		user, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			log.Warn("authentication failed: token verification error", logger.Err(err))
			apierror.AbortWithProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserEmailKey, user.Email)

		ctx := logger.WithUserID(c.Request.Context(), user.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>"
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// UserID returns the authenticated user's id
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
