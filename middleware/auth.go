package middleware

import (
	"github.com/gin-gonic/gin"

	"tea-techniques-api/helper"
	"tea-techniques-api/models"
	"tea-techniques-api/services"
)

const (
	SessionCookie  = "sessionid"
	ContextUserKey = "user"
)

// SessionMiddleware resolves the session cookie to a user and attaches
// it to the request context. Requests without a live session pass
// through anonymously.
func SessionMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		session, err := authService.GetSession(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(ContextUserKey, &session.User)
		c.Next()
	}
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// RequireAuth rejects anonymous requests with a PermissionDenied
// envelope.
func RequireAuth(h *helper.HTTPHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			h.SendError(c, models.NewPermissionDenied("Authentication credentials were not provided."))
			return
		}
		c.Next()
	}
}
