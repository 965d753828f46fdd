package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"quiz-portal/internal/domain"
)

const (
	sessionCookie = "quiz_session"
	flashCookie   = "quiz_flash"
	userKey       = "currentUser"
)

// sessionAuth resolves the session cookie to a user, when present. It never
// blocks the request; gating is done by requireLogin/requireAdmin.
func (h *Handler) sessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessionCookie)
		if err != nil || sid == "" {
			c.Next()
			return
		}
		user, err := h.auth.UserBySession(c.Request.Context(), sid)
		if err != nil {
			c.Next()
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// requireLogin redirects anonymous visitors to the login page, preserving
// the requested path in ?next=.
func requireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); !ok {
			c.Redirect(http.StatusFound, "/login/?next="+url.QueryEscape(c.Request.URL.Path))
			c.Abort()
		}
	}
}

// requireAdmin gates question authoring. Non-admins are redirected to login
// like the anonymous case, not shown a 403.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok || !user.IsAdmin {
			c.Redirect(http.StatusFound, "/login/?next="+url.QueryEscape(c.Request.URL.Path))
			c.Abort()
		}
	}
}

// tokenAuth resolves an "Authorization: Token <key>" header, when present.
func (h *Handler) tokenAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Token") {
			c.Next()
			return
		}
		user, err := h.auth.UserByToken(c.Request.Context(), parts[1])
		if err != nil {
			c.Next()
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// requireToken rejects unauthenticated API calls.
func requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		}
	}
}

// requireAdminToken rejects non-admin API callers.
func requireAdminToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Administrator access required"})
		}
	}
}

func currentUser(c *gin.Context) (domain.User, bool) {
	value, ok := c.Get(userKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := value.(domain.User)
	return user, ok
}

// requestLog emits one line per request through the structured logger.
func (h *Handler) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		h.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}
