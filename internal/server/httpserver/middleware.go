package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/mysterymessage/internal/common"
	"github.com/dmitrijs2005/mysterymessage/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ctxKey string

const identityKey ctxKey = "identity"

const requestIDHeader = "X-Request-ID"

// IdentityFromContext returns the session identity stored by sessionRequired.
func IdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*models.Identity)
	return id, ok && id != nil
}

// sessionTokens returns the session cookie and the Bearer header token, in
// that order, skipping whichever is absent.
func sessionTokens(c *gin.Context) []string {
	var tokens []string
	if v, err := c.Cookie(common.SessionCookieName); err == nil && v != "" {
		tokens = append(tokens, v)
	}
	h := c.GetHeader(common.AuthorizationHeaderName)
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		if token = strings.TrimSpace(token); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func (s *HTTPServer) sessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokens := sessionTokens(c)
		if len(tokens) == 0 {
			fail(c, http.StatusUnauthorized, "Not authenticated")
			c.Abort()
			return
		}

		// a stale cookie must not shadow a valid Bearer token
		var (
			identity *models.Identity
			err      error
		)
		for _, token := range tokens {
			if identity, err = s.users.ParseSession(token); err == nil {
				break
			}
		}
		if err != nil {
			s.writeError(c, err)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), identityKey, identity))
		c.Next()
	}
}

// currentIdentity is only valid behind sessionRequired.
func currentIdentity(c *gin.Context) *models.Identity {
	id, _ := IdentityFromContext(c.Request.Context())
	return id
}

func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)

		c.Next()

		s.logger.Info(c.Request.Context(), "request",
			"request_id", reqID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}
