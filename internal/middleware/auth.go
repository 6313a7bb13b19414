package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-api/internal/model"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/httputil"
)

const ContextSession = "session"

// SessionResolver turns a bearer token into the caller's session. A nil
// session with a nil error means the token did not identify anyone.
type SessionResolver interface {
	GetSession(ctx context.Context, token string) (*model.Session, error)
}

type AuthMiddleware struct {
	sessions SessionResolver
}

func NewAuthMiddleware(sessions SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Authenticate resolves the Authorization header into a session. Requests
// without a valid token continue with no session; services decide whether
// that is allowed.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}

		session, err := m.sessions.GetSession(c.Request.Context(), token)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Internal(fmt.Errorf("failed to resolve session: %w", err)))
			return
		}
		if session != nil {
			c.Set(ContextSession, session)
		}
		c.Next()
	}
}

// SessionFrom returns the session Authenticate stored, or nil.
func SessionFrom(c *gin.Context) *model.Session {
	v, ok := c.Get(ContextSession)
	if !ok {
		return nil
	}
	session, _ := v.(*model.Session)
	return session
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
