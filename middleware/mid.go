// Package middleware wires cross-cutting request handling: logging and the
// session-cookie authentication gate.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pratham-05/FarmNav-Website-Backend/internal/auth"
	"github.com/Pratham-05/FarmNav-Website-Backend/internal/sessions"
	"github.com/Pratham-05/FarmNav-Website-Backend/pkg/ctxmanage"
	"github.com/Pratham-05/FarmNav-Website-Backend/pkg/logkey"
)

// SessionStore is the slice of the session store the middleware needs.
type SessionStore interface {
	Get(ctx context.Context, id string) (sessions.Session, error)
}

type Mid struct {
	keys     *auth.Keys
	sessions SessionStore
}

func NewMid(keys *auth.Keys, store SessionStore) (*Mid, error) {
	if keys == nil {
		return nil, fmt.Errorf("keys is nil")
	}
	if store == nil {
		return nil, fmt.Errorf("session store is nil")
	}
	return &Mid{keys: keys, sessions: store}, nil
}

// Authentication resolves the session cookie into an Identity on the request
// context. Anything short of a valid, live session is a 401.
func (m *Mid) Authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := ctxmanage.GetTraceIdOfRequest(c)

		cookie, err := c.Cookie(auth.CookieName)
		if err != nil || cookie == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"success": false, "message": "Authentication required"})
			return
		}

		sessionID, err := m.keys.ParseSessionID(cookie)
		if err != nil {
			slog.Error("invalid session cookie", slog.String(logkey.TraceID, traceId),
				slog.String(logkey.Error, err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"success": false, "message": "Authentication required"})
			return
		}

		session, err := m.sessions.Get(c.Request.Context(), sessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"success": false, "message": "Authentication required"})
			return
		}

		identity := auth.Identity{
			UserID:   session.UserID,
			Username: session.Username,
			Email:    session.Email,
		}
		ctx := context.WithValue(c.Request.Context(), auth.IdentityKey, identity)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
