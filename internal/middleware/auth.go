package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resortbooking/internal/modules/session"
	"resortbooking/internal/pkg/response"
)

const (
	ClientKeyCookie = "rb_client"

	ctxSession   = "session"
	ctxClientKey = "client_key"
)

type SessionResolver interface {
	Authenticate(ctx context.Context, token string) (session.State, error)
}

type Admitter interface {
	Admit(clientKey string, st session.State, path string) session.Decision
}

// ClientKey makes sure every browser carries a stable anonymous key. Pending redirects are
// remembered against it.
func ClientKey(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := c.Cookie(ClientKeyCookie)
		if err != nil || key == "" {
			key = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(ClientKeyCookie, key, 365*24*3600, "/", "", secure, true)
		}
		c.Set(ctxClientKey, key)
		c.Next()
	}
}

// ResolveSession turns the bearer token into a session.State. A missing or bad token leaves
// the request anonymous; RequireSession decides what that means for the route.
func ResolveSession(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := session.AnonymousState()

		header := c.GetHeader("Authorization")
		if header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be: Bearer <token>")
				return
			}

			resolved, err := resolver.Authenticate(c.Request.Context(), parts[1])
			switch {
			case err == nil:
				st = resolved
			case errors.Is(err, session.ErrRevoked):
				c.Set("session_error", "TOKEN_REVOKED")
			default:
				c.Set("session_error", "INVALID_TOKEN")
			}
		}

		c.Set(ctxSession, st)
		if st.IsAuthenticated() {
			c.Set("user_id", st.Identity.UserID)
			c.Set("role", string(st.Identity.Role))
		}
		c.Request = c.Request.WithContext(session.WithState(c.Request.Context(), st))
		c.Next()
	}
}

// RequireSession admits authenticated requests. Anonymous ones get 401 with the redirect the
// client should follow; the requested path is remembered for after sign-in.
func RequireSession(gate Admitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := CurrentSession(c)
		target := c.GetHeader("X-Return-To")
		if target == "" {
			target = c.Request.URL.RequestURI()
		}

		d := gate.Admit(ClientKeyFrom(c), st, target)
		if d.Admitted {
			c.Next()
			return
		}

		code := c.GetString("session_error")
		if code == "" {
			code = "AUTH_REQUIRED"
		}
		response.AbortWithDetails(c, http.StatusUnauthorized, code, "Authentication required", gin.H{
			"redirect": d.Redirect,
		})
	}
}

func CurrentSession(c *gin.Context) session.State {
	if v, ok := c.Get(ctxSession); ok {
		if st, ok := v.(session.State); ok {
			return st
		}
	}
	return session.AnonymousState()
}

func ClientKeyFrom(c *gin.Context) string {
	return c.GetString(ctxClientKey)
}

// BearerToken returns the raw token of the request, if any.
func BearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
