package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resortbooking/internal/domain"
	"resortbooking/internal/modules/session"
	"resortbooking/internal/pkg/jwt"
	"resortbooking/internal/pkg/logger"
)

type jwtVerifier struct {
	svc *jwt.Service
}

func (v jwtVerifier) Verify(_ context.Context, token string) (*session.Credential, error) {
	claims, err := v.svc.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &session.Credential{
		Identity:  domain.Identity{UserID: claims.UserID, Email: claims.Email, Role: domain.UserRole(claims.Role)},
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func setupRouter(gate *session.Gate) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ClientKey(false), ResolveSession(gate))

	router.GET("/public", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"authenticated": CurrentSession(c).IsAuthenticated()})
	})

	protected := router.Group("/", RequireSession(gate))
	protected.GET("/protected", func(c *gin.Context) {
		st := CurrentSession(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id": st.Identity.UserID,
			"role":    st.Identity.Role,
		})
	})
	protected.GET("/admin", AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func newGate(svc *jwt.Service) *session.Gate {
	return session.NewGate(jwtVerifier{svc: svc}, logger.Discard())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Redirect string `json:"redirect"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code, body.Error.Details.Redirect
}

func TestResolveSession_ValidToken(t *testing.T) {
	svc := jwt.New("test-secret-123", time.Hour)
	token, _ := svc.GenerateToken("u-42", "guest@resort.test", "guest")
	router := setupRouter(newGate(svc))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u-42")
	assert.Contains(t, w.Body.String(), "guest")
}

func TestRequireSession_NoToken(t *testing.T) {
	svc := jwt.New("test-secret-123", time.Hour)
	gate := newGate(svc)
	router := setupRouter(gate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected?room=r1", nil)
	req.AddCookie(&http.Cookie{Name: ClientKeyCookie, Value: "browser-1"})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	code, redirect := errorCode(t, w)
	assert.Equal(t, "AUTH_REQUIRED", code)
	assert.Equal(t, session.AuthEntryPoint, redirect)

	assert.Equal(t, "/protected?room=r1", gate.Resume("browser-1"))
	assert.Equal(t, session.DefaultLanding, gate.Resume("browser-1"))
}

func TestRequireSession_ReturnToHeader(t *testing.T) {
	gate := newGate(jwt.New("s", time.Hour))
	router := setupRouter(gate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("X-Return-To", "/booking?category=deluxe-room")
	req.AddCookie(&http.Cookie{Name: ClientKeyCookie, Value: "browser-2"})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/booking?category=deluxe-room", gate.Resume("browser-2"))
}

func TestResolveSession_InvalidToken(t *testing.T) {
	router := setupRouter(newGate(jwt.New("wrong-secret", time.Hour)))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer invalid-jwt-here")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	code, _ := errorCode(t, w)
	assert.Equal(t, "INVALID_TOKEN", code)
}

func TestResolveSession_WrongFormat(t *testing.T) {
	router := setupRouter(newGate(jwt.New("s", time.Hour)))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Basic dGVzdA==")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	code, _ := errorCode(t, w)
	assert.Equal(t, "INVALID_AUTH_FORMAT", code)
}

func TestResolveSession_RevokedToken(t *testing.T) {
	svc := jwt.New("s", time.Hour)
	gate := newGate(svc)
	router := setupRouter(gate)
	token, _ := svc.GenerateToken("u-1", "a@b.c", "guest")

	st, err := gate.Authenticate(context.Background(), token)
	require.NoError(t, err)
	gate.Logout("browser-3", st)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	code, _ := errorCode(t, w)
	assert.Equal(t, "TOKEN_REVOKED", code)
}

func TestPublicRouteStaysAnonymous(t *testing.T) {
	router := setupRouter(newGate(jwt.New("s", time.Hour)))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	var issued bool
	for _, c := range w.Result().Cookies() {
		if c.Name == ClientKeyCookie && c.Value != "" {
			issued = true
		}
	}
	assert.True(t, issued)
}

func TestAdminOnly(t *testing.T) {
	svc := jwt.New("s", time.Hour)
	router := setupRouter(newGate(svc))
	guest, _ := svc.GenerateToken("u-1", "a@b.c", "guest")
	admin, _ := svc.GenerateToken("u-2", "root@b.c", "admin")

	for token, want := range map[string]int{guest: http.StatusForbidden, admin: http.StatusOK} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code)
	}
}
