package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resortbooking/internal/middleware"
	"resortbooking/internal/modules/session"
	applog "resortbooking/internal/pkg/logger"
)

func setupRouter(t *testing.T) (*gin.Engine, *session.Gate) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := setupService(t)
	gate := session.NewGate(svc, applog.Discard())
	svc.OnAuthStateChange(gate.HandleChange)

	r := gin.New()
	r.Use(middleware.ClientKey(false), middleware.ResolveSession(gate))
	NewHandler(svc, gate).RegisterRoutes(r.Group("/api/v1"))
	r.GET("/api/v1/wizard", middleware.RequireSession(gate), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r, gate
}

func post(r *gin.Engine, path, body, token string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type sessionBody struct {
	Data struct {
		Token string     `json:"token"`
		Next  string     `json:"next"`
		User  UserPublic `json:"user"`
	} `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeSession(t *testing.T, w *httptest.ResponseRecorder) sessionBody {
	t.Helper()
	var b sessionBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	return b
}

func TestSignInResumesPendingTarget(t *testing.T) {
	r, _ := setupRouter(t)
	cookie := &http.Cookie{Name: middleware.ClientKeyCookie, Value: "client-1"}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wizard", nil)
	req.Header.Set("X-Return-To", "/booking?room=r1")
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = post(r, "/api/v1/auth/signup", `{"email":"guest@resort.test","password":"secret1"}`, "", cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeSession(t, w)
	assert.Equal(t, "/booking?room=r1", body.Data.Next)
	assert.Equal(t, "guest@resort.test", body.Data.User.Email)

	w = post(r, "/api/v1/auth/signin", `{"email":"guest@resort.test","password":"secret1"}`, "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/", decodeSession(t, w).Data.Next)
}

func TestSignInFaults(t *testing.T) {
	r, _ := setupRouter(t)

	w := post(r, "/api/v1/auth/signin", `{"email":"guest@resort.test","password":"secret1"}`, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeSession(t, w)
	assert.Equal(t, "INVALID_CREDENTIALS", body.Error.Code)
	assert.Equal(t, "Wrong e-mail or password", body.Error.Message)

	w = post(r, "/api/v1/auth/signup", `{"email":"guest@resort.test","password":"123"}`, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "WEAK_PASSWORD", decodeSession(t, w).Error.Code)

	w = post(r, "/api/v1/auth/signin", `{}`, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMeAndSignOut(t *testing.T) {
	r, _ := setupRouter(t)

	w := post(r, "/api/v1/auth/signup", `{"email":"guest@resort.test","password":"secret1","name":"Aigerim"}`, "", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	token := decodeSession(t, w).Data.Token

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Aigerim"`)

	w = post(r, "/api/v1/auth/signout", "", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
