package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resortbooking/internal/middleware"
	"resortbooking/internal/pkg/response"
)

type Handler struct {
	service *Service
	pending PendingResumer
}

func NewHandler(service *Service, pending PendingResumer) *Handler {
	return &Handler{service: service, pending: pending}
}

func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/signup", h.SignUp)
		authGroup.POST("/signin", h.SignIn)
		authGroup.POST("/signout", h.SignOut)
		authGroup.GET("/me", h.Me)
	}
}

func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	sess, err := h.service.SignUp(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respondSession(c, http.StatusCreated, sess)
}

func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	sess, err := h.service.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respondSession(c, http.StatusOK, sess)
}

// respondSession includes the page the guest should land on next.
func (h *Handler) respondSession(c *gin.Context, code int, sess *Session) {
	next := "/"
	if h.pending != nil {
		next = h.pending.Resume(middleware.ClientKeyFrom(c))
	}
	response.Success(c, code, gin.H{
		"user":      toPublic(sess.User),
		"token":     sess.Token,
		"expiresAt": sess.ExpiresAt,
		"next":      next,
	})
}

func (h *Handler) SignOut(c *gin.Context) {
	h.service.SignOut(c.Request.Context(), middleware.ClientKeyFrom(c), middleware.CurrentSession(c))
	response.Success(c, http.StatusOK, gin.H{"signedOut": true})
}

func (h *Handler) Me(c *gin.Context) {
	token := middleware.BearerToken(c)
	if token == "" || !middleware.CurrentSession(c).IsAuthenticated() {
		response.Error(c, http.StatusUnauthorized, "AUTH_REQUIRED", "Authentication required")
		return
	}

	user, err := h.service.CurrentUser(c.Request.Context(), token)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": toPublic(user)})
}

func writeError(c *gin.Context, err error) {
	msg := UserMessage(err)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", msg)
	case errors.Is(err, ErrEmailAlreadyExists):
		response.Error(c, http.StatusConflict, "EMAIL_EXISTS", msg)
	case errors.Is(err, ErrInvalidEmail):
		response.Error(c, http.StatusBadRequest, "INVALID_EMAIL", msg)
	case errors.Is(err, ErrWeakPassword):
		response.Error(c, http.StatusBadRequest, "WEAK_PASSWORD", msg)
	case errors.Is(err, ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", msg)
	case errors.Is(err, ErrExternalProvider):
		response.Error(c, http.StatusNotImplemented, "EXTERNAL_PROVIDER", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "AUTH_FAILED", msg)
	}
}
