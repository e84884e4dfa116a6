package upload

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resortbooking/internal/domain"
	"resortbooking/internal/middleware"
	"resortbooking/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects rg to be session-gated.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/uploads")
	g.POST("", h.Upload)
	g.GET("/:id", h.GetByID)
	g.GET("/:id/file", h.Download)
}

func (h *Handler) Upload(c *gin.Context) {
	identity := middleware.CurrentSession(c).Identity

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxFileSize+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "No file provided")
		return
	}

	rec, err := h.service.Upload(c.Request.Context(), identity.UserID, fh)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toView(rec))
}

func (h *Handler) GetByID(c *gin.Context) {
	rec, err := h.service.Get(c.Request.Context(), middleware.CurrentSession(c).Identity, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toView(rec))
}

func (h *Handler) Download(c *gin.Context) {
	rec, err := h.service.Get(c.Request.Context(), middleware.CurrentSession(c).Identity, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Type", rec.MimeType)
	c.FileAttachment(h.service.Path(rec), rec.OriginalName)
}

func toView(rec *domain.Upload) gin.H {
	return gin.H{
		"id":        rec.ID,
		"url":       rec.FileURL,
		"name":      rec.OriginalName,
		"mimeType":  rec.MimeType,
		"size":      rec.Size,
		"createdAt": rec.CreatedAt,
	}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmptyFile), errors.Is(err, ErrInvalidMimeType):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrNotOwner):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Upload failed")
	}
}
