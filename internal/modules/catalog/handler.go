package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resortbooking/internal/pkg/response"
	"resortbooking/internal/pkg/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cities", h.ListCities)
	rg.GET("/hotels", h.ListHotels)
	rg.GET("/categories", h.ListCategories)
	rg.GET("/rooms", h.ListRooms)
}

// ListRooms handles GET /rooms?category=<slug> and GET /rooms?ids=a,b
func (h *Handler) ListRooms(c *gin.Context) {
	if raw, ok := c.GetQuery("ids"); ok {
		rooms := h.service.ListRoomsByIDs(c.Request.Context(), utils.ParseIDList(raw))
		response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
		return
	}

	rooms, err := h.service.ListRoomsByCategorySlug(c.Request.Context(), c.Query("category"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

func (h *Handler) ListCities(c *gin.Context) {
	cities, err := h.service.ListCities(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cities": cities})
}

func (h *Handler) ListHotels(c *gin.Context) {
	hotels, err := h.service.ListHotels(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"hotels": hotels})
}

func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"categories": cats})
}

func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	if errors.Is(err, ErrCatalogUnavailable) {
		response.Error(c, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "Could not load rooms, please try again")
		return
	}
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load catalog")
}
