package availability

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resortbooking/internal/domain"
	"resortbooking/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/availability", h.ListAvailable)
	rg.GET("/rooms/:id/availability", h.RoomAvailability)
}

// ListAvailable handles GET /availability?check_in=&check_out=[&category_id=&city_id=]
func (h *Handler) ListAvailable(c *gin.Context) {
	in, out, ok := parseRange(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	categoryID, cityID := c.Query("category_id"), c.Query("city_id")
	if categoryID != "" || cityID != "" {
		rooms, err := h.service.AvailableForCategoryAndCity(ctx, categoryID, cityID, in, out)
		if err != nil {
			writeError(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
		return
	}

	rooms, err := h.service.ListAvailable(ctx, in, out)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

func (h *Handler) RoomAvailability(c *gin.Context) {
	in, out, ok := parseRange(c)
	if !ok {
		return
	}

	roomID := c.Param("id")
	free, err := h.service.IsAvailable(c.Request.Context(), roomID, in, out)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"roomId":       roomID,
		"available":    free,
		"checkInDate":  in,
		"checkOutDate": out,
	})
}

func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	in, okIn := domain.ParseInstant(c.Query("check_in"))
	out, okOut := domain.ParseInstant(c.Query("check_out"))
	if !okIn || !okOut {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "check_in and check_out are required",
			gin.H{"check_in": okIn, "check_out": okOut})
		return time.Time{}, time.Time{}, false
	}
	if !out.After(in) {
		response.Error(c, http.StatusBadRequest, "INVALID_RANGE", ErrInvalidRange.Error())
		return time.Time{}, time.Time{}, false
	}
	return in, out, true
}

func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, ErrInvalidRange):
		response.Error(c, http.StatusBadRequest, "INVALID_RANGE", err.Error())
	case errors.Is(err, ErrAvailabilityUnknown):
		response.Error(c, http.StatusServiceUnavailable, "AVAILABILITY_UNKNOWN", "Cannot determine availability, try again")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check availability")
	}
}
