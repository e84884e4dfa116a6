package wizard

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resortbooking/internal/domain"
	"resortbooking/internal/middleware"
	"resortbooking/internal/modules/availability"
	"resortbooking/internal/modules/booking"
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
	g := rg.Group("/wizard")
	g.POST("", h.Start)
	g.GET("/:id", h.Get)
	g.PATCH("/:id/trip", h.UpdateTrip)
	g.PATCH("/:id/rooms", h.UpdateRooms)
	g.PATCH("/:id/payment", h.UpdatePayment)
	g.POST("/:id/next", h.Next)
	g.POST("/:id/back", h.Back)
	g.GET("/:id/rooms", h.CandidateRooms)
	g.POST("/:id/submit", h.Submit)
	g.DELETE("/:id", h.Discard)
}

func owner(c *gin.Context) domain.Identity {
	return middleware.CurrentSession(c).Identity
}

func (h *Handler) Start(c *gin.Context) {
	var link DeepLink
	_ = c.ShouldBindQuery(&link)
	if c.Request.ContentLength > 0 {
		var body DeepLink
		if err := c.ShouldBindJSON(&body); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}
		if body.Room != "" {
			link.Room = body.Room
		}
		if body.Category != "" {
			link.Category = body.Category
		}
		if body.City != "" {
			link.City = body.City
		}
	}

	v, err := h.service.Start(c.Request.Context(), owner(c), link)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"wizard": v})
}

func (h *Handler) Get(c *gin.Context) {
	v, err := h.service.Get(c.Request.Context(), owner(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"wizard": v})
}

func (h *Handler) UpdateTrip(c *gin.Context) {
	var req TripPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	v, err := h.service.UpdateTrip(c.Request.Context(), owner(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"wizard": v})
}

func (h *Handler) UpdateRooms(c *gin.Context) {
	var req RoomsPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	v, err := h.service.UpdateRooms(c.Request.Context(), owner(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"wizard": v})
}

func (h *Handler) UpdatePayment(c *gin.Context) {
	var req PaymentPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	v, err := h.service.UpdatePayment(c.Request.Context(), owner(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"wizard": v})
}

func (h *Handler) Next(c *gin.Context) {
	v, err := h.service.Next(c.Request.Context(), owner(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"wizard": v})
}

func (h *Handler) Back(c *gin.Context) {
	v, err := h.service.Back(c.Request.Context(), owner(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"wizard": v})
}

func (h *Handler) CandidateRooms(c *gin.Context) {
	rooms, err := h.service.CandidateRooms(c.Request.Context(), owner(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

func (h *Handler) Submit(c *gin.Context) {
	res, err := h.service.Submit(c.Request.Context(), owner(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

func (h *Handler) Discard(c *gin.Context) {
	if err := h.service.Discard(c.Request.Context(), owner(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error) {
	var fault *ValidationFault
	var unavailable *availability.UnavailableError
	var orphan *booking.OrphanedBookingError

	switch {
	case errors.As(err, &fault):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fault.Message, gin.H{
			"step":   int(fault.Step),
			"fields": fault.Fields,
		})
	case errors.Is(err, ErrWizardNotFound):
		response.Error(c, http.StatusNotFound, "WIZARD_NOT_FOUND", "Booking session expired, please start again")
	case errors.Is(err, ErrSubmitted):
		response.Error(c, http.StatusConflict, "ALREADY_SUBMITTED", err.Error())
	case errors.Is(err, ErrWrongStep):
		response.Error(c, http.StatusConflict, "WRONG_STEP", err.Error())
	case errors.Is(err, ErrStaleResult):
		response.Error(c, http.StatusConflict, "STALE_RESULT", "Your trip changed while rooms were loading, please reload")
	case errors.As(err, &unavailable):
		_ = c.Error(err)
		response.ErrorWithDetails(c, http.StatusConflict, "ROOMS_UNAVAILABLE", "Some selected rooms were just taken", gin.H{
			"roomIds": unavailable.RoomIDs,
		})
	case errors.As(err, &orphan):
		booking.WriteError(c, err)
	case errors.Is(err, context.DeadlineExceeded):
		_ = c.Error(err)
		response.Error(c, http.StatusGatewayTimeout, "BACKEND_TIMEOUT", "The server took too long to answer, please try again")
	case errors.Is(err, availability.ErrAvailabilityUnknown):
		_ = c.Error(err)
		response.Error(c, http.StatusServiceUnavailable, "AVAILABILITY_UNKNOWN", "Cannot determine availability, try again")
	default:
		booking.WriteError(c, err)
	}
}
