package booking

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
	rg.GET("/users/me/bookings", h.MyBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.GET("/bookings/:id/confirmation.pdf", h.ConfirmationPDF)
	rg.POST("/bookings/:id/cancel", h.CancelBooking)
}

// RegisterAdminRoutes expects rg to be admin-only.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings/:id/confirm", h.ConfirmBooking)
	rg.GET("/bookings/orphaned", h.ListOrphaned)
}

func (h *Handler) MyBookings(c *gin.Context) {
	st := middleware.CurrentSession(c)
	list, err := h.service.MyBookings(c.Request.Context(), st.Identity.UserID)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) GetBooking(c *gin.Context) {
	conf, err := h.service.GetConfirmation(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, conf)
}

func (h *Handler) ConfirmationPDF(c *gin.Context) {
	conf, err := h.service.GetConfirmation(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	data, err := RenderConfirmationPDF(conf)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="booking-`+conf.Booking.ID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	b, err := h.service.CancelBooking(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": gin.H{"id": b.ID, "status": b.Status}})
}

func (h *Handler) ConfirmBooking(c *gin.Context) {
	b, err := h.service.ConfirmBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": gin.H{"id": b.ID, "status": b.Status}})
}

func (h *Handler) ListOrphaned(c *gin.Context) {
	list, err := h.service.ListOrphanedBookings(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list, "count": len(list)})
}

func identity(c *gin.Context) domain.Identity {
	return middleware.CurrentSession(c).Identity
}

// WriteError maps booking errors onto the API envelope. The wizard uses it for submit.
func WriteError(c *gin.Context, err error) {
	_ = c.Error(err)

	var orphan *OrphanedBookingError
	switch {
	case errors.As(err, &orphan):
		response.ErrorWithDetails(c, http.StatusBadGateway, "COMMIT_PARTIAL",
			"Your booking was recorded but the payment details were not. Please contact the front desk.",
			gin.H{"bookingId": orphan.BookingID})
	case errors.Is(err, ErrCommitFailed):
		response.Error(c, http.StatusBadGateway, "COMMIT_FAILED", "Could not save your booking, please try again")
	case errors.Is(err, ErrUnauthenticated):
		response.Error(c, http.StatusUnauthorized, "AUTH_REQUIRED", "Authentication required")
	case errors.Is(err, ErrMissingTrip), errors.Is(err, ErrNoRooms), errors.Is(err, domain.ErrInvalidStay):
		response.Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrRoomNotFound):
		response.Error(c, http.StatusConflict, "ROOM_NOT_FOUND", err.Error())
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this booking")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process booking")
	}
}
