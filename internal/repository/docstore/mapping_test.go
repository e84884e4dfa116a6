package docstore

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"resortbooking/internal/domain"
	"resortbooking/internal/repository"
)

func TestStayFromDataKeepsRawDates(t *testing.T) {
	stay := stayFromData("b1", map[string]any{
		"status":       "Confirmed",
		"roomIds":      []any{"r1", "", "r2", 7},
		"checkInDate":  int64(1736499600),
		"checkOutDate": "2025-01-12T09:00:00Z",
	})

	assert.Equal(t, "b1", stay.BookingID)
	assert.Equal(t, domain.BookingConfirmed, stay.Status)
	assert.Equal(t, []string{"r1", "r2"}, stay.RoomIDs)
	assert.Equal(t, int64(1736499600), stay.CheckIn)
	assert.Equal(t, "2025-01-12T09:00:00Z", stay.CheckOut)
}

func TestStayFromDataLegacySingleRoom(t *testing.T) {
	stay := stayFromData("b2", map[string]any{"status": "Confirmed", "roomId": "r9"})
	assert.Equal(t, []string{"r9"}, stay.RoomIDs)
	assert.Nil(t, stay.CheckIn)
}

func TestBookingRoundTrip(t *testing.T) {
	in := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	b := &domain.Booking{
		UserID: "u1", CheckIn: in, CheckOut: in.Add(72 * time.Hour), NumGuests: 2,
		RoomIDs: []string{"r1"}, PaymentMethod: "kaspi", Status: domain.BookingPending, CreatedAt: in,
	}
	got := bookingFromData("b1", bookingToData(b))

	assert.Equal(t, "b1", got.ID)
	assert.Equal(t, b.UserID, got.UserID)
	assert.True(t, got.CheckIn.Equal(b.CheckIn))
	assert.True(t, got.CheckOut.Equal(b.CheckOut))
	assert.Equal(t, 2, got.NumGuests)
	assert.Equal(t, b.RoomIDs, got.RoomIDs)
	assert.Equal(t, domain.BookingPending, got.Status)
}

func TestPaymentReceiptOptional(t *testing.T) {
	p := &domain.Payment{BookingID: "b1", Method: "transfer", TotalAmount: 30000, Advance: 12000, Status: domain.PaymentPending}
	data := paymentToData(p)
	assert.Nil(t, data["receipt"])
	assert.Nil(t, paymentFromData("p1", data).ReceiptRef)

	ref := "upload-1"
	p.ReceiptRef = &ref
	got := paymentFromData("p1", paymentToData(p))
	if assert.NotNil(t, got.ReceiptRef) {
		assert.Equal(t, "upload-1", *got.ReceiptRef)
	}
	assert.Equal(t, 12000.0, got.Advance)
}

func TestRoomFromDataNumericPrice(t *testing.T) {
	r := roomFromData("r1", map[string]any{
		"hotelId": "h1", "categoryId": "c1", "price": int64(15000),
		"amenities": []any{"wifi", "pool", "wifi"},
	})
	assert.Equal(t, 15000.0, r.Price)
	assert.Equal(t, []string{"pool", "wifi"}, r.Amenities)
}

func TestTranslate(t *testing.T) {
	assert.Nil(t, translate(nil))
	assert.ErrorIs(t, translate(status.Error(codes.NotFound, "gone")), repository.ErrNotFound)
	assert.ErrorIs(t, translate(status.Error(codes.AlreadyExists, "dup")), repository.ErrDuplicate)
	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}
