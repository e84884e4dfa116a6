package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	assert.Equal(t, "deluxe-room", Slug("Deluxe Room"))
	assert.Equal(t, "deluxe-room", Slug("  Deluxe \t  Room "))
	assert.Equal(t, "family-suite-ocean-view", Slug("Family Suite  Ocean View"))
	assert.Equal(t, "", Slug("   "))
}

func TestSlugIdempotent(t *testing.T) {
	for _, name := range []string{"Deluxe Room", "Standard", "Presidential  Suite", "deluxe-room"} {
		once := Slug(name)
		assert.Equal(t, once, Slug(once), name)
	}
}

func TestAmenitySet(t *testing.T) {
	got := AmenitySet([]string{"wifi", " pool ", "wifi", "", "air conditioning"})
	assert.Equal(t, []string{"air conditioning", "pool", "wifi"}, got)
	assert.Empty(t, AmenitySet(nil))
}

func TestBookingValidate(t *testing.T) {
	in := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	b := &Booking{CheckIn: in, CheckOut: in.Add(48 * time.Hour), NumGuests: 2, RoomIDs: []string{"r1"}}
	assert.NoError(t, b.Validate())

	b.CheckOut = in
	assert.ErrorIs(t, b.Validate(), ErrInvalidStay)

	b.CheckOut = in.Add(time.Hour)
	b.NumGuests = 0
	assert.Error(t, b.Validate())

	b.NumGuests = 1
	b.RoomIDs = nil
	assert.Error(t, b.Validate())
}

func TestWizardFormStateCloneIsDeep(t *testing.T) {
	in := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	f := WizardFormState{}
	f.FirstStep.CheckInDate = &in
	f.SecondStep.SelectedRooms = []string{"a"}

	c := f.Clone()
	c.SecondStep.SelectedRooms[0] = "b"
	*c.FirstStep.CheckInDate = in.Add(time.Hour)

	assert.Equal(t, "a", f.SecondStep.SelectedRooms[0])
	assert.Equal(t, in, *f.FirstStep.CheckInDate)
}

func TestRoomHoldActiveAt(t *testing.T) {
	now := time.Now()
	h := RoomHold{ExpiresAt: now.Add(time.Minute)}
	assert.True(t, h.ActiveAt(now))
	assert.False(t, h.ActiveAt(now.Add(2*time.Minute)))
}
