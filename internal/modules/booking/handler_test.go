package booking

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"resortbooking/internal/domain"
)

func TestWriteErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err  error
		code int
		want string
	}{
		{&OrphanedBookingError{BookingID: "b1", Err: errors.New("x")}, http.StatusBadGateway, "COMMIT_PARTIAL"},
		{&CommitError{Stage: "booking", Err: errors.New("x")}, http.StatusBadGateway, "COMMIT_FAILED"},
		{ErrNoRooms, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{domain.ErrInvalidStay, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{fmt.Errorf("%w: r9", ErrRoomNotFound), http.StatusConflict, "ROOM_NOT_FOUND"},
		{ErrBookingNotFound, http.StatusNotFound, "NOT_FOUND"},
		{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{ErrInvalidTransition, http.StatusConflict, "INVALID_STATUS"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		WriteError(c, tc.err)
		assert.Equal(t, tc.code, w.Code, tc.want)
		assert.Contains(t, w.Body.String(), tc.want)
	}
}
