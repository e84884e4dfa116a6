package availability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resortbooking/internal/domain"
	"resortbooking/internal/modules/catalog"
	"resortbooking/internal/modules/session"
	applog "resortbooking/internal/pkg/logger"
)

func setupRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestHandlerRoomAvailability(t *testing.T) {
	svc := NewService(confirmedJan10to12(), stubRooms{}, nil, nil, Options{}, applog.Discard())
	r := setupRouter(svc)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet,
		"/api/v1/rooms/r1/availability?check_in=2025-01-12T09:00:00Z&check_out=2025-01-14T09:00:00Z", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var env struct {
		Data struct {
			RoomID    string `json:"roomId"`
			Available bool   `json:"available"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "r1", env.Data.RoomID)
	assert.True(t, env.Data.Available)
}

func TestHandlerListAvailableByCategoryAndCity(t *testing.T) {
	rooms := stubRooms{rooms: []catalog.RoomView{
		{ID: "r1", CategoryID: "k1", CityID: "c1"},
		{ID: "r5", CategoryID: "k1", CityID: "c1"},
	}}
	r := setupRouter(NewService(confirmedJan10to12(), rooms, nil, nil, Options{}, applog.Discard()))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet,
		"/api/v1/availability?check_in=2025-01-11&check_out=2025-01-13&category_id=k1&city_id=c1", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var env struct {
		Data struct {
			Rooms []catalog.RoomView `json:"rooms"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Len(t, env.Data.Rooms, 1)
	assert.Equal(t, "r5", env.Data.Rooms[0].ID)
}

func TestHandlerErrors(t *testing.T) {
	failing := NewService(&stubBookings{err: errors.New("down")}, stubRooms{rooms: []catalog.RoomView{{ID: "r1"}}}, nil, nil, Options{}, applog.Discard())
	r := setupRouter(failing)

	cases := []struct {
		path string
		code int
		err  string
	}{
		{"/api/v1/availability", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"/api/v1/availability?check_in=2025-01-12&check_out=2025-01-11", http.StatusBadRequest, "INVALID_RANGE"},
		{"/api/v1/availability?check_in=2025-01-11&check_out=2025-01-12", http.StatusServiceUnavailable, "AVAILABILITY_UNKNOWN"},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
		assert.Equal(t, tc.code, rr.Code, tc.path)
		assert.Contains(t, rr.Body.String(), tc.err, tc.path)
	}
}

type stubAuth struct{}

func (stubAuth) Authenticate(_ context.Context, token string) (session.State, error) {
	if token != "valid" {
		return session.AnonymousState(), errors.New("invalid")
	}
	return session.State{Status: session.Authenticated, Identity: domain.Identity{UserID: "u1"}}, nil
}

func TestWebSocketReceivesEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	defer hub.Close()

	r := gin.New()
	r.GET("/ws/availability", NewWSHandler(hub, stubAuth{}, applog.Discard()).HandleWebSocket)
	srv := httptest.NewServer(r)
	defer srv.Close()

	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/availability"

	_, resp, err := websocket.DefaultDialer.Dial(base+"?token=nope", nil)
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	conn, _, err := websocket.DefaultDialer.Dial(base+"?token=valid", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.GetOnlineCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(Event{Type: EventBookingConfirmed, RoomIDs: []string{"r1"}, BookingID: "b1"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, EventBookingConfirmed, ev.Type)
	assert.Equal(t, []string{"r1"}, ev.RoomIDs)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	var pong map[string]string
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, "pong", pong["type"])
}

func TestHubWithoutConnections(t *testing.T) {
	hub := NewHub()
	assert.Equal(t, 0, hub.GetOnlineCount())
	assert.Equal(t, 0, hub.Broadcast(Event{}))
}

func TestBroadcastDoesNotWaitForStalledClient(t *testing.T) {
	hub := NewHub()
	stalled := newClient(nil)
	hub.connections["slow"] = stalled

	for i := 0; i < sendBuffer; i++ {
		require.Equal(t, 1, hub.Broadcast(Event{Type: EventHoldPlaced}))
	}

	queued := make(chan int, 1)
	go func() { queued <- hub.Broadcast(Event{Type: EventHoldPlaced}) }()
	select {
	case n := <-queued:
		assert.Equal(t, 0, n)
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a full client queue")
	}

	hub.Unregister("slow", stalled)
	assert.Equal(t, 0, hub.GetOnlineCount())
	assert.False(t, stalled.enqueue(Event{}))
}
