package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"resortbooking/internal/pkg/logger"
)

type roomsEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Rooms []RoomView `json:"rooms"`
	} `json:"data"`
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func setupRouter(repo Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewService(repo, logger.Discard())).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func getRooms(t *testing.T, r http.Handler, path string) (int, roomsEnvelope) {
	t.Helper()
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	var env roomsEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return rr.Code, env
}

func TestHandlerListRoomsByCategory(t *testing.T) {
	r := setupRouter(seededRepo())

	code, env := getRooms(t, r, "/api/v1/rooms?category=family-suite")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	require.Len(t, env.Data.Rooms, 1)
	assert.Equal(t, "r2", env.Data.Rooms[0].ID)
	assert.Equal(t, "Almaty", env.Data.Rooms[0].CityName)
}

func TestHandlerListRoomsByIDs(t *testing.T) {
	r := setupRouter(seededRepo())

	code, env := getRooms(t, r, "/api/v1/rooms?ids=r1,r4")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, env.Data.Rooms, 2)

	code, env = getRooms(t, r, "/api/v1/rooms?ids=")
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, env.Data.Rooms)
}

func TestHandlerCatalogUnavailable(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListCities", mock.Anything).Return(nil, errors.New("down"))
	r := setupRouter(repo)

	code, env := getRooms(t, r, "/api/v1/rooms")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, env.Success)
	assert.Equal(t, "CATALOG_UNAVAILABLE", env.Error.Code)
}

func TestHandlerListCategories(t *testing.T) {
	r := setupRouter(seededRepo())
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var env struct {
		Data struct {
			Categories []CategoryView `json:"categories"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Len(t, env.Data.Categories, 2)
	assert.Equal(t, "deluxe-room", env.Data.Categories[0].Slug)
}
