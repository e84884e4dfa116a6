package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"resortbooking/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repository_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.User{}, &domain.City{}, &domain.Hotel{}, &domain.RoomCategory{}, &domain.Room{},
		&domain.Booking{}, &domain.Payment{}, &domain.RoomHold{}, &domain.Upload{},
	); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return db
}

func TestCatalogRepositoryRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	city := &domain.City{Name: "Almaty"}
	require.NoError(t, repo.CreateCity(ctx, city))
	hotel := &domain.Hotel{Name: "Mountain Lodge", CityID: city.ID}
	require.NoError(t, repo.CreateHotel(ctx, hotel))
	cat := &domain.RoomCategory{Name: "Deluxe Room"}
	require.NoError(t, repo.CreateCategory(ctx, cat))

	room := &domain.Room{HotelID: hotel.ID, CategoryID: cat.ID, Price: 10000, Amenities: []string{"wifi", "wifi", "pool"}}
	require.NoError(t, repo.CreateRoom(ctx, room))
	assert.NotEmpty(t, room.ID)

	rooms, err := repo.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, []string{"pool", "wifi"}, rooms[0].Amenities)

	byID, err := repo.GetRoomsByIDs(ctx, []string{room.ID, "missing"})
	require.NoError(t, err)
	assert.Len(t, byID, 1)

	none, err := repo.GetRoomsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBookingRepositoryListStaysFiltersByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()
	in := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	confirmed := &domain.Booking{UserID: "u1", CheckIn: in, CheckOut: in.Add(48 * time.Hour), NumGuests: 2, RoomIDs: []string{"r1", "r2"}, Status: domain.BookingConfirmed}
	pending := &domain.Booking{UserID: "u2", CheckIn: in, CheckOut: in.Add(48 * time.Hour), NumGuests: 1, RoomIDs: []string{"r3"}, Status: domain.BookingPending}
	require.NoError(t, repo.Create(ctx, confirmed))
	require.NoError(t, repo.Create(ctx, pending))

	stays, err := repo.ListStays(ctx, []domain.BookingStatus{domain.BookingConfirmed})
	require.NoError(t, err)
	require.Len(t, stays, 1)
	assert.Equal(t, confirmed.ID, stays[0].BookingID)
	assert.Equal(t, []string{"r1", "r2"}, stays[0].RoomIDs)
	checkIn, ok := stays[0].CheckIn.(time.Time)
	require.True(t, ok)
	assert.True(t, checkIn.Equal(in))

	both, err := repo.ListStays(ctx, []domain.BookingStatus{domain.BookingConfirmed, domain.BookingPending})
	require.NoError(t, err)
	assert.Len(t, both, 2)
}

func TestBookingRepositoryUpdateStatusIsConditional(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()
	in := time.Now().Add(24 * time.Hour)

	b := &domain.Booking{UserID: "u1", CheckIn: in, CheckOut: in.Add(24 * time.Hour), NumGuests: 1, RoomIDs: []string{"r1"}, Status: domain.BookingPending}
	require.NoError(t, repo.Create(ctx, b))

	require.NoError(t, repo.UpdateStatus(ctx, b.ID, domain.BookingPending, domain.BookingConfirmed))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, b.ID, domain.BookingPending, domain.BookingConfirmed), ErrConflict)

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransactorRollsBackBothWrites(t *testing.T) {
	db := setupTestDB(t)
	bookings := NewBookingRepository(db)
	payments := NewPaymentRepository(db)
	tx := NewTransactor(db)
	ctx := context.Background()
	in := time.Now().Add(24 * time.Hour)

	boom := errors.New("payment write failed")
	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		b := &domain.Booking{UserID: "u1", CheckIn: in, CheckOut: in.Add(24 * time.Hour), NumGuests: 1, RoomIDs: []string{"r1"}, Status: domain.BookingPending}
		if err := bookings.Create(ctx, b); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var cnt int64
	require.NoError(t, db.Model(&domain.Booking{}).Count(&cnt).Error)
	assert.Zero(t, cnt)

	err = tx.WithinTx(ctx, func(ctx context.Context) error {
		b := &domain.Booking{UserID: "u1", CheckIn: in, CheckOut: in.Add(24 * time.Hour), NumGuests: 1, RoomIDs: []string{"r1"}, Status: domain.BookingPending}
		if err := bookings.Create(ctx, b); err != nil {
			return err
		}
		return payments.Create(ctx, &domain.Payment{BookingID: b.ID, Method: "kaspi", TotalAmount: 100, Advance: 40, Status: domain.PaymentPending})
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&domain.Payment{}).Count(&cnt).Error)
	assert.Equal(t, int64(1), cnt)
}

func TestListWithoutPayment(t *testing.T) {
	db := setupTestDB(t)
	bookings := NewBookingRepository(db)
	payments := NewPaymentRepository(db)
	ctx := context.Background()
	in := time.Now().Add(24 * time.Hour)

	paid := &domain.Booking{UserID: "u1", CheckIn: in, CheckOut: in.Add(24 * time.Hour), NumGuests: 1, RoomIDs: []string{"r1"}, Status: domain.BookingPending}
	orphan := &domain.Booking{UserID: "u1", CheckIn: in, CheckOut: in.Add(24 * time.Hour), NumGuests: 1, RoomIDs: []string{"r2"}, Status: domain.BookingPending}
	require.NoError(t, bookings.Create(ctx, paid))
	require.NoError(t, bookings.Create(ctx, orphan))
	require.NoError(t, payments.Create(ctx, &domain.Payment{BookingID: paid.ID, Method: "card", Status: domain.PaymentPending}))

	out, err := bookings.ListWithoutPayment(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, orphan.ID, out[0].ID)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{Email: " Guest@Resort.test ", Role: domain.RoleGuest}))
	err := repo.Create(ctx, &domain.User{Email: "guest@resort.test", Role: domain.RoleGuest})
	assert.ErrorIs(t, err, ErrDuplicate)

	exists, err := repo.ExistsByEmail(ctx, "GUEST@resort.test")
	require.NoError(t, err)
	assert.True(t, exists)

	u, err := repo.GetByEmail(ctx, "guest@resort.test")
	require.NoError(t, err)
	assert.Equal(t, "guest@resort.test", u.Email)
}

func TestHoldRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHoldRepository(db)
	ctx := context.Background()
	now := time.Now()
	in := now.Add(24 * time.Hour)

	require.NoError(t, repo.Replace(ctx, "w1", []domain.RoomHold{
		{RoomID: "r1", UserID: "u1", HolderID: "w1", CheckIn: in, CheckOut: in.Add(24 * time.Hour), ExpiresAt: now.Add(time.Minute)},
	}))
	require.NoError(t, repo.Replace(ctx, "w2", []domain.RoomHold{
		{RoomID: "r2", UserID: "u2", HolderID: "w2", CheckIn: in, CheckOut: in.Add(24 * time.Hour), ExpiresAt: now.Add(-time.Minute)},
	}))

	active, err := repo.ListActive(ctx, now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "r1", active[0].RoomID)

	require.NoError(t, repo.Replace(ctx, "w1", []domain.RoomHold{
		{RoomID: "r3", UserID: "u1", HolderID: "w1", CheckIn: in, CheckOut: in.Add(24 * time.Hour), ExpiresAt: now.Add(time.Minute)},
	}))
	active, err = repo.ListActive(ctx, now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "r3", active[0].RoomID)

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repo.DeleteByHolder(ctx, "w1"))
	active, err = repo.ListActive(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestHoldRepositoryKeepsOtherWizardsOfSameUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHoldRepository(db)
	ctx := context.Background()
	now := time.Now()
	in := now.Add(24 * time.Hour)

	require.NoError(t, repo.Replace(ctx, "w1", []domain.RoomHold{
		{RoomID: "r1", UserID: "u1", HolderID: "w1", CheckIn: in, CheckOut: in.Add(24 * time.Hour), ExpiresAt: now.Add(time.Minute)},
	}))
	require.NoError(t, repo.Replace(ctx, "w2", []domain.RoomHold{
		{RoomID: "r2", UserID: "u1", HolderID: "w2", CheckIn: in, CheckOut: in.Add(24 * time.Hour), ExpiresAt: now.Add(time.Minute)},
	}))

	active, err := repo.ListActive(ctx, now)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestListStaysSurfacesBackendError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT .* FROM "bookings"`).WillReturnError(errors.New("connection reset"))

	_, err = NewBookingRepository(db).ListStays(context.Background(), []domain.BookingStatus{domain.BookingConfirmed})
	assert.EqualError(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
