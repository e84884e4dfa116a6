package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"resortbooking/internal/config"
	"resortbooking/internal/database"
	"resortbooking/internal/domain"
	"resortbooking/internal/pkg/logger"
	"resortbooking/internal/repository"
)

type hotelSeed struct {
	name  string
	city  string
	rooms map[string][]float64
}

var (
	cities     = []string{"Almaty", "Astana", "Shymkent"}
	categories = []string{"Standard Room", "Deluxe Room", "Family Suite", "Mountain Chalet"}
	hotels     = []hotelSeed{
		{name: "Shymbulak Resort", city: "Almaty", rooms: map[string][]float64{
			"Standard Room":   {18000, 18000, 20000},
			"Deluxe Room":     {32000, 35000},
			"Mountain Chalet": {65000},
		}},
		{name: "Medeu Lodge", city: "Almaty", rooms: map[string][]float64{
			"Standard Room": {15000, 15000},
			"Family Suite":  {42000},
		}},
		{name: "Burabay Park Hotel", city: "Astana", rooms: map[string][]float64{
			"Standard Room": {14000, 14000, 16000},
			"Deluxe Room":   {28000},
			"Family Suite":  {39000, 39000},
		}},
		{name: "Ordabasy Inn", city: "Shymkent", rooms: map[string][]float64{
			"Standard Room": {11000, 12000},
			"Deluxe Room":   {22000},
		}},
	}
	amenities = map[string][]string{
		"Standard Room":   {"wifi", "tv"},
		"Deluxe Room":     {"wifi", "tv", "minibar", "balcony"},
		"Family Suite":    {"wifi", "tv", "kitchen", "extra beds"},
		"Mountain Chalet": {"wifi", "fireplace", "sauna", "mountain view"},
	}
)

func main() {
	reset := flag.Bool("reset", true, "delete existing rows before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := logger.New(cfg.LogLevel, cfg.AppEnv)
	if cfg.StoreDriver != "gorm" {
		log.Fatal("seed only supports STORE_DRIVER=gorm")
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}
	log.Info("running migrations")
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("migrate failed")
	}

	if *reset {
		log.Info("cleaning old data")
		for _, table := range []string{"payments", "bookings", "room_holds", "rooms", "room_categories", "hotels", "cities", "uploads", "users"} {
			if err := db.Exec("DELETE FROM " + table).Error; err != nil {
				log.WithError(err).WithField("table", table).Fatal("cleanup failed")
			}
		}
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	catalog := repository.NewCatalogRepository(db)
	bookings := repository.NewBookingRepository(db)
	payments := repository.NewPaymentRepository(db)

	// users
	admin := mustUser(ctx, log, users, "admin@resort.kz", "admin123", "Administrator", domain.RoleAdmin)
	guest := mustUser(ctx, log, users, "guest@resort.kz", "guest123", "Aigerim Sadykova", domain.RoleGuest)

	// catalog
	cityIDs := map[string]string{}
	for _, name := range cities {
		c := &domain.City{Name: name}
		must(log, catalog.CreateCity(ctx, c), "create city")
		cityIDs[name] = c.ID
	}
	categoryIDs := map[string]string{}
	for _, name := range categories {
		c := &domain.RoomCategory{Name: name}
		must(log, catalog.CreateCategory(ctx, c), "create category")
		categoryIDs[name] = c.ID
	}

	var firstRoom string
	roomCount := 0
	for _, hs := range hotels {
		h := &domain.Hotel{Name: hs.name, CityID: cityIDs[hs.city]}
		must(log, catalog.CreateHotel(ctx, h), "create hotel")
		for cat, prices := range hs.rooms {
			for i, price := range prices {
				r := &domain.Room{
					HotelID:    h.ID,
					CategoryID: categoryIDs[cat],
					Price:      price,
					Amenities:  amenities[cat],
					Image:      fmt.Sprintf("/static/rooms/%s-%d.jpg", domain.Slug(cat), i+1),
				}
				must(log, catalog.CreateRoom(ctx, r), "create room")
				if firstRoom == "" {
					firstRoom = r.ID
				}
				roomCount++
			}
		}
	}

	// one confirmed stay next week, so availability has something to exclude
	in := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 7).Add(14 * time.Hour)
	b := &domain.Booking{
		UserID:        guest.ID,
		CheckIn:       in,
		CheckOut:      in.AddDate(0, 0, 3),
		NumGuests:     2,
		RoomIDs:       []string{firstRoom},
		PaymentMethod: "kaspi",
		Status:        domain.BookingConfirmed,
	}
	must(log, bookings.Create(ctx, b), "create booking")
	must(log, payments.Create(ctx, &domain.Payment{
		BookingID:   b.ID,
		Method:      "kaspi",
		TotalAmount: 54000,
		Advance:     21600,
		PaidAmount:  21600,
		Status:      domain.PaymentVerified,
	}), "create payment")

	log.WithFields(logrus.Fields{
		"cities":     len(cities),
		"hotels":     len(hotels),
		"categories": len(categories),
		"rooms":      roomCount,
		"admin":      admin.Email,
		"guest":      guest.Email,
	}).Info("seed completed")
}

func mustUser(ctx context.Context, log *logrus.Logger, users *repository.UserRepository, email, password, name string, role domain.UserRole) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	must(log, err, "hash password")
	u := &domain.User{Email: email, PasswordHash: string(hash), Name: name, Role: role}
	must(log, users.Create(ctx, u), "create user")
	log.WithFields(logrus.Fields{"email": email, "role": role}).Info("user created")
	return u
}

func must(log *logrus.Logger, err error, what string) {
	if err != nil {
		log.WithError(err).Fatal(what)
	}
}
