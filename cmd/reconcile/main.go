package main

import (
	"context"
	"flag"
	"time"

	"github.com/sirupsen/logrus"

	"resortbooking/internal/config"
	"resortbooking/internal/database"
	"resortbooking/internal/domain"
	"resortbooking/internal/modules/availability"
	"resortbooking/internal/modules/booking"
	"resortbooking/internal/pkg/logger"
	"resortbooking/internal/repository"
	"resortbooking/internal/repository/docstore"
)

// reconcile finds bookings whose payment write never landed and drops expired room holds.
// With -cancel the orphaned bookings older than -grace are cancelled.
func main() {
	cancelOrphans := flag.Bool("cancel", false, "cancel orphaned bookings")
	grace := flag.Duration("grace", 30*time.Minute, "minimum age of a booking before it counts as orphaned")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := logger.New(cfg.LogLevel, cfg.AppEnv)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var (
		bookings booking.BookingRepository
		holds    availability.HoldStore
	)
	switch cfg.StoreDriver {
	case "firestore":
		app, err := database.NewFirebaseApp(ctx, cfg.FirebaseCredentialsFile, cfg.FirebaseProjectID)
		if err != nil {
			log.WithError(err).Fatal("firebase init failed")
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			log.WithError(err).Fatal("firestore client failed")
		}
		defer client.Close()
		bookings = docstore.NewBookingRepository(client)
		holds = docstore.NewHoldRepository(client)
	default:
		db, err := database.Connect(cfg.DatabaseURL, log)
		if err != nil {
			log.WithError(err).Fatal("db connect failed")
		}
		bookings = repository.NewBookingRepository(db)
		holds = repository.NewHoldRepository(db)
	}

	svc := booking.NewService(nil, bookings, nil, nil, nil, booking.DefaultPolicy(), log)
	orphans, err := svc.ListOrphanedBookings(ctx)
	if err != nil {
		log.WithError(err).Fatal("listing orphaned bookings failed")
	}

	cancelled := 0
	cutoff := time.Now().Add(-*grace)
	for _, b := range orphans {
		entry := log.WithFields(logrus.Fields{
			"booking_id": b.ID,
			"user_id":    b.UserID,
			"created_at": b.CreatedAt,
			"rooms":      b.RoomIDs,
		})
		if !*cancelOrphans || b.CreatedAt.After(cutoff) {
			entry.Warn("orphaned booking")
			continue
		}
		if err := bookings.UpdateStatus(ctx, b.ID, domain.BookingPending, domain.BookingCancelled); err != nil {
			entry.WithError(err).Error("cancel orphaned booking failed")
			continue
		}
		cancelled++
		entry.Info("orphaned booking cancelled")
	}

	engine := availability.NewService(nil, nil, holds, nil, availability.Options{HoldsEnabled: true}, log)
	purged, err := engine.PurgeExpiredHolds(ctx)
	if err != nil {
		log.WithError(err).Fatal("purging expired holds failed")
	}

	log.WithFields(logrus.Fields{
		"orphaned":      len(orphans),
		"cancelled":     cancelled,
		"holds_expired": purged,
	}).Info("reconcile completed")
}
