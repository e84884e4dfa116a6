package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"resortbooking/internal/config"
	"resortbooking/internal/database"
	"resortbooking/internal/middleware"
	"resortbooking/internal/modules/auth"
	"resortbooking/internal/modules/availability"
	"resortbooking/internal/modules/booking"
	"resortbooking/internal/modules/catalog"
	"resortbooking/internal/modules/session"
	"resortbooking/internal/modules/upload"
	"resortbooking/internal/modules/wizard"
	jwtsvc "resortbooking/internal/pkg/jwt"
	"resortbooking/internal/pkg/logger"
	"resortbooking/internal/repository"
	"resortbooking/internal/repository/docstore"
)

// stores bundles one backend's implementations of every repository contract.
type stores struct {
	users    auth.UserRepository
	catalog  interface {
		catalog.Repository
		booking.RoomRepository
	}
	bookings interface {
		booking.BookingRepository
		availability.BookingReader
	}
	payments booking.PaymentRepository
	holds    availability.HoldStore
	uploads  upload.Repository
	tx       booking.Transactor
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := logger.New(cfg.LogLevel, cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	var fbClients *firebaseClients
	if cfg.StoreDriver == "firestore" || cfg.AuthProvider == "firebase" {
		c, err := newFirebaseClients(ctx, cfg)
		if err != nil {
			return err
		}
		fbClients = c
	}

	st, err := openStores(ctx, cfg, log, fbClients)
	if err != nil {
		return err
	}
	defer st.close()

	// identity
	jwt := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	authService := auth.NewService(st.users, jwt, log)
	if cfg.AuthProvider == "firebase" {
		authService.UseVerifier(auth.NewFirebaseVerifier(fbClients.auth))
	}
	gate := session.NewGate(authService, log)
	authService.OnAuthStateChange(gate.HandleChange)

	// catalog and availability
	hub := availability.NewHub()
	defer hub.Close()

	catalogService := catalog.NewService(st.catalog, log)
	availabilityService := availability.NewService(st.bookings, catalogService, st.holds, hub, availability.Options{
		PendingBlocks: cfg.PendingBlocksAvailability,
		HoldsEnabled:  cfg.RoomHoldsEnabled,
		HoldTTL:       cfg.RoomHoldTTL,
	}, log)

	// booking
	bookingService := booking.NewService(st.catalog, st.bookings, st.payments, st.tx, hub, booking.Policy{
		AdvanceRate:   cfg.AdvanceRate,
		MinStayNights: cfg.MinStayNights,
	}, log)

	wizardStore := wizard.NewStore(cfg.WizardTTL)
	wizardService := wizard.NewService(wizardStore, catalogService, availabilityService, bookingService, cfg.BackendTimeout, log)
	uploadService := upload.NewService(st.uploads, cfg.UploadsDir, log)

	go wizardStore.RunJanitor(ctx, time.Minute, wizardService.ExpireIdle)
	if cfg.RoomHoldsEnabled {
		go availabilityService.RunHoldJanitor(ctx, time.Minute)
	}

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(log),
		middleware.RequestLogger(log),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.ClientKey(cfg.IsProdLike()),
		middleware.ResolveSession(gate),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "online": hub.GetOnlineCount()})
	})
	r.GET("/ws/availability", availability.NewWSHandler(hub, gate, log).HandleWebSocket)

	v1 := r.Group("/api/v1")
	{
		// public
		auth.NewHandler(authService, gate).RegisterRoutes(v1)
		catalog.NewHandler(catalogService).RegisterRoutes(v1)
		availability.NewHandler(availabilityService).RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.RequireSession(gate))
		{
			wizard.NewHandler(wizardService).RegisterRoutes(protected)
			booking.NewHandler(bookingService).RegisterRoutes(protected)
			upload.NewHandler(uploadService).RegisterRoutes(protected)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.RequireSession(gate), middleware.AdminOnly())
		{
			booking.NewHandler(bookingService).RegisterAdminRoutes(admin)
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":  cfg.Addr,
			"store": cfg.StoreDriver,
			"auth":  cfg.AuthProvider,
		}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config, log *logrus.Logger, fb *firebaseClients) (*stores, error) {
	if cfg.StoreDriver == "firestore" {
		return firestoreStores(fb.store), nil
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db.WithContext(ctx)); err != nil {
		return nil, err
	}
	return &stores{
		users:    repository.NewUserRepository(db),
		catalog:  repository.NewCatalogRepository(db),
		bookings: repository.NewBookingRepository(db),
		payments: repository.NewPaymentRepository(db),
		holds:    repository.NewHoldRepository(db),
		uploads:  repository.NewUploadRepository(db),
		tx:       repository.NewTransactor(db),
		close: func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		},
	}, nil
}

func firestoreStores(client *firestore.Client) *stores {
	return &stores{
		users:    docstore.NewUserRepository(client),
		catalog:  docstore.NewCatalogRepository(client),
		bookings: docstore.NewBookingRepository(client),
		payments: docstore.NewPaymentRepository(client),
		holds:    docstore.NewHoldRepository(client),
		uploads:  docstore.NewUploadRepository(client),
		tx:       docstore.NewTransactor(client),
		close:    func() { _ = client.Close() },
	}
}
