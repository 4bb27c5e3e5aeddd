package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"booking-calendar/config"
	"booking-calendar/controllers"
	"booking-calendar/middleware"
	"booking-calendar/models"
	"booking-calendar/routes"
	"booking-calendar/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ config: %v", err)
	}

	auth := middleware.NewAuthenticator(nil, "", models.CompanyID(cfg.DefaultCompanyID))
	if cfg.AuthEnabled() {
		kf, err := middleware.NewCognitoKeyfunc(cfg.CognitoRegion, cfg.CognitoPoolID)
		if err != nil {
			log.Fatalf("❌ Cognito JWKS: %v", err)
		}
		issuer := middleware.CognitoIssuer(cfg.CognitoRegion, cfg.CognitoPoolID)
		auth = middleware.NewAuthenticator(kf, issuer, models.CompanyID(cfg.DefaultCompanyID))
		log.Printf("✅ Verifying access tokens from %s", issuer)
	}

	clock := services.NewSystemClock()
	var ctl routes.Controllers

	if cfg.ServesStore() {
		if err := config.ConnectDatabase(cfg.DBSeed); err != nil {
			log.Fatalf("❌ Database connect failed: %v", err)
		}
		log.Println("✅ Database connection established and migrations applied.")

		var locks services.RoomLocker = services.NewLocalRoomLocker()
		if cfg.RedisURL != "" {
			client, err := services.NewRedisClient(cfg.RedisURL)
			if err != nil {
				log.Fatalf("❌ Redis: %v", err)
			}
			locks = services.NewRedisRoomLocker(client)
			log.Println("🔧 Room locks shared through Redis")
		}

		catalog := services.NewGormCatalogRepository(config.DB)
		reservations := services.NewGormReservationRepository(config.DB)
		ctl.Catalog = controllers.NewCatalogController(services.NewCatalogService(catalog))
		ctl.Reservations = controllers.NewReservationController(
			services.NewReservationService(reservations, catalog, locks, clock),
		)
	}

	var sessions *services.SessionStore
	if cfg.ServesCalendar() {
		store := services.NewStoreClient(cfg.StoreURL, cfg.StoreTimeout)
		sessions = services.NewSessionStore(store, clock, cfg.SessionTTL)
		defer sessions.Close()
		ctl.Calendar = controllers.NewCalendarController(sessions)
		log.Printf("✅ Calendar talks to reservation store at %s", cfg.StoreURL)
	}

	router := routes.SetupRouter(ctl, auth, cfg.CORSOrigins)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server (%s) starting on %s", cfg.Mode, addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
