package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"lawncare-backend/internal/config"
	"lawncare-backend/internal/database"
	"lawncare-backend/internal/events"
	"lawncare-backend/internal/handlers"
	"lawncare-backend/internal/metrics"
	"lawncare-backend/internal/middleware"
	"lawncare-backend/internal/models"
	"lawncare-backend/internal/services"
	"lawncare-backend/internal/services/directions"
	"lawncare-backend/internal/services/raindelay"
	"lawncare-backend/internal/services/reminders"
	"lawncare-backend/internal/services/weather"
	"lawncare-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 LAWNCARE BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ FATAL ERROR: config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ FATAL ERROR: invalid config: %v", err)
	}
	loc, _ := cfg.Location()
	log.Printf("🕒 Business timezone: %s", loc)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Database connection failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	defer db.Close()

	log.Println("🔄 Running database migrations...")
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("❌ FATAL ERROR: Database migrations failed: %v", err)
	}

	if err := database.SeedBusinessProfile(ctx, db, cfg.BusinessName, cfg.BusinessAddress); err != nil {
		log.Fatalf("❌ FATAL ERROR: Business profile seeding failed: %v", err)
	}
	if cfg.SeedDemo {
		if err := database.SeedDemo(ctx, db, time.Now().In(loc)); err != nil {
			log.Fatalf("❌ FATAL ERROR: Demo seeding failed: %v", err)
		}
	}

	store := database.NewStore(db)
	metrics.RegisterDefault()

	// Firebase Cloud Messaging
	// Supports both file path and base64-encoded credentials (for cloud deployments)
	var fcmService *services.FCMService
	if cfg.FirebaseCredentialsBase64 != "" {
		fcmService, err = services.NewFCMServiceFromBase64(cfg.FirebaseCredentialsBase64, store)
	} else {
		fcmService, err = services.NewFCMService(cfg.FirebaseCredentialsFile, store)
	}
	if err != nil {
		log.Printf("⚠️  Failed to initialize FCM: %v (push notifications disabled)", err)
		fcmService = nil
	} else {
		log.Println("✅ Firebase Cloud Messaging initialized")
	}

	// Event fan-out: dispatcher websocket feed, then Redis and RabbitMQ when configured
	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)
	log.Println("✅ WebSocket hub started")

	publishers := events.Multi{wsHub}
	if cfg.RedisURL != "" {
		redisPub, err := events.NewRedisPublisher(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis publisher disabled: %v", err)
		} else {
			defer redisPub.Close()
			publishers = append(publishers, redisPub)
			log.Println("✅ Redis event publisher ready")
		}
	}
	if cfg.RabbitMQURL != "" {
		rabbitPub, err := events.NewRabbitPublisher(cfg.RabbitMQURL, events.DefaultExchange)
		if err != nil {
			log.Printf("⚠️  RabbitMQ publisher disabled: %v", err)
		} else {
			defer rabbitPub.Close()
			publishers = append(publishers, rabbitPub)
			log.Println("✅ RabbitMQ event publisher ready")
		}
	}

	// Route estimation
	var estimateRoute http.HandlerFunc
	if google, err := directions.NewGoogleClient(cfg.GoogleMapsAPIKey, cfg.DirectionsBaseURL, nil); err != nil {
		log.Printf("⚠️  Route estimation disabled: %v", err)
		estimateRoute = handlers.Unavailable("route estimation")
	} else {
		estimateRoute = handlers.EstimateRoute(directions.NewEstimator(google), store)
	}

	geocodeCustomers := handlers.Unavailable("customer geocoding")
	if geocoder, err := services.NewGeocodingService(cfg.GoogleMapsAPIKey, "", nil); err == nil {
		geocodeCustomers = handlers.GeocodeCustomers(geocoder, store)
	}

	// Forecast refresh
	var refreshWeather http.HandlerFunc
	if owm, err := weather.NewOpenWeatherClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, nil); err != nil {
		log.Printf("⚠️  Forecast refresh disabled: %v", err)
		refreshWeather = handlers.Unavailable("forecast refresh")
	} else {
		refresher := weather.NewRefresher(store, owm, loc)
		go refresher.Run(ctx, cfg.WeatherRefreshInterval)
		refreshWeather = handlers.RefreshWeather(refresher)
	}

	// Rain delays
	deps := raindelay.Deps{
		Services:  store,
		Forecasts: store,
		Updater:   store,
		History:   store,
		Publisher: publishers,
		Location:  loc,
	}
	if fcmService != nil {
		deps.Notifier = fcmService
	}
	scheduler := raindelay.NewScheduler(deps)
	go scheduler.Run(ctx, cfg.AutoDelayInterval)

	// Job reminders
	runReminders := handlers.Unavailable("push notifications")
	if fcmService != nil {
		reminderService := reminders.New(store, fcmService, loc)
		go reminderService.Loop(ctx, cfg.ReminderInterval)
		runReminders = handlers.RunReminders(reminderService)
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Metrics)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", handlers.Health(db))
	r.Handle("/metrics", metrics.Handler())

	// WebSocket endpoint (authentication handled in handler via query param or header)
	r.Get("/ws", websocket.HandleWebSocket(wsHub, cfg.JWTSecret))

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(limiter.Middleware)

		r.Get("/auth/status", handlers.GetAuthStatus())
		r.Post("/users/me/fcm-token", handlers.RegisterFCMToken(store))

		r.Post("/routes/estimate", estimateRoute)
		r.Get("/weather/forecast", handlers.GetForecast(store))

		r.Post("/services/{id}/rain-delay/check", handlers.CheckRainDelay(scheduler))
		r.Get("/services/{id}/rain-delay/history", handlers.GetDelayHistory(store))

		// Dispatcher endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleDispatcher))

			r.Post("/services/{id}/rain-delay/apply", handlers.ApplyRainDelay(scheduler))
		})

		// Admin endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Post("/users", handlers.CreateUser(store))
			r.Post("/customers/geocode", geocodeCustomers)
			r.Post("/weather/refresh", refreshWeather)
			r.Post("/rain-delay/run", handlers.RunRainDelaySweep(scheduler))
			r.Post("/reminders/run", runReminders)
		})
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Println("🛑 Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("⚠️  Shutdown error: %v", err)
		}
	}()

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", cfg.Port)
	log.Println("═══════════════════════════════════════════════════════════════════")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Server failed to start")
		log.Printf("   Error: %v", err)
		log.Printf("   Port: %s", cfg.Port)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
}
