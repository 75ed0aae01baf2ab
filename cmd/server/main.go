package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/AnshRaj112/feedback-notes/internal/config"
	"github.com/AnshRaj112/feedback-notes/internal/database"
	"github.com/AnshRaj112/feedback-notes/internal/handlers"
	"github.com/AnshRaj112/feedback-notes/internal/middleware"
	"github.com/AnshRaj112/feedback-notes/internal/repositories"
	"github.com/AnshRaj112/feedback-notes/internal/routes"
	"github.com/AnshRaj112/feedback-notes/internal/services"
	"github.com/AnshRaj112/feedback-notes/internal/views"
)

func main() {
	// Load env
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	db, err := database.ConnectPostgres(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	rdb, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()

	// Activity log is optional
	var activity services.ActivityLog = services.NopActivityLog{}
	if cfg.MongoURI != "" {
		log.Printf("Connecting to MongoDB at %s...", maskURI(cfg.MongoURI))
		client, mdb, err := database.ConnectMongo(cfg.MongoURI)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		defer database.DisconnectMongo(client)

		mongoLog := services.NewMongoActivityLog(mdb)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := mongoLog.EnsureIndexes(ctx); err != nil {
			log.Printf("⚠️  WARNING: failed to ensure MongoDB activity indexes: %v", err)
		} else {
			log.Println("✅ MongoDB activity indexes ensured")
		}
		cancel()
		activity = mongoLog
	} else {
		log.Println("Warning: MONGODB_URI not set. Activity log is disabled")
	}

	renderer, err := views.New()
	if err != nil {
		log.Fatal("Failed to parse templates:", err)
	}

	sessions := middleware.NewSessions(services.NewSessionStore(rdb, cfg.SessionTTL), cfg.IsProduction())
	h := &handlers.Handler{
		Identity:   services.NewIdentityService(repositories.NewPostgresUserStore(db)),
		Feedback:   repositories.NewPostgresFeedbackStore(db),
		Sessions:   sessions,
		Activity:   activity,
		Views:      renderer,
		TrustProxy: cfg.TrustProxy,
	}

	r := routes.NewRouter(h, sessions, routes.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Production:     cfg.IsProduction(),
		AllowedHost:    cfg.AllowedHost,
		TrustProxy:     cfg.TrustProxy,
		Redis:          rdb,
		LoginAttempts:  cfg.LoginAttempts,
		LoginWindow:    cfg.LoginWindow,
	})
	if cfg.IsProduction() {
		log.Println("✅ Production security enabled (security headers, host check, per-IP + login rate limiting)")
	}

	// Log registered routes for debugging
	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  GET  /")
	log.Println("  GET|POST /register")
	log.Println("  GET|POST /login")
	log.Println("  GET  /logout")
	log.Println("  GET  /users/{username}")
	log.Println("  POST /users/{username}/delete")
	log.Println("  GET|POST /users/{username}/feedback/add")
	log.Println("  GET|POST /feedback/{id}/update")
	log.Println("  GET|POST /feedback/{id}/delete")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Feedback server running on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

// maskURI hides the password of a connection string for logging.
func maskURI(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable URI>"
	}
	return u.Redacted()
}
