package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/garagedesk/jobcard-service/internal/auth"
	"github.com/garagedesk/jobcard-service/internal/db"
	"github.com/garagedesk/jobcard-service/internal/handlers"
	"github.com/garagedesk/jobcard-service/internal/middleware"
	"github.com/garagedesk/jobcard-service/internal/models"
)

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// jobCardPermission picks the permission a job-card request needs from its
// method and sub-path.
func jobCardPermission(r *http.Request) string {
	if r.URL.Path == "/api/jobcards" {
		if r.Method == http.MethodPost {
			return "create_jobcard"
		}
		return "view_jobcards"
	}
	switch {
	case r.Method == http.MethodGet:
		return "view_jobcards"
	case r.Method == http.MethodDelete:
		return "delete_jobcard"
	case strings.HasSuffix(r.URL.Path, "/submit"):
		return "submit_checklist"
	case strings.HasSuffix(r.URL.Path, "/complete"):
		return "complete_assignment"
	default:
		return "update_jobcard"
	}
}

// jobCardGate wraps a job-card handler with the permission check its
// request calls for.
func jobCardGate(am *middleware.AuthMiddleware, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		am.RequirePermission(jobCardPermission(r))(next).ServeHTTP(w, r)
	})
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	log.SetFormatter(&log.JSONFormatter{})
	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	log.Info("Connected to MongoDB")

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "jobcards"
	}
	database := client.Database(dbName)

	jobCards := &db.MongoJobCardCollection{Collection: database.Collection("jobcards")}
	users := &db.MongoUserCollection{Collection: database.Collection("users")}

	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := jobCards.EnsureIndexes(indexCtx); err != nil {
		log.WithError(err).Fatal("Failed to create indexes")
	}
	cancel()

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}

	authHandler := handlers.NewAuthHandler(authService, users)
	jobCardHandler := handlers.NewJobCardHandler(jobCards)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			authHandler.GetProfile(w, r)
		case http.MethodPut:
			authHandler.UpdateProfile(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/auth/change-password", authHandler.ChangePassword)

	mux.Handle("/api/jobcards", jobCardGate(authMiddleware, http.HandlerFunc(jobCardHandler.Collection)))
	mux.Handle("/api/jobcards/", jobCardGate(authMiddleware, http.HandlerFunc(jobCardHandler.Detail)))

	mux.Handle("/api/portal/worker",
		authMiddleware.RequireRole(models.RoleMechanic)(http.HandlerFunc(jobCardHandler.WorkerQueue)))
	mux.Handle("/api/portal/parts",
		authMiddleware.RequireRole(models.RoleParts)(http.HandlerFunc(jobCardHandler.PartsQueue)))

	handler := rateLimiter.RateLimit(300, 60)(authMiddleware.Authenticate(mux))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
