package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"gorm.io/gorm"

	"prep-system/internal/auth"
	"prep-system/internal/content"
	"prep-system/internal/dashboard"
	"prep-system/internal/quiz"
	"prep-system/internal/revision"
	"prep-system/pkg/cache"
	"prep-system/pkg/config"
	"prep-system/pkg/database"
	"prep-system/pkg/websocket"
)

func main() {
	cfg := config.Load()

	// Initialize database
	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := content.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	contentRepo := content.NewRepository(db)
	seeded := seedCatalogue(db, contentRepo, cfg.SeedFile)

	// Content reads go through redis when it is configured
	var contentService content.Service = contentRepo
	var redisCache *cache.RedisCache
	if cfg.RedisAddr != "" {
		redisCache = cache.NewRedisCache(cfg.RedisAddr)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("Warning: redis at %s unreachable, reads will fall through: %v", cfg.RedisAddr, err)
		}
		if seeded {
			if err := content.DropCached(ctx, redisCache); err != nil {
				log.Printf("Warning: could not drop cached catalogue: %v", err)
			}
		}
		cancel()
		contentService = content.NewCachedService(contentRepo, redisCache)
	}

	// Initialize services
	authService, err := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to initialize auth (set JWT_SECRET): %v", err)
	}

	wsHub := websocket.NewHub()
	go wsHub.Run()

	quizService := quiz.NewService(contentService, wsHub, quiz.Config{
		Duration:     cfg.QuizDuration,
		TickInterval: time.Second,
		ResultTTL:    cfg.ResultTTL,
	})
	wsHub.SetAuthorizer(func(r *http.Request, room string) bool {
		student, err := authService.Parse(auth.BearerToken(r))
		if err != nil {
			return false
		}
		return quizService.Owns(room, student)
	})

	revisionService := revision.NewService(contentService, revision.NewScheduler(nil))
	dashboardService := dashboard.NewService(revisionService, contentService)

	// Initialize handlers
	authHandler := auth.NewHandler(authService)
	quizHandler := quiz.NewHandler(quizService)
	revisionHandler := revision.NewHandler(revisionService)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	// Setup router
	router := mux.NewRouter()

	// Auth routes - no JWT required
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(auth.JWTMiddleware(authService))
	apiRouter.Use(jsonContentType)

	apiRouter.HandleFunc("/revision", revisionHandler.List).Methods("GET")
	apiRouter.HandleFunc("/dashboard", dashboardHandler.Summary).Methods("GET")
	quizHandler.Register(apiRouter)

	// WebSocket endpoint
	router.HandleFunc("/ws/{attemptID}", wsHub.HandleWebSocket)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsMiddleware.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown setup
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	quizService.Close()
	wsHub.Stop()
	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			log.Printf("Error closing redis: %v", err)
		}
	}

	log.Println("Server shutdown gracefully")
}

// seedCatalogue loads the bundled catalogue into an empty database and
// reports whether it did.
func seedCatalogue(db *gorm.DB, repo *content.Repository, path string) bool {
	if path == "" {
		return false
	}
	empty, err := repo.IsEmpty(context.Background())
	if err != nil {
		log.Printf("Warning: could not inspect catalogue: %v", err)
		return false
	}
	if !empty {
		return false
	}
	if _, err := os.Stat(path); err != nil {
		log.Printf("Warning: seed file %s not found, catalogue is empty", path)
		return false
	}
	if err := content.SeedFromJSON(db, path); err != nil {
		log.Fatalf("Failed to seed catalogue: %v", err)
	}
	log.Printf("Seeded catalogue from %s", path)
	return true
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
