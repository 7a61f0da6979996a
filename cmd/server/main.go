package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"voxpop/internal/auth"
	"voxpop/internal/categories"
	"voxpop/internal/config"
	"voxpop/internal/events"
	"voxpop/internal/handler"
	"voxpop/internal/middleware"
	"voxpop/internal/repository/postgres"
	"voxpop/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	boardRepo := postgres.NewBoardRepository(repoConfig)
	suggestionRepo := postgres.NewSuggestionRepository(repoConfig)
	voteRepo := postgres.NewVoteRepository(repoConfig)
	commentRepo := postgres.NewCommentRepository(repoConfig)
	roadmapRepo := postgres.NewRoadmapRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Initialize category registry
	categoryRegistry, err := categories.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize category registry: %v", err)
	}
	logger.Info("category registry initialized")

	// Vote event broker for live board updates
	broker := events.NewBroker()

	// Create services
	policy := service.NewVisibilityPolicy()
	resolver := service.NewIdentityResolver()
	boardService := service.NewBoardService(boardRepo, suggestionRepo, voteRepo, commentRepo, roadmapRepo, policy, txManager, logger)
	suggestionService := service.NewSuggestionService(suggestionRepo, boardRepo, voteRepo, commentRepo, policy, txManager, categoryRegistry, logger)
	voteService := service.NewVoteService(voteRepo, suggestionRepo, boardRepo, policy, txManager, broker, logger)
	rankingService := service.NewRankingService(suggestionRepo, voteRepo, boardRepo, policy, logger)
	roadmapService := service.NewRoadmapService(roadmapRepo, boardRepo, suggestionRepo, policy, logger)

	// Create handlers
	boardHandler := handler.NewBoardHandler(boardService, resolver, logger)
	suggestionHandler := handler.NewSuggestionHandler(suggestionService, rankingService, resolver, logger)
	voteHandler := handler.NewVoteHandler(voteService, resolver, logger)
	roadmapHandler := handler.NewRoadmapHandler(roadmapService, resolver, logger)
	eventsHandler := handler.NewEventsHandler(boardService, broker, resolver, logger)
	categoriesHandler := handler.NewCategoriesHandler(categoryRegistry, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", categoriesHandler.HealthCheck)

	// Category palette
	mux.HandleFunc("GET /api/categories", categoriesHandler.ListCategories)

	// Board routes
	mux.HandleFunc("GET /api/boards", boardHandler.ListBoards)
	mux.HandleFunc("POST /api/boards", boardHandler.CreateBoard)
	mux.HandleFunc("GET /api/boards/{id}", boardHandler.GetBoard)
	mux.HandleFunc("PATCH /api/boards/{id}", boardHandler.UpdateBoard)
	mux.HandleFunc("DELETE /api/boards/{id}", boardHandler.DeleteBoard)

	// Board-scoped suggestion routes
	mux.HandleFunc("GET /api/boards/{id}/suggestions", suggestionHandler.ListSuggestions)
	mux.HandleFunc("POST /api/boards/{id}/suggestions", suggestionHandler.SubmitSuggestion)

	// Suggestion routes
	mux.HandleFunc("GET /api/suggestions/{id}", suggestionHandler.GetSuggestion)
	mux.HandleFunc("PATCH /api/suggestions/{id}", suggestionHandler.UpdateSuggestion)
	mux.HandleFunc("DELETE /api/suggestions/{id}", suggestionHandler.DeleteSuggestion)
	mux.HandleFunc("POST /api/suggestions/{id}/comments", suggestionHandler.AddComment)
	mux.HandleFunc("POST /api/suggestions/{id}/recount", suggestionHandler.RecountVotes)

	// Vote toggle
	mux.HandleFunc("POST /api/suggestions/{id}/vote", voteHandler.ToggleVote)

	// Roadmap routes
	mux.HandleFunc("GET /api/boards/{id}/roadmap", roadmapHandler.GetRoadmap)
	mux.HandleFunc("POST /api/boards/{id}/roadmap", roadmapHandler.CreateItem)
	mux.HandleFunc("PATCH /api/boards/{id}/roadmap/{itemID}", roadmapHandler.UpdateItem)
	mux.HandleFunc("DELETE /api/boards/{id}/roadmap/{itemID}", roadmapHandler.DeleteItem)

	// Live vote events (SSE)
	mux.HandleFunc("GET /api/boards/{id}/events", eventsHandler.StreamVotes)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Identity → Routes
	root = middleware.Identity(jwtVerifier, cfg.SessionCookieName)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Session-ID", "Last-Event-ID"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
