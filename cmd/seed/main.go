package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"voxpop/internal/config"
	"voxpop/internal/domain/models"
	"voxpop/internal/domain/services"
	"voxpop/internal/repository/postgres"
	"voxpop/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed demo data")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	// Create repositories and services for demo seeding
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

	policy := service.NewVisibilityPolicy()
	boardService := service.NewBoardService(boardRepo, suggestionRepo, voteRepo, commentRepo, roadmapRepo, policy, txManager, logger)

	ownerID := os.Getenv("SEED_OWNER_ID")
	if ownerID == "" {
		ownerID = uuid.NewString()
		log.Printf("ℹ️  SEED_OWNER_ID not set, using generated owner %s", ownerID)
	}

	log.Println("📝 Seeding demo board...")

	board, err := boardService.CreateBoard(ctx, &services.CreateBoardRequest{
		OwnerID:                ownerID,
		Name:                   "Product Feedback",
		Description:            "Tell us what to build next",
		IsPublic:               true,
		AllowAnonymousVotes:    true,
		AllowPublicSubmissions: true,
		RoadmapEnabled:         true,
	})
	if err != nil {
		log.Fatalf("Failed to seed board: %v", err)
	}
	log.Printf("✅ Created board %s (ID: %s)", board.Name, board.ID)

	seeds := []struct {
		title       string
		description string
		category    string
	}{
		{"Dark mode", "A dark color scheme for late-night use", "feature"},
		{"Faster search", "Search feels sluggish on large boards", "improvement"},
		{"Export votes to CSV", "Board owners should be able to export vote data", "feature"},
		{"Crash on empty comment", "Submitting an empty comment crashes the form", "bug"},
	}

	for i, s := range seeds {
		now := time.Now()
		suggestion := &models.Suggestion{
			BoardID:         board.ID,
			AuthorAccountID: &ownerID,
			Title:           s.title,
			Description:     s.description,
			Category:        s.category,
			Status:          models.StatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := suggestionRepo.Create(ctx, suggestion); err != nil {
			log.Printf("❌ Failed to seed suggestion '%s': %v", s.title, err)
			continue
		}
		log.Printf("✅ Created suggestion %d/%d: %s (ID: %s)", i+1, len(seeds), s.title, suggestion.ID)
	}

	log.Println("🎉 Seeding complete!")
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	// Enable UUID extension
	_, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"")
	if err != nil {
		return err
	}

	// Create boards table
	createBoards := `
		CREATE TABLE IF NOT EXISTS ` + tables.Boards + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			owner_id UUID NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			is_public BOOLEAN NOT NULL DEFAULT TRUE,
			allow_anonymous_votes BOOLEAN NOT NULL DEFAULT TRUE,
			allow_public_submissions BOOLEAN NOT NULL DEFAULT TRUE,
			roadmap_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			header_color TEXT,
			button_color TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createBoards); err != nil {
		return err
	}

	// Create suggestions table. vote_count is denormalized from the votes
	// table and clamped non-negative at the schema level too.
	createSuggestions := `
		CREATE TABLE IF NOT EXISTS ` + tables.Suggestions + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			board_id UUID NOT NULL REFERENCES ` + tables.Boards + `(id),
			author_account_id UUID,
			author_session_id TEXT,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			vote_count INTEGER NOT NULL DEFAULT 0 CHECK (vote_count >= 0),
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createSuggestions); err != nil {
		return err
	}

	// Create votes table. Exactly one of account_id/session_id is set per
	// row: the two identity namespaces never mix.
	createVotes := `
		CREATE TABLE IF NOT EXISTS ` + tables.Votes + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			suggestion_id UUID NOT NULL REFERENCES ` + tables.Suggestions + `(id),
			account_id UUID,
			session_id TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			CHECK ((account_id IS NULL) <> (session_id IS NULL))
		)
	`
	if _, err := pool.Exec(ctx, createVotes); err != nil {
		return err
	}

	// Create comments table
	createComments := `
		CREATE TABLE IF NOT EXISTS ` + tables.Comments + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			suggestion_id UUID NOT NULL REFERENCES ` + tables.Suggestions + `(id),
			author_account_id UUID,
			author_session_id TEXT,
			body TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createComments); err != nil {
		return err
	}

	// Create roadmap items table
	createRoadmapItems := `
		CREATE TABLE IF NOT EXISTS ` + tables.RoadmapItems + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			board_id UUID NOT NULL REFERENCES ` + tables.Boards + `(id),
			suggestion_id UUID,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'planned',
			priority TEXT NOT NULL DEFAULT '',
			item_type TEXT NOT NULL DEFAULT '',
			suggestion_vote_count INTEGER,
			estimated_release_date TIMESTAMPTZ,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createRoadmapItems); err != nil {
		return err
	}

	// Create indexes. The two partial unique indexes are the authority for
	// vote de-duplication: one per identity namespace.
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `boards_owner ON ` + tables.Boards + `(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `suggestions_board ON ` + tables.Suggestions + `(board_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `votes_account_unique ON ` + tables.Votes + `(account_id, suggestion_id) WHERE account_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `votes_session_unique ON ` + tables.Votes + `(session_id, suggestion_id) WHERE session_id IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `votes_suggestion ON ` + tables.Votes + `(suggestion_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `votes_created ON ` + tables.Votes + `(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `comments_suggestion ON ` + tables.Comments + `(suggestion_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `roadmap_items_board ON ` + tables.RoadmapItems + `(board_id)`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Votes,
		tables.Comments,
		tables.RoadmapItems,
		tables.Suggestions,
		tables.Boards,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}

	return nil
}
