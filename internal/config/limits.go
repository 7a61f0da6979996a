package config

import "time"

const (
	// MaxBoardNameLength is the maximum length for board names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxBoardNameLength = 255

	// MaxSuggestionTitleLength is the maximum length for suggestion
	// titles. Same bound as board names for consistency.
	MaxSuggestionTitleLength = 255

	// MaxDescriptionLength is the maximum length for board, suggestion
	// and roadmap item descriptions.
	MaxDescriptionLength = 2000

	// MaxCommentLength is the maximum length for comment bodies.
	MaxCommentLength = 1000

	// MaxRoadmapTitleLength is the maximum length for roadmap item
	// titles.
	MaxRoadmapTitleLength = 200

	// TrendingWindow is the trailing period over which votes count
	// toward the trending ranking.
	TrendingWindow = 14 * 24 * time.Hour
)
