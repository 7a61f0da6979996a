package models

import (
	"time"
)

// RoadmapStatus is the delivery state of a roadmap item.
type RoadmapStatus string

const (
	RoadmapPlanned    RoadmapStatus = "planned"
	RoadmapInProgress RoadmapStatus = "in-progress"
	RoadmapCompleted  RoadmapStatus = "completed"
	RoadmapCancelled  RoadmapStatus = "cancelled"
)

// Valid reports whether the status is a known delivery state.
func (s RoadmapStatus) Valid() bool {
	switch s {
	case RoadmapPlanned, RoadmapInProgress, RoadmapCompleted, RoadmapCancelled:
		return true
	}
	return false
}

// RoadmapPriority is the owner-assigned priority of a roadmap item.
type RoadmapPriority string

const (
	PriorityLow    RoadmapPriority = "low"
	PriorityMedium RoadmapPriority = "medium"
	PriorityHigh   RoadmapPriority = "high"
)

// Valid reports whether the priority is known. The empty value is valid:
// priority is optional.
func (p RoadmapPriority) Valid() bool {
	switch p {
	case "", PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// RoadmapType categorizes what kind of work a roadmap item represents.
type RoadmapType string

const (
	TypeFeature      RoadmapType = "feature"
	TypeImprovement  RoadmapType = "improvement"
	TypeBugFix       RoadmapType = "bug-fix"
	TypeAnnouncement RoadmapType = "announcement"
)

// Valid reports whether the type is known. The empty value is valid: type
// is optional.
func (t RoadmapType) Valid() bool {
	switch t {
	case "", TypeFeature, TypeImprovement, TypeBugFix, TypeAnnouncement:
		return true
	}
	return false
}

// RoadmapItem is an owner-curated entry on a board's public roadmap. When
// promoted from a suggestion, SuggestionVoteCount is a snapshot of the
// suggestion's counter at promotion time; it is never refreshed by later
// vote activity.
type RoadmapItem struct {
	ID                   string          `json:"id" db:"id"`
	BoardID              string          `json:"board_id" db:"board_id"`
	SuggestionID         *string         `json:"suggestion_id,omitempty" db:"suggestion_id"`
	Title                string          `json:"title" db:"title"`
	Description          string          `json:"description" db:"description"`
	Status               RoadmapStatus   `json:"status" db:"status"`
	Priority             RoadmapPriority `json:"priority,omitempty" db:"priority"`
	Type                 RoadmapType     `json:"type,omitempty" db:"item_type"`
	SuggestionVoteCount  *int            `json:"suggestion_vote_count,omitempty" db:"suggestion_vote_count"`
	EstimatedReleaseDate *time.Time      `json:"estimated_release_date,omitempty" db:"estimated_release_date"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at" db:"updated_at"`
}

// GroupedRoadmap is the public roadmap view: items bucketed by status,
// each bucket ordered by estimated release date then creation time.
type GroupedRoadmap struct {
	Planned    []RoadmapItem `json:"planned"`
	InProgress []RoadmapItem `json:"in_progress"`
	Completed  []RoadmapItem `json:"completed"`
	Cancelled  []RoadmapItem `json:"cancelled"`
}
