package dto

import (
	"time"

	"github.com/hiresync/validation-queue-api/internal/models"
)

// QueueScope selects which slice of the candidate set a listing covers.
type QueueScope string

const (
	ScopePending QueueScope = "pending"
	ScopeHistory QueueScope = "history"
)

// StatusFilterAll disables the status predicate.
const StatusFilterAll = "all"

// SortDirection is the explicit column sort direction.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sortable column keys for the explicit column sort.
const (
	SortByName        = "name"
	SortByCode        = "code"
	SortByStatus      = "status"
	SortByProgress    = "progress"
	SortByAdmission   = "admission"
	SortByResponsible = "responsible"
)

// QueueQuery carries the composable listing filters. Zero values mean
// "predicate disabled"; an empty Responsible set filters nothing. An empty
// SortBy activates the default rank ordering.
type QueueQuery struct {
	Scope         QueueScope
	Search        string
	Status        string
	AdmittedFrom  *time.Time
	AdmittedTo    *time.Time
	Responsible   []string
	SortBy        string
	SortDirection SortDirection
}

// QueueResponse is the presented queue slice plus snapshot metadata.
// LoadedAt doubles as the session first-view timestamp for clients.
type QueueResponse struct {
	Candidates []models.Candidate `json:"candidates"`
	Total      int                `json:"total"`
	LoadedAt   time.Time          `json:"loadedAt"`
}
