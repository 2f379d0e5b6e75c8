package ports

import (
	"context"
	"time"

	"github.com/happythoughts/thoughts-api/internal/core/domain"
)

// CreateThoughtInput carries the data for posting a new thought.
// A nil Owner means the thought is posted anonymously.
type CreateThoughtInput struct {
	Message  string
	Category string
	Owner    *domain.Identity
}

// ListThoughtsInput carries raw, untrusted query parameters for the list
// endpoints. The service normalizes them (clamping, sort allow-list,
// case-insensitive category match) before touching the repository.
type ListThoughtsInput struct {
	Category  string
	MinHearts int
	NewerThan time.Time
	Sort      string // field name, optionally prefixed with "-"
	Page      int
	Limit     int
}

// Pagination describes the page of results returned by a list operation.
type Pagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// ListThoughtsResult is returned by the list operations.
type ListThoughtsResult struct {
	Items      []*domain.Thought
	Pagination Pagination
}

// ThoughtService defines the use-case operations on thoughts.
type ThoughtService interface {
	Create(ctx context.Context, in CreateThoughtInput) (*domain.Thought, error)
	Get(ctx context.Context, id string) (*domain.Thought, error)
	List(ctx context.Context, in ListThoughtsInput) (*ListThoughtsResult, error)
	// UpdateMessage edits the message of a thought owned by the caller.
	// Returns domain.ErrNotOwner when the caller does not own it.
	UpdateMessage(ctx context.Context, id string, caller domain.Identity, message string) (*domain.Thought, error)
	// Delete removes a thought owned by the caller and returns the deleted
	// record for the confirmation payload.
	Delete(ctx context.Context, id string, caller domain.Identity) (*domain.Thought, error)
	// ToggleLike likes the thought when the caller has not liked it yet and
	// unlikes it otherwise, returning the updated thought.
	ToggleLike(ctx context.Context, id string, caller domain.Identity) (*domain.Thought, error)
	// ListByOwner returns the caller's own thoughts.
	ListByOwner(ctx context.Context, ownerID string, in ListThoughtsInput) (*ListThoughtsResult, error)
	// ListLikedBy returns the thoughts the caller has liked.
	ListLikedBy(ctx context.Context, userID string, in ListThoughtsInput) (*ListThoughtsResult, error)
}
