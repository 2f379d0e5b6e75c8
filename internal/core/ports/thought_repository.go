package ports

import (
	"context"
	"time"

	"github.com/happythoughts/thoughts-api/internal/core/domain"
)

// SortSpec is a validated sort instruction. Field is one of the allow-listed
// sortable fields (createdAt, updatedAt, hearts).
type SortSpec struct {
	Field string
	Desc  bool
}

// ListThoughtsFilter carries normalized query parameters for listing thoughts.
// Zero values mean "no filter". Page and Limit arrive already clamped by the
// service layer.
type ListThoughtsFilter struct {
	Category  domain.Category // resolved enum value; "" = all categories
	MinHearts int             // hearts >= MinHearts; 0 = no threshold
	NewerThan time.Time       // created after; zero = no threshold
	OwnerID   string          // scope to thoughts owned by this user
	LikedByID string          // scope to thoughts liked by this user
	Sort      SortSpec
	Page      int // 1-based
	Limit     int
}

// ThoughtRepository defines persistence operations for thoughts.
//
// Methods taking an id return domain.ErrInvalidID when the id is not a valid
// identifier for the store, and domain.ErrThoughtNotFound when no document
// matches.
type ThoughtRepository interface {
	Insert(ctx context.Context, t *domain.Thought) (*domain.Thought, error)
	FindByID(ctx context.Context, id string) (*domain.Thought, error)
	// List returns a page of thoughts matching the filter and the total
	// number of matching documents.
	List(ctx context.Context, f ListThoughtsFilter) ([]*domain.Thought, int64, error)
	UpdateMessage(ctx context.Context, id, message string) (*domain.Thought, error)
	Delete(ctx context.Context, id string) error
	// ToggleLike atomically adds userID to the liker set (incrementing
	// hearts) when absent, or removes it (decrementing hearts) when present,
	// and returns the post-update document. The membership check and the
	// mutation happen in a single conditional update so concurrent toggles
	// from distinct users never lose increments.
	ToggleLike(ctx context.Context, id, userID string) (*domain.Thought, error)
}
