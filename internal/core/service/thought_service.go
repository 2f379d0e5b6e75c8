package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/happythoughts/thoughts-api/internal/core/domain"
	"github.com/happythoughts/thoughts-api/internal/core/ports"
)

// ThoughtService implements the thought use cases on top of a repository.
// All cross-request coordination (the like toggle) is delegated to the
// repository's atomic update primitives; the service itself holds no state.
type ThoughtService struct {
	repo   ports.ThoughtRepository
	logger zerolog.Logger
}

func NewThoughtService(repo ports.ThoughtRepository, logger zerolog.Logger) *ThoughtService {
	return &ThoughtService{repo: repo, logger: logger}
}

// Create posts a new thought. A nil Owner in the input produces an anonymous
// thought. Hearts and the liker set always start empty.
func (s *ThoughtService) Create(ctx context.Context, in ports.CreateThoughtInput) (*domain.Thought, error) {
	category := domain.CategoryGeneral
	if in.Category != "" {
		category = domain.Category(in.Category)
		if !category.Valid() {
			return nil, domain.ErrInvalidCategory
		}
	}

	thought := &domain.Thought{
		Message:  strings.TrimSpace(in.Message),
		Category: category,
		Hearts:   0,
		LikedBy:  []string{},
	}
	if in.Owner != nil {
		thought.OwnerID = in.Owner.ID
	}

	created, err := s.repo.Insert(ctx, thought)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create thought")
		return nil, err
	}

	s.logger.Info().
		Str("thought_id", created.ID).
		Str("category", string(created.Category)).
		Bool("anonymous", created.OwnerID == "").
		Msg("thought created")

	return created, nil
}

// Get retrieves a single thought by id.
func (s *ThoughtService) Get(ctx context.Context, id string) (*domain.Thought, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns a filtered, sorted, paginated page of thoughts.
func (s *ThoughtService) List(ctx context.Context, in ports.ListThoughtsInput) (*ports.ListThoughtsResult, error) {
	return s.list(ctx, s.normalize(in))
}

// ListByOwner scopes List to thoughts owned by the given user.
func (s *ThoughtService) ListByOwner(ctx context.Context, ownerID string, in ports.ListThoughtsInput) (*ports.ListThoughtsResult, error) {
	f := s.normalize(in)
	f.OwnerID = ownerID
	return s.list(ctx, f)
}

// ListLikedBy scopes List to thoughts the given user has liked.
func (s *ThoughtService) ListLikedBy(ctx context.Context, userID string, in ports.ListThoughtsInput) (*ports.ListThoughtsResult, error) {
	f := s.normalize(in)
	f.LikedByID = userID
	return s.list(ctx, f)
}

// UpdateMessage edits a thought's message. Only the owner may edit; anonymous
// thoughts have no owner and can never be edited.
func (s *ThoughtService) UpdateMessage(ctx context.Context, id string, caller domain.Identity, message string) (*domain.Thought, error) {
	thought, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(thought) {
		return nil, domain.ErrNotOwner
	}

	updated, err := s.repo.UpdateMessage(ctx, id, strings.TrimSpace(message))
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("thought_id", id).
		Str("user_id", caller.ID).
		Msg("thought updated")

	return updated, nil
}

// Delete removes a thought. Only the owner may delete. The removed record is
// returned so the handler can echo it in the confirmation payload.
func (s *ThoughtService) Delete(ctx context.Context, id string, caller domain.Identity) (*domain.Thought, error) {
	thought, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(thought) {
		return nil, domain.ErrNotOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("thought_id", id).
		Str("user_id", caller.ID).
		Msg("thought deleted")

	return thought, nil
}

// ToggleLike flips the caller's membership in the thought's liker set. The
// repository performs the check-and-mutate in one atomic update, so hearts
// stays equal to the liker-set size under concurrent toggles.
func (s *ThoughtService) ToggleLike(ctx context.Context, id string, caller domain.Identity) (*domain.Thought, error) {
	updated, err := s.repo.ToggleLike(ctx, id, caller.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("thought_id", id).
		Str("user_id", caller.ID).
		Bool("liked", updated.LikedByUser(caller.ID)).
		Int("hearts", updated.Hearts).
		Msg("like toggled")

	return updated, nil
}

// normalize converts raw query parameters into a trusted repository filter:
// pagination is clamped, the sort field is checked against the allow-list,
// and the category is matched ignoring case. Invalid values degrade to
// no-ops instead of erroring.
func (s *ThoughtService) normalize(in ports.ListThoughtsInput) ports.ListThoughtsFilter {
	f := ports.ListThoughtsFilter{
		MinHearts: in.MinHearts,
		NewerThan: in.NewerThan,
		Sort:      parseSort(in.Sort),
		Page:      clampPage(in.Page),
		Limit:     clampLimit(in.Limit),
	}
	if f.MinHearts < 0 {
		f.MinHearts = 0
	}
	if in.Category != "" {
		if cat, ok := domain.MatchCategory(in.Category); ok {
			f.Category = cat
		}
	}
	return f
}

func (s *ThoughtService) list(ctx context.Context, f ports.ListThoughtsFilter) (*ports.ListThoughtsResult, error) {
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list thoughts")
		return nil, err
	}

	return &ports.ListThoughtsResult{
		Items:      items,
		Pagination: buildPagination(f.Page, f.Limit, total),
	}, nil
}
