package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/happythoughts/thoughts-api/internal/core/domain"
	"github.com/happythoughts/thoughts-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository. ToggleLike mirrors the real repository's atomic
// contract: membership check and mutation happen under one lock, and hearts
// moves in lockstep with the liker set.
// ---------------------------------------------------------------------------

type stubThoughtRepo struct {
	mu         sync.Mutex
	seq        int
	byID       map[string]*domain.Thought
	lastFilter ports.ListThoughtsFilter
}

func newStubThoughtRepo() *stubThoughtRepo {
	return &stubThoughtRepo{byID: make(map[string]*domain.Thought)}
}

func cloneThought(t *domain.Thought) *domain.Thought {
	clone := *t
	clone.LikedBy = append([]string(nil), t.LikedBy...)
	return &clone
}

func (r *stubThoughtRepo) Insert(_ context.Context, t *domain.Thought) (*domain.Thought, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	clone := cloneThought(t)
	clone.ID = fmt.Sprintf("thought-%d", r.seq)
	now := time.Now().UTC()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	r.byID[clone.ID] = clone
	return cloneThought(clone), nil
}

func (r *stubThoughtRepo) FindByID(_ context.Context, id string) (*domain.Thought, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrThoughtNotFound
	}
	return cloneThought(t), nil
}

func (r *stubThoughtRepo) List(_ context.Context, f ports.ListThoughtsFilter) ([]*domain.Thought, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = f

	var matched []*domain.Thought
	for _, t := range r.byID {
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if f.MinHearts > 0 && t.Hearts < f.MinHearts {
			continue
		}
		if !f.NewerThan.IsZero() && !t.CreatedAt.After(f.NewerThan) {
			continue
		}
		if f.OwnerID != "" && t.OwnerID != f.OwnerID {
			continue
		}
		if f.LikedByID != "" && !t.LikedByUser(f.LikedByID) {
			continue
		}
		matched = append(matched, cloneThought(t))
	}

	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch f.Sort.Field {
		case "hearts":
			less = matched[i].Hearts < matched[j].Hearts
		case "updatedAt":
			less = matched[i].UpdatedAt.Before(matched[j].UpdatedAt)
		default:
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		if f.Sort.Desc {
			return !less
		}
		return less
	})

	total := int64(len(matched))
	start := (f.Page - 1) * f.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubThoughtRepo) UpdateMessage(_ context.Context, id, message string) (*domain.Thought, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrThoughtNotFound
	}
	t.Message = message
	t.UpdatedAt = time.Now().UTC()
	return cloneThought(t), nil
}

func (r *stubThoughtRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrThoughtNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubThoughtRepo) ToggleLike(_ context.Context, id, userID string) (*domain.Thought, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrThoughtNotFound
	}

	if t.LikedByUser(userID) {
		kept := t.LikedBy[:0]
		for _, uid := range t.LikedBy {
			if uid != userID {
				kept = append(kept, uid)
			}
		}
		t.LikedBy = kept
		t.Hearts--
	} else {
		t.LikedBy = append(t.LikedBy, userID)
		t.Hearts++
	}
	t.UpdatedAt = time.Now().UTC()
	return cloneThought(t), nil
}

func newTestThoughtService(repo *stubThoughtRepo) *ThoughtService {
	return NewThoughtService(repo, zerolog.Nop())
}

func alice() domain.Identity {
	return domain.Identity{ID: "user-alice", Email: "alice@example.com", Name: "Alice"}
}

func bob() domain.Identity {
	return domain.Identity{ID: "user-bob", Email: "bob@example.com", Name: "Bob"}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestThoughtService_Create_Defaults(t *testing.T) {
	svc := newTestThoughtService(newStubThoughtRepo())
	owner := alice()

	created, err := svc.Create(context.Background(), ports.CreateThoughtInput{
		Message: "  Hello world!  ",
		Owner:   &owner,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Message != "Hello world!" {
		t.Fatalf("expected trimmed message, got %q", created.Message)
	}
	if created.Category != domain.CategoryGeneral {
		t.Fatalf("expected default category General, got %s", created.Category)
	}
	if created.Hearts != 0 || len(created.LikedBy) != 0 {
		t.Fatalf("new thought must start with no likes: hearts=%d likedBy=%v", created.Hearts, created.LikedBy)
	}
	if created.OwnerID != owner.ID {
		t.Fatalf("expected owner %s, got %s", owner.ID, created.OwnerID)
	}
}

func TestThoughtService_Create_Anonymous(t *testing.T) {
	svc := newTestThoughtService(newStubThoughtRepo())

	created, err := svc.Create(context.Background(), ports.CreateThoughtInput{
		Message:  "An anonymous thought",
		Category: "Humor",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.OwnerID != "" {
		t.Fatalf("anonymous thought must have no owner, got %q", created.OwnerID)
	}
	if created.Category != domain.CategoryHumor {
		t.Fatalf("unexpected category: %s", created.Category)
	}
}

func TestThoughtService_Create_InvalidCategory(t *testing.T) {
	svc := newTestThoughtService(newStubThoughtRepo())

	if _, err := svc.Create(context.Background(), ports.CreateThoughtInput{
		Message:  "Valid message here",
		Category: "Nonsense",
	}); err != domain.ErrInvalidCategory {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}

	// Categories are case-sensitive on write.
	if _, err := svc.Create(context.Background(), ports.CreateThoughtInput{
		Message:  "Valid message here",
		Category: "food",
	}); err != domain.ErrInvalidCategory {
		t.Fatalf("expected ErrInvalidCategory for lowercase value, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Ownership
// ---------------------------------------------------------------------------

func TestThoughtService_Update_OwnerOnly(t *testing.T) {
	repo := newStubThoughtRepo()
	svc := newTestThoughtService(repo)
	owner := alice()

	created, _ := svc.Create(context.Background(), ports.CreateThoughtInput{Message: "Original text", Owner: &owner})

	updated, err := svc.UpdateMessage(context.Background(), created.ID, owner, "Edited text")
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Message != "Edited text" {
		t.Fatalf("message not updated: %q", updated.Message)
	}

	if _, err := svc.UpdateMessage(context.Background(), created.ID, bob(), "Hijacked"); err != domain.ErrNotOwner {
		t.Fatalf("expected ErrNotOwner for non-owner, got %v", err)
	}
}

func TestThoughtService_Update_AnonymousNeverEditable(t *testing.T) {
	svc := newTestThoughtService(newStubThoughtRepo())

	created, _ := svc.Create(context.Background(), ports.CreateThoughtInput{Message: "Nobody owns this"})

	if _, err := svc.UpdateMessage(context.Background(), created.ID, alice(), "Mine now"); err != domain.ErrNotOwner {
		t.Fatalf("expected ErrNotOwner for anonymous thought, got %v", err)
	}
}

func TestThoughtService_Delete_OwnerOnly(t *testing.T) {
	repo := newStubThoughtRepo()
	svc := newTestThoughtService(repo)
	owner := alice()

	created, _ := svc.Create(context.Background(), ports.CreateThoughtInput{Message: "To be deleted", Owner: &owner})

	if _, err := svc.Delete(context.Background(), created.ID, bob()); err != domain.ErrNotOwner {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	deleted, err := svc.Delete(context.Background(), created.ID, owner)
	if err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if deleted.ID != created.ID || deleted.Message != "To be deleted" {
		t.Fatalf("unexpected deleted record: %+v", deleted)
	}

	if _, err := svc.Get(context.Background(), created.ID); err != domain.ErrThoughtNotFound {
		t.Fatalf("expected ErrThoughtNotFound after delete, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Like toggle
// ---------------------------------------------------------------------------

func TestThoughtService_ToggleLike_LikeThenUnlike(t *testing.T) {
	svc := newTestThoughtService(newStubThoughtRepo())
	owner := alice()

	created, _ := svc.Create(context.Background(), ports.CreateThoughtInput{Message: "Hello world!", Owner: &owner})

	liked, err := svc.ToggleLike(context.Background(), created.ID, owner)
	if err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if liked.Hearts != 1 || !liked.LikedByUser(owner.ID) {
		t.Fatalf("expected hearts=1 and caller in likedBy, got hearts=%d likedBy=%v", liked.Hearts, liked.LikedBy)
	}

	unliked, err := svc.ToggleLike(context.Background(), created.ID, owner)
	if err != nil {
		t.Fatalf("unlike failed: %v", err)
	}
	if unliked.Hearts != 0 || len(unliked.LikedBy) != 0 {
		t.Fatalf("double toggle must restore prior state, got hearts=%d likedBy=%v", unliked.Hearts, unliked.LikedBy)
	}
}

func TestThoughtService_ToggleLike_HeartsMatchesLikerSet(t *testing.T) {
	svc := newTestThoughtService(newStubThoughtRepo())

	created, _ := svc.Create(context.Background(), ports.CreateThoughtInput{Message: "Count my hearts"})

	users := []domain.Identity{alice(), bob(), {ID: "user-carol"}, {ID: "user-dave"}}
	sequence := []int{0, 1, 0, 2, 3, 1, 1, 0, 2}

	var last *domain.Thought
	for _, idx := range sequence {
		updated, err := svc.ToggleLike(context.Background(), created.ID, users[idx])
		if err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
		if updated.Hearts != len(updated.LikedBy) {
			t.Fatalf("invariant broken: hearts=%d likedBy=%v", updated.Hearts, updated.LikedBy)
		}
		last = updated
	}

	// 0:off 1:on 2:off 3:on after the sequence above
	if last.Hearts != 2 {
		t.Fatalf("expected 2 hearts after sequence, got %d", last.Hearts)
	}
}

func TestThoughtService_ToggleLike_ConcurrentDistinctUsers(t *testing.T) {
	svc := newTestThoughtService(newStubThoughtRepo())

	created, _ := svc.Create(context.Background(), ports.CreateThoughtInput{Message: "Everybody likes this"})

	const n = 32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			caller := domain.Identity{ID: fmt.Sprintf("user-%d", i)}
			if _, err := svc.ToggleLike(context.Background(), created.ID, caller); err != nil {
				t.Errorf("toggle failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	final, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if final.Hearts != n || len(final.LikedBy) != n {
		t.Fatalf("expected %d hearts with no lost updates, got hearts=%d likedBy=%d", n, final.Hearts, len(final.LikedBy))
	}
}

func TestThoughtService_ToggleLike_NotFound(t *testing.T) {
	svc := newTestThoughtService(newStubThoughtRepo())

	if _, err := svc.ToggleLike(context.Background(), "missing", alice()); err != domain.ErrThoughtNotFound {
		t.Fatalf("expected ErrThoughtNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestThoughtService_List_NormalizesInput(t *testing.T) {
	repo := newStubThoughtRepo()
	svc := newTestThoughtService(repo)

	_, err := svc.List(context.Background(), ports.ListThoughtsInput{
		Page:      -3,
		Limit:     9999,
		Sort:      "password_hash",
		Category:  "fOoD",
		MinHearts: -7,
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	f := repo.lastFilter
	if f.Page != 1 {
		t.Errorf("page not clamped: %d", f.Page)
	}
	if f.Limit != 100 {
		t.Errorf("limit not capped: %d", f.Limit)
	}
	if f.Sort != defaultSort {
		t.Errorf("unknown sort field must fall back to default, got %+v", f.Sort)
	}
	if f.Category != domain.CategoryFood {
		t.Errorf("category must match case-insensitively, got %q", f.Category)
	}
	if f.MinHearts != 0 {
		t.Errorf("negative minHearts must be dropped, got %d", f.MinHearts)
	}
}

func TestThoughtService_List_UnknownCategoryIsNoop(t *testing.T) {
	repo := newStubThoughtRepo()
	svc := newTestThoughtService(repo)
	owner := alice()

	_, _ = svc.Create(context.Background(), ports.CreateThoughtInput{Message: "First thought", Owner: &owner})
	_, _ = svc.Create(context.Background(), ports.CreateThoughtInput{Message: "Second thought", Owner: &owner})

	result, err := svc.List(context.Background(), ports.ListThoughtsInput{Category: "NotACategory"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if result.Pagination.TotalCount != 2 {
		t.Fatalf("unknown category must not filter, got total=%d", result.Pagination.TotalCount)
	}
}

func TestThoughtService_List_Pagination(t *testing.T) {
	repo := newStubThoughtRepo()
	svc := newTestThoughtService(repo)

	for i := 0; i < 25; i++ {
		_, _ = svc.Create(context.Background(), ports.CreateThoughtInput{Message: fmt.Sprintf("Thought number %d", i)})
	}

	page2, err := svc.List(context.Background(), ports.ListThoughtsInput{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(page2.Items) != 10 {
		t.Fatalf("expected 10 items on page 2, got %d", len(page2.Items))
	}
	p := page2.Pagination
	if p.TotalCount != 25 || p.TotalPages != 3 {
		t.Fatalf("unexpected totals: %+v", p)
	}
	if !p.HasNextPage || !p.HasPrevPage {
		t.Fatalf("page 2 of 3 should have both neighbours: %+v", p)
	}

	page3, _ := svc.List(context.Background(), ports.ListThoughtsInput{Page: 3, Limit: 10})
	if len(page3.Items) != 5 || page3.Pagination.HasNextPage {
		t.Fatalf("unexpected last page: items=%d pagination=%+v", len(page3.Items), page3.Pagination)
	}
}

func TestThoughtService_ListByOwnerAndLikes(t *testing.T) {
	repo := newStubThoughtRepo()
	svc := newTestThoughtService(repo)
	a, b := alice(), bob()

	mine, _ := svc.Create(context.Background(), ports.CreateThoughtInput{Message: "Alice's thought", Owner: &a})
	theirs, _ := svc.Create(context.Background(), ports.CreateThoughtInput{Message: "Bob's thought", Owner: &b})
	_, _ = svc.ToggleLike(context.Background(), theirs.ID, a)

	owned, err := svc.ListByOwner(context.Background(), a.ID, ports.ListThoughtsInput{})
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(owned.Items) != 1 || owned.Items[0].ID != mine.ID {
		t.Fatalf("expected only Alice's thought, got %+v", owned.Items)
	}

	liked, err := svc.ListLikedBy(context.Background(), a.ID, ports.ListThoughtsInput{})
	if err != nil {
		t.Fatalf("ListLikedBy failed: %v", err)
	}
	if len(liked.Items) != 1 || liked.Items[0].ID != theirs.ID {
		t.Fatalf("expected only the liked thought, got %+v", liked.Items)
	}
}
