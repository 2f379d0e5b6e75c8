package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/happythoughts/thoughts-api/internal/core/domain"
	"github.com/happythoughts/thoughts-api/internal/core/ports"
)

const thoughtsCollection = "thoughts"

// toggleRetries bounds the retry loop in ToggleLike. Each attempt can only
// miss when the same user's like state flipped between the two conditional
// updates, so contention beyond a couple of rounds indicates a bug.
const toggleRetries = 3

type ThoughtRepository struct {
	coll *mongo.Collection
}

func NewThoughtRepository(db *mongo.Database) *ThoughtRepository {
	return &ThoughtRepository{coll: db.Collection(thoughtsCollection)}
}

type thoughtDoc struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Message   string               `bson:"message"`
	Category  string               `bson:"category"`
	Hearts    int                  `bson:"hearts"`
	LikedBy   []primitive.ObjectID `bson:"liked_by"`
	OwnerID   *primitive.ObjectID  `bson:"owner_id,omitempty"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

func (d *thoughtDoc) toDomain() *domain.Thought {
	likedBy := make([]string, len(d.LikedBy))
	for i, id := range d.LikedBy {
		likedBy[i] = id.Hex()
	}

	t := &domain.Thought{
		ID:        d.ID.Hex(),
		Message:   d.Message,
		Category:  domain.Category(d.Category),
		Hearts:    d.Hearts,
		LikedBy:   likedBy,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.OwnerID != nil {
		t.OwnerID = d.OwnerID.Hex()
	}
	return t
}

// parseID converts an id from the API into an ObjectID, mapping malformed
// input to domain.ErrInvalidID so handlers can answer 400 before any query.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidID
	}
	return oid, nil
}

func (r *ThoughtRepository) Insert(ctx context.Context, t *domain.Thought) (*domain.Thought, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := thoughtDoc{
		Message:   t.Message,
		Category:  string(t.Category),
		Hearts:    0,
		LikedBy:   []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if t.OwnerID != "" {
		oid, err := parseID(t.OwnerID)
		if err != nil {
			return nil, err
		}
		doc.OwnerID = &oid
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert thought: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *ThoughtRepository) FindByID(ctx context.Context, id string) (*domain.Thought, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc thoughtDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrThoughtNotFound
		}
		return nil, fmt.Errorf("find thought: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns a page of thoughts matching the filter plus the total count
// of matching documents.
func (r *ThoughtRepository) List(ctx context.Context, f ports.ListThoughtsFilter) ([]*domain.Thought, int64, error) {
	filter, err := buildFilter(f)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count thoughts: %w", err)
	}

	opts := options.Find().
		SetSort(buildSort(f.Sort)).
		SetSkip(int64(f.Page-1) * int64(f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list thoughts: %w", err)
	}
	defer cur.Close(ctx)

	thoughts := make([]*domain.Thought, 0, f.Limit)
	for cur.Next(ctx) {
		var doc thoughtDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode thought: %w", err)
		}
		thoughts = append(thoughts, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list thoughts: %w", err)
	}

	return thoughts, total, nil
}

func (r *ThoughtRepository) UpdateMessage(ctx context.Context, id, message string) (*domain.Thought, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"message":    message,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc thoughtDoc
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrThoughtNotFound
		}
		return nil, fmt.Errorf("update thought: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ThoughtRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete thought: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrThoughtNotFound
	}
	return nil
}

// ToggleLike flips the user's membership in the liker set with a single
// conditional update per direction. The filter carries the membership check,
// so the read and the mutation are one atomic document operation and hearts
// moves in lockstep with the set:
//
//	unlike: match {_id, liked_by: uid}        → $pull + $inc hearts -1
//	like:   match {_id, liked_by: {$ne: uid}} → $addToSet + $inc hearts +1
//
// Concurrent toggles from distinct users hit disjoint filters and cannot
// lose updates. When both updates miss, either the thought is gone (404) or
// the same user raced their own toggle; the loop retries the latter.
func (r *ThoughtRepository) ToggleLike(ctx context.Context, id, userID string) (*domain.Thought, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	for attempt := 0; attempt < toggleRetries; attempt++ {
		now := time.Now().UTC()

		unlike := bson.M{
			"$pull": bson.M{"liked_by": uid},
			"$inc":  bson.M{"hearts": -1},
			"$set":  bson.M{"updated_at": now},
		}
		var doc thoughtDoc
		err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid, "liked_by": uid}, unlike, opts).Decode(&doc)
		if err == nil {
			return doc.toDomain(), nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("unlike thought: %w", err)
		}

		like := bson.M{
			"$addToSet": bson.M{"liked_by": uid},
			"$inc":      bson.M{"hearts": 1},
			"$set":      bson.M{"updated_at": now},
		}
		err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid, "liked_by": bson.M{"$ne": uid}}, like, opts).Decode(&doc)
		if err == nil {
			return doc.toDomain(), nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("like thought: %w", err)
		}

		exists, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return nil, fmt.Errorf("toggle like: %w", err)
		}
		if exists == 0 {
			return nil, domain.ErrThoughtNotFound
		}
	}

	return nil, fmt.Errorf("toggle like: persistent contention on thought %s", id)
}

// EnsureIndexes creates the secondary indexes used by the list queries.
func (r *ThoughtRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "liked_by", Value: 1}}},
		{Keys: bson.D{{Key: "hearts", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

// buildFilter maps the normalized filter onto a bson document. Category
// arrives already resolved to its canonical enum value, so an exact match
// suffices and nothing user-controlled is interpolated into operators.
func buildFilter(f ports.ListThoughtsFilter) (bson.M, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = string(f.Category)
	}
	if f.MinHearts > 0 {
		filter["hearts"] = bson.M{"$gte": f.MinHearts}
	}
	if !f.NewerThan.IsZero() {
		filter["created_at"] = bson.M{"$gt": f.NewerThan.UTC()}
	}
	if f.OwnerID != "" {
		oid, err := parseID(f.OwnerID)
		if err != nil {
			return nil, err
		}
		filter["owner_id"] = oid
	}
	if f.LikedByID != "" {
		uid, err := parseID(f.LikedByID)
		if err != nil {
			return nil, err
		}
		filter["liked_by"] = uid
	}
	return filter, nil
}

// buildSort translates an allow-listed sort field to its bson key and adds
// _id as a tiebreaker for a stable order across pages.
func buildSort(s ports.SortSpec) bson.D {
	field := map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
		"hearts":    "hearts",
	}[s.Field]
	if field == "" {
		field = "created_at"
	}

	dir := 1
	if s.Desc {
		dir = -1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}
