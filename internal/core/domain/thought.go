package domain

import (
	"errors"
	"strings"
	"time"
)

// Category classifies a thought. Values are case-sensitive on write.
type Category string

const (
	CategoryTravel        Category = "Travel"
	CategoryFamily        Category = "Family"
	CategoryFood          Category = "Food"
	CategoryHealth        Category = "Health"
	CategoryFriends       Category = "Friends"
	CategoryHumor         Category = "Humor"
	CategoryEntertainment Category = "Entertainment"
	CategoryWeather       Category = "Weather"
	CategoryAnimals       Category = "Animals"
	CategoryGeneral       Category = "General"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryTravel,
	CategoryFamily,
	CategoryFood,
	CategoryHealth,
	CategoryFriends,
	CategoryHumor,
	CategoryEntertainment,
	CategoryWeather,
	CategoryAnimals,
	CategoryGeneral,
}

var ErrThoughtNotFound = errors.New("thought not found")
var ErrInvalidID = errors.New("invalid thought id")
var ErrNotOwner = errors.New("not the owner of this thought")
var ErrInvalidCategory = errors.New("invalid category")

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// MatchCategory resolves s to a category ignoring case. Used for list
// filtering, where "food" and "Food" must match the same documents.
func MatchCategory(s string) (Category, bool) {
	for _, known := range Categories {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}

// Thought is the core content entity: a short message that users can like.
// OwnerID is empty for anonymous thoughts. Hearts is kept equal to
// len(LikedBy) by the persistence layer on every mutation.
type Thought struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Category  Category  `json:"category"`
	Hearts    int       `json:"hearts"`
	LikedBy   []string  `json:"likedBy"`
	OwnerID   string    `json:"owner,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LikedByUser reports whether the given user id is in the liker set.
func (t *Thought) LikedByUser(userID string) bool {
	for _, id := range t.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}
