package handler

import "time"

// errorResponse documents the standard error envelope for swagger purposes.
// The actual rendering happens in the central HTTP error handler.
type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// --- Request types ---

type signupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name"     validate:"required,min=2,max=50"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createThoughtRequest struct {
	Message  string `json:"message"  validate:"required,min=5,max=140"`
	Category string `json:"category" validate:"omitempty,oneof=Travel Family Food Health Friends Humor Entertainment Weather Animals General"`
}

type updateThoughtRequest struct {
	Message string `json:"message" validate:"required,min=5,max=140"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal domain changes.

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	User        userResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
}

type profileResponse struct {
	User userResponse `json:"user"`
}

// thoughtResponse renders a thought. Owner is a pointer so anonymous
// thoughts serialize as "owner": null.
type thoughtResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Category  string    `json:"category"`
	Hearts    int       `json:"hearts"`
	LikedBy   []string  `json:"likedBy"`
	Owner     *string   `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type paginationResponse struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// listFiltersResponse echoes the filters that were actually applied.
type listFiltersResponse struct {
	Category  string `json:"category,omitempty"`
	MinHearts int    `json:"minHearts,omitempty"`
	NewerThan string `json:"newerThan,omitempty"`
	Sort      string `json:"sort,omitempty"`
}

type listThoughtsResponse struct {
	Thoughts   []thoughtResponse   `json:"thoughts"`
	Pagination paginationResponse  `json:"pagination"`
	Filters    listFiltersResponse `json:"filters"`
}

type myThoughtsResponse struct {
	Thoughts   []thoughtResponse  `json:"thoughts"`
	Pagination paginationResponse `json:"pagination"`
}

type myLikesResponse struct {
	LikedThoughts []thoughtResponse  `json:"likedThoughts"`
	Pagination    paginationResponse `json:"pagination"`
}

type deletedThought struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type deleteThoughtResponse struct {
	Message        string         `json:"message"`
	DeletedThought deletedThought `json:"deletedThought"`
}
