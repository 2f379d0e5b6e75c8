package handler

import (
	"github.com/happythoughts/thoughts-api/internal/core/domain"
	"github.com/happythoughts/thoughts-api/internal/core/ports"
)

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.UTC(),
	}
}

func toThoughtResponse(t *domain.Thought) thoughtResponse {
	likedBy := t.LikedBy
	if likedBy == nil {
		likedBy = []string{}
	}

	var owner *string
	if t.OwnerID != "" {
		id := t.OwnerID
		owner = &id
	}

	return thoughtResponse{
		ID:        t.ID,
		Message:   t.Message,
		Category:  string(t.Category),
		Hearts:    t.Hearts,
		LikedBy:   likedBy,
		Owner:     owner,
		CreatedAt: t.CreatedAt.UTC(),
		UpdatedAt: t.UpdatedAt.UTC(),
	}
}

func toThoughtResponses(items []*domain.Thought) []thoughtResponse {
	out := make([]thoughtResponse, len(items))
	for i, t := range items {
		out[i] = toThoughtResponse(t)
	}
	return out
}

func toPaginationResponse(p ports.Pagination) paginationResponse {
	return paginationResponse{
		Page:        p.Page,
		Limit:       p.Limit,
		TotalCount:  p.TotalCount,
		TotalPages:  p.TotalPages,
		HasNextPage: p.HasNextPage,
		HasPrevPage: p.HasPrevPage,
	}
}
