package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/happythoughts/thoughts-api/internal/api/middleware"
	"github.com/happythoughts/thoughts-api/internal/core/ports"
)

// UserHandler serves the authenticated caller's own content.
type UserHandler struct {
	service ports.ThoughtService
}

func NewUserHandler(service ports.ThoughtService) *UserHandler {
	return &UserHandler{service: service}
}

// MyThoughts handles GET /users/me/thoughts.
//
// @Summary      List the caller's own thoughts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int     false  "Page number (1-indexed)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Param        sort   query     string  false  "Sort field; prefix with - to reverse"
// @Success      200    {object}  myThoughtsResponse
// @Failure      401    {object}  errorResponse
// @Router       /users/me/thoughts [get]
func (h *UserHandler) MyThoughts(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Access token is required")
	}

	in, err := parseListQuery(c)
	if err != nil {
		return err
	}

	result, err := h.service.ListByOwner(c.Request().Context(), identity.ID, in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, myThoughtsResponse{
		Thoughts:   toThoughtResponses(result.Items),
		Pagination: toPaginationResponse(result.Pagination),
	})
}

// MyLikes handles GET /users/me/likes.
//
// @Summary      List the thoughts the caller has liked
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int     false  "Page number (1-indexed)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Param        sort   query     string  false  "Sort field; prefix with - to reverse"
// @Success      200    {object}  myLikesResponse
// @Failure      401    {object}  errorResponse
// @Router       /users/me/likes [get]
func (h *UserHandler) MyLikes(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Access token is required")
	}

	in, err := parseListQuery(c)
	if err != nil {
		return err
	}

	result, err := h.service.ListLikedBy(c.Request().Context(), identity.ID, in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, myLikesResponse{
		LikedThoughts: toThoughtResponses(result.Items),
		Pagination:    toPaginationResponse(result.Pagination),
	})
}
