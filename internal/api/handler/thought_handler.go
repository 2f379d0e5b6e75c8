package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/happythoughts/thoughts-api/internal/api/metrics"
	"github.com/happythoughts/thoughts-api/internal/api/middleware"
	"github.com/happythoughts/thoughts-api/internal/core/domain"
	"github.com/happythoughts/thoughts-api/internal/core/ports"
)

// ThoughtHandler handles the public thought CRUD surface.
type ThoughtHandler struct {
	service ports.ThoughtService
}

func NewThoughtHandler(service ports.ThoughtService) *ThoughtHandler {
	return &ThoughtHandler{service: service}
}

// List handles GET /thoughts.
//
// @Summary      List thoughts
// @Tags         thoughts
// @Produce      json
// @Param        page       query     int     false  "Page number (1-indexed)"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Param        category   query     string  false  "Category filter (case-insensitive)"
// @Param        minHearts  query     int     false  "Minimum hearts threshold"
// @Param        newerThan  query     string  false  "Only thoughts created after this RFC 3339 timestamp or YYYY-MM-DD date"
// @Param        sort       query     string  false  "Sort field (createdAt, updatedAt, hearts); prefix with - to reverse"
// @Success      200        {object}  listThoughtsResponse
// @Failure      400        {object}  errorResponse
// @Router       /thoughts [get]
func (h *ThoughtHandler) List(c echo.Context) error {
	in, err := parseListQuery(c)
	if err != nil {
		return err
	}

	result, err := h.service.List(c.Request().Context(), in)
	if err != nil {
		return err
	}

	filters := listFiltersResponse{
		Category:  in.Category,
		MinHearts: in.MinHearts,
		Sort:      in.Sort,
	}
	if !in.NewerThan.IsZero() {
		filters.NewerThan = in.NewerThan.UTC().Format(time.RFC3339)
	}

	return c.JSON(http.StatusOK, listThoughtsResponse{
		Thoughts:   toThoughtResponses(result.Items),
		Pagination: toPaginationResponse(result.Pagination),
		Filters:    filters,
	})
}

// Get handles GET /thoughts/:id.
//
// @Summary      Get a thought by id
// @Tags         thoughts
// @Produce      json
// @Param        id   path      string  true  "Thought id"
// @Success      200  {object}  thoughtResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /thoughts/{id} [get]
func (h *ThoughtHandler) Get(c echo.Context) error {
	thought, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toThoughtResponse(thought))
}

// Create handles POST /thoughts. With ?allowAnonymous=true the thought is
// stored without an owner and no token is needed; otherwise the caller must
// be authenticated and becomes the owner.
//
// @Summary      Post a new thought
// @Tags         thoughts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        allowAnonymous  query     bool                  false  "Post anonymously (no authentication required)"
// @Param        body            body      createThoughtRequest  true   "Thought content"
// @Success      201             {object}  thoughtResponse
// @Failure      400             {object}  errorResponse
// @Failure      401             {object}  errorResponse
// @Failure      422             {object}  errorResponse
// @Router       /thoughts [post]
func (h *ThoughtHandler) Create(c echo.Context) error {
	var req createThoughtRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Message = strings.TrimSpace(req.Message)
	if err := c.Validate(&req); err != nil {
		return err
	}

	var owner *domain.Identity
	if !strings.EqualFold(c.QueryParam("allowAnonymous"), "true") {
		identity, ok := middleware.IdentityFrom(c)
		if !ok {
			// Surface why the token was rejected (expired, invalid) rather
			// than a generic message when the caller sent one.
			if err := middleware.AuthErrorFrom(c); err != nil {
				return err
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "Access token is required")
		}
		owner = &identity
	}

	created, err := h.service.Create(c.Request().Context(), ports.CreateThoughtInput{
		Message:  req.Message,
		Category: req.Category,
		Owner:    owner,
	})
	if err != nil {
		return err
	}

	metrics.ThoughtsCreatedTotal.WithLabelValues(string(created.Category)).Inc()
	return c.JSON(http.StatusCreated, toThoughtResponse(created))
}

// Update handles PUT /thoughts/:id. Only the message is mutable; only the
// owner may edit.
//
// @Summary      Edit a thought's message
// @Tags         thoughts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Thought id"
// @Param        body  body      updateThoughtRequest  true  "New message"
// @Success      200   {object}  thoughtResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /thoughts/{id} [put]
func (h *ThoughtHandler) Update(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Access token is required")
	}

	var req updateThoughtRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Message = strings.TrimSpace(req.Message)
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.service.UpdateMessage(c.Request().Context(), c.Param("id"), identity, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toThoughtResponse(updated))
}

// Delete handles DELETE /thoughts/:id. Only the owner may delete.
//
// @Summary      Delete a thought
// @Tags         thoughts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Thought id"
// @Success      200  {object}  deleteThoughtResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /thoughts/{id} [delete]
func (h *ThoughtHandler) Delete(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Access token is required")
	}

	deleted, err := h.service.Delete(c.Request().Context(), c.Param("id"), identity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, deleteThoughtResponse{
		Message: "Thought deleted successfully",
		DeletedThought: deletedThought{
			ID:      deleted.ID,
			Message: deleted.Message,
		},
	})
}

// ToggleLike handles POST /thoughts/:id/like. Likes the thought when the
// caller has not liked it yet, unlikes it otherwise.
//
// @Summary      Toggle a like on a thought
// @Tags         thoughts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Thought id"
// @Success      200  {object}  thoughtResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /thoughts/{id}/like [post]
func (h *ThoughtHandler) ToggleLike(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Access token is required")
	}

	updated, err := h.service.ToggleLike(c.Request().Context(), c.Param("id"), identity)
	if err != nil {
		return err
	}

	action := "unlike"
	if updated.LikedByUser(identity.ID) {
		action = "like"
	}
	metrics.LikesToggledTotal.WithLabelValues(action).Inc()

	return c.JSON(http.StatusOK, toThoughtResponse(updated))
}

// parseListQuery converts the shared list query parameters. Absent values
// fall back to service defaults; present but malformed numbers and dates are
// rejected with 400.
func parseListQuery(c echo.Context) (ports.ListThoughtsInput, error) {
	in := ports.ListThoughtsInput{
		Category: c.QueryParam("category"),
		Sort:     c.QueryParam("sort"),
	}

	var err error
	if in.Page, err = intParam(c, "page"); err != nil {
		return in, err
	}
	if in.Limit, err = intParam(c, "limit"); err != nil {
		return in, err
	}
	if in.MinHearts, err = intParam(c, "minHearts"); err != nil {
		return in, err
	}

	if raw := c.QueryParam("newerThan"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			t, err = time.Parse("2006-01-02", raw)
		}
		if err != nil {
			return in, echo.NewHTTPError(http.StatusBadRequest, "newerThan must be an RFC 3339 timestamp or YYYY-MM-DD date")
		}
		in.NewerThan = t
	}

	return in, nil
}

func intParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a number")
	}
	return n, nil
}
