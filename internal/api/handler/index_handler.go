package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type routeInfo struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

type indexResponse struct {
	Message   string      `json:"message"`
	Endpoints []routeInfo `json:"endpoints"`
}

// IndexHandler serves the API route index at the root path.
type IndexHandler struct{}

func NewIndexHandler() *IndexHandler {
	return &IndexHandler{}
}

// Routes handles GET /.
//
// @Summary      API route index
// @Tags         meta
// @Produce      json
// @Success      200  {object}  indexResponse
// @Router       / [get]
func (h *IndexHandler) Routes(c echo.Context) error {
	return c.JSON(http.StatusOK, indexResponse{
		Message: "Happy Thoughts API",
		Endpoints: []routeInfo{
			{Method: "GET", Path: "/thoughts", Description: "List thoughts with filtering, sorting and pagination"},
			{Method: "GET", Path: "/thoughts/:id", Description: "Get a single thought"},
			{Method: "POST", Path: "/thoughts", Description: "Post a thought (auth required unless allowAnonymous=true)"},
			{Method: "PUT", Path: "/thoughts/:id", Description: "Edit your own thought"},
			{Method: "DELETE", Path: "/thoughts/:id", Description: "Delete your own thought"},
			{Method: "POST", Path: "/thoughts/:id/like", Description: "Toggle a like on a thought"},
			{Method: "POST", Path: "/auth/signup", Description: "Register an account"},
			{Method: "POST", Path: "/auth/login", Description: "Login"},
			{Method: "GET", Path: "/auth/me", Description: "Current user profile"},
			{Method: "GET", Path: "/users/me/thoughts", Description: "Your own thoughts"},
			{Method: "GET", Path: "/users/me/likes", Description: "Thoughts you have liked"},
			{Method: "GET", Path: "/health", Description: "Liveness probe"},
			{Method: "GET", Path: "/health/ready", Description: "Readiness probe"},
			{Method: "GET", Path: "/metrics", Description: "Prometheus metrics"},
			{Method: "GET", Path: "/swagger/index.html", Description: "API documentation"},
		},
	})
}
