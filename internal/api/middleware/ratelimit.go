package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/happythoughts/thoughts-api/internal/api/metrics"
)

// RequestLimiter is the interface the middleware needs from the rate limiter.
type RequestLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects requests exceeding the per-IP quota with 429. When the
// limiter backend is unreachable the middleware fails open: availability of
// the API wins over strict quota enforcement.
func RateLimit(limiter RequestLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				log.Warn().Err(err).Msg("rate limiter unavailable, failing open")
				return next(c)
			}
			if !ok {
				metrics.RateLimitRejectedTotal.Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests, please try again later")
			}
			return next(c)
		}
	}
}
