package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/qrave1/markcollab/internal/application/constant"
	"github.com/qrave1/markcollab/internal/application/metric"
	"github.com/qrave1/markcollab/internal/usecase"
)

// RateLimit ограничивает частоту запросов по IP клиента.
// При недоступности хранилища счётчиков запрос пропускается.
func RateLimit(abuseUsecase usecase.AbuseUsecase, policy usecase.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clientIP := c.RealIP()

			decision, err := abuseUsecase.Allow(c.Request().Context(), policy, clientIP)
			if err != nil {
				slog.Error(
					"rate limit check failed",
					slog.Any(constant.Error, err),
					slog.String(constant.ClientIP, clientIP),
				)
			}

			if decision.Allowed {
				return next(c)
			}

			metric.IncrementRateLimited(policy.Name)

			slog.Warn(
				"rate limit exceeded",
				slog.String(constant.ClientIP, clientIP),
				slog.String("policy", policy.Name),
			)

			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))

			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
		}
	}
}
