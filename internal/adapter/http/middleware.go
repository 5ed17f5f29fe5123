package http

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/simaogato/ledgerflow-backend/internal/adapter/ratelimit"
	"github.com/simaogato/ledgerflow-backend/internal/domain"
)

const identityKey = "identity"

// observe writes the access log line and records request metrics
// Errors from the chain are rendered here so the logged status is the one sent
func (s *Server) observe(c *fiber.Ctx) error {
	start := time.Now()

	if err := c.Next(); err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	elapsed := time.Since(start)
	status := c.Response().StatusCode()

	level := zapcore.InfoLevel
	switch {
	case status >= fiber.StatusInternalServerError:
		level = zapcore.ErrorLevel
	case status >= fiber.StatusBadRequest:
		level = zapcore.WarnLevel
	}
	if ce := s.log.Check(level, "http request"); ce != nil {
		ce.Write(
			zap.String("request_id", requestID(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Float64("duration_ms", float64(elapsed.Microseconds())/1000),
			zap.String("client_ip", c.IP()),
		)
	}

	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveRequest(c.Method(), routeLabel(c), strconv.Itoa(status), elapsed)
	}
	return nil
}

// routeLabel keeps metric cardinality bounded by using the route pattern
func routeLabel(c *fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "" {
		return r.Path
	}
	return "unmatched"
}

func requestID(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

// requestTimeout bounds the use case work of each request
func requestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if d <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// bearerAuth resolves the Authorization header to an identity stored in Locals
func bearerAuth(verifier domain.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return domain.NewUnauthorizedError("No token provided")
		}

		identity, err := verifier.VerifyAccessToken(strings.TrimSpace(token))
		if err != nil {
			return err
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// identityFrom returns the caller set by bearerAuth
func identityFrom(c *fiber.Ctx) domain.Identity {
	identity, _ := c.Locals(identityKey).(domain.Identity)
	return identity
}

// rateLimit rejects clients over their per-window budget with 429
// A failing limiter store lets the request through
func rateLimit(limiter ratelimit.Limiter, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}

		decision, err := limiter.Allow(c.UserContext(), c.IP())
		if err != nil {
			log.Warn("rate limiter unavailable", zap.String("request_id", requestID(c)), zap.Error(err))
			return c.Next()
		}
		if !decision.Allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(decision.RetryAfter.Seconds()))))
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please try again later")
		}

		c.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		return c.Next()
	}
}
