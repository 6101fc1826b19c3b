package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit creates a per-client rate limiter. It guards the evaluation
// endpoint against rapid re-submission beyond what the in-flight check
// already blocks.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return fmt.Sprintf("%s:%s", identifier, c.IP())
		},
	})
}

// MethodGuard applies inner only to requests with the given method.
func MethodGuard(method string, inner fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != method {
			return c.Next()
		}
		return inner(c)
	}
}
