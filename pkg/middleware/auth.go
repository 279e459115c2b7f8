// Package middleware holds the fiber middleware shared by the API routes.
package middleware

import (
	"errors"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"

	"github.com/hbenmansour/cashops/pkg/config"
)

// JwtProtected guards a route with JWT verification. The verified token is
// stored under the "user" local for the handlers to resolve the actor.
func JwtProtected(cfg config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ContextKey:   "user",
		ErrorHandler: jwtError,
	})
}

// jwtError answers every token failure with 401; the message distinguishes an
// absent or malformed token from one that failed verification.
func jwtError(c *fiber.Ctx, err error) error {
	message := "Invalid or expired JWT"
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		message = "Missing or malformed JWT"
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": message})
}
