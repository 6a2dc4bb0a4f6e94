package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
)

// Header is the API key header.
const Header = "X-API-Key"

// Config holds the auth middleware settings.
type Config struct {
	// ApiKey is the required key. An empty key disables authentication.
	ApiKey string
	// Skip lists path prefixes served without a key.
	Skip []string
}

// New returns a middleware that rejects requests without the API key.
// The key is accepted in the X-API-Key header or as a Bearer token.
func New(cfg Config) fiber.Handler {
	want := []byte(cfg.ApiKey)
	check := keyauth.New(keyauth.Config{
		Next: func(c *fiber.Ctx) bool {
			return len(want) == 0 || skipped(c.Path(), cfg.Skip)
		},
		KeyLookup: "header:" + Header,
		Validator: func(_ *fiber.Ctx, key string) (bool, error) {
			return subtle.ConstantTimeCompare([]byte(key), want) == 1, nil
		},
		ErrorHandler: func(c *fiber.Ctx, _ error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		},
	})

	return func(c *fiber.Ctx) error {
		if c.Get(Header) == "" {
			if token := bearer(c.Get(fiber.HeaderAuthorization)); token != "" {
				c.Request().Header.Set(Header, token)
			}
		}
		return check(c)
	}
}

func bearer(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func skipped(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
