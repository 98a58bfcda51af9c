package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	lru "github.com/hashicorp/golang-lru"

	"github.com/NestcoinCo/bren/backend/utils"
	"github.com/NestcoinCo/bren/bren/database/repositories"
)

const apiKeyHeader = "x-api-key"

type cachedKey struct {
	active    bool
	expiresAt time.Time
}

// APIKeyAuth validates the x-api-key header against stored credentials.
// Lookups are cached for a short TTL so the hot path stays off the database;
// a revoked key keeps working for at most the TTL.
type APIKeyAuth struct {
	credentials repositories.CredentialRepository
	cache       *lru.Cache
	ttl         time.Duration
}

func NewAPIKeyAuth(credentials repositories.CredentialRepository) *APIKeyAuth {
	cache, _ := lru.New(512)
	return &APIKeyAuth{
		credentials: credentials,
		cache:       cache,
		ttl:         time.Minute,
	}
}

// Require returns a middleware that rejects requests without an active key.
func (a *APIKeyAuth) Require() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := strings.TrimSpace(c.Get(apiKeyHeader))
		if key == "" {
			return utils.SendUnauthorized(c, "Missing API key")
		}

		active, err := a.isActive(c, key)
		if err != nil {
			slog.Error("API key lookup failed",
				slog.String("path", c.Path()),
				slog.String("error", err.Error()),
				slog.String("type", "web"))
			return utils.SendInternalServerError(c, "Could not validate API key")
		}
		if !active {
			slog.Warn("Rejected request with invalid API key",
				slog.String("path", c.Path()),
				slog.String("ip", utils.GetIPAddress(c)),
				slog.String("type", "web"))
			return utils.SendUnauthorized(c, "Invalid API key")
		}

		return c.Next()
	}
}

func (a *APIKeyAuth) isActive(c *fiber.Ctx, key string) (bool, error) {
	if v, ok := a.cache.Get(key); ok {
		entry := v.(cachedKey)
		if time.Now().Before(entry.expiresAt) {
			return entry.active, nil
		}
	}

	active, err := a.credentials.IsActiveKey(c.Context(), key)
	if err != nil {
		return false, err
	}
	a.cache.Add(key, cachedKey{active: active, expiresAt: time.Now().Add(a.ttl)})
	return active, nil
}
