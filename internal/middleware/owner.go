package middleware

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// OwnerHeader carries the authenticated owner ID set by the upstream gateway
const OwnerHeader = "X-Owner-ID"

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// OwnerIDKey is the context key for the owner ID
const OwnerIDKey contextKey = "owner_id"

// OwnerIdentity returns an Echo middleware that requires a valid owner header.
// Browsers cannot set headers on websocket upgrades, so the owner query
// parameter is accepted as well.
func OwnerIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(OwnerHeader))
			if raw == "" {
				raw = strings.TrimSpace(c.QueryParam("owner"))
			}
			if raw == "" {
				return unauthorizedError(c, "Missing "+OwnerHeader+" header")
			}

			ownerID, err := uuid.Parse(raw)
			if err != nil || ownerID == uuid.Nil {
				log.Debug().Str("owner_id", raw).Msg("Rejected malformed owner id")
				return unauthorizedError(c, "Invalid "+OwnerHeader+" header")
			}

			c.SetRequest(c.Request().WithContext(WithOwnerID(c.Request().Context(), ownerID)))
			return next(c)
		}
	}
}

// WithOwnerID returns a context carrying ownerID
func WithOwnerID(ctx context.Context, ownerID uuid.UUID) context.Context {
	return context.WithValue(ctx, OwnerIDKey, ownerID)
}

// GetOwnerID extracts the owner ID from the context
func GetOwnerID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(OwnerIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
