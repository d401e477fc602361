package blog

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pagrico/blog/internal/logger"
)

// revalidateHook is the part of a Sanity webhook payload worth logging.
type revalidateHook struct {
	Type string `json:"_type"`
	ID   string `json:"_id"`
	Slug string `json:"slug"`
}

// handleRevalidate drops cached CMS responses so the next page view sees
// freshly published content. It is meant for a Sanity webhook and is
// disabled unless RevalidateSecret is set.
func (a *App) handleRevalidate(c echo.Context) error {
	if a.Config.RevalidateSecret == "" {
		return echo.ErrNotFound
	}
	if !a.revalidateLimiter.Allow(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
	}
	secret := c.Request().Header.Get("X-Revalidate-Secret")
	if secret == "" {
		secret = c.QueryParam("secret")
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(a.Config.RevalidateSecret)) != 1 {
		logger.WarnWithFields("revalidate rejected", logger.Fields{"remote_ip": c.RealIP()})
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid secret"})
	}

	var hook revalidateHook
	if err := c.Bind(&hook); err != nil {
		logger.DebugWithFields("revalidate payload ignored", logger.Fields{"error": err.Error()})
	}
	a.Sanity.Invalidate()
	logger.InfoWithFields("content cache invalidated", logger.Fields{
		"type": hook.Type,
		"id":   hook.ID,
		"slug": hook.Slug,
	})
	return c.JSON(http.StatusOK, map[string]any{
		"revalidated": true,
		"now":         time.Now().UTC().Format(time.RFC3339),
	})
}
