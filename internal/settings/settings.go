package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	themeTTL = 365 * 24 * time.Hour
)

var ErrInvalidTheme = errors.New("theme must be dark or light")

func themeKey(sessionID string) string {
	return fmt.Sprintf("settings:theme:%s", sessionID)
}

// Service keeps per-session display preferences in Redis.
type Service struct {
	client *redis.Client
	log    *zap.Logger
}

func NewService(client *redis.Client, log *zap.Logger) *Service {
	return &Service{client: client, log: log}
}

// Theme returns the stored theme for the session. Missing or unreadable
// values fall back to light so a store hiccup never breaks rendering.
func (s *Service) Theme(ctx context.Context, sessionID string) string {
	value, err := s.client.Get(ctx, themeKey(sessionID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("failed to read theme", zap.String("session_id", sessionID), zap.Error(err))
		}
		return ThemeLight
	}
	if value != ThemeDark && value != ThemeLight {
		return ThemeLight
	}
	return value
}

func (s *Service) SetTheme(ctx context.Context, sessionID, theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		return ErrInvalidTheme
	}
	if err := s.client.Set(ctx, themeKey(sessionID), theme, themeTTL).Err(); err != nil {
		return fmt.Errorf("failed to store theme: %w", err)
	}
	return nil
}
