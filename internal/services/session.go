package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leasezero/leasezero-backend/internal/models"
)

const (
	// prefsKeyPrefix is the Redis key prefix for per-wallet preferences.
	prefsKeyPrefix = "prefs:"
	// prefsTTL: preferences expire after 30 days of inactivity.
	prefsTTL = 30 * 24 * time.Hour
)

// Preferences is the per-wallet session state the portals need across
// visits: selected role and accessibility settings.
type Preferences struct {
	Role         models.UserRole `json:"role,omitempty"`
	HighContrast bool            `json:"highContrast"`
	FontSize     int             `json:"fontSize"`
}

// SessionService stores per-wallet preferences in Redis. Redis being down
// degrades to defaults; preferences are never load-bearing.
type SessionService struct {
	redis *redis.Client
}

func NewSessionService(rdb *redis.Client) *SessionService {
	return &SessionService{redis: rdb}
}

// Save persists the wallet's preferences and refreshes their expiry.
func (s *SessionService) Save(ctx context.Context, address string, prefs Preferences) error {
	if s.redis == nil {
		return nil
	}
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, prefsKey(address), data, prefsTTL).Err()
}

// Get returns the wallet's stored preferences, or defaults when absent or
// unreadable.
func (s *SessionService) Get(ctx context.Context, address string) Preferences {
	defaults := Preferences{FontSize: 16}
	if s.redis == nil {
		return defaults
	}

	val, err := s.redis.Get(ctx, prefsKey(address)).Result()
	if err != nil {
		return defaults
	}
	var prefs Preferences
	if err := json.Unmarshal([]byte(val), &prefs); err != nil {
		return defaults
	}
	if prefs.FontSize == 0 {
		prefs.FontSize = 16
	}
	return prefs
}

func prefsKey(address string) string {
	return prefsKeyPrefix + strings.ToLower(address)
}
