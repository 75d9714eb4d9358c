package storage

import (
	"context"
	"errors"

	"go_mock_panel/internal/domain/model/prefs"
)

var (
	// ErrCacheMiss is returned by the cache when a session has no entry.
	ErrCacheMiss = errors.New("prefs not in cache")
	// ErrStalePrefs is returned when a newer version is already stored.
	ErrStalePrefs = errors.New("stored prefs are newer")
)

type MySQLPrefsStorageIface interface {
	// SavePrefsToDB inserts or replaces the row of p.SessionID when
	// p.Version is newer than the stored one
	SavePrefsToDB(ctx context.Context, p *prefs.PanelPrefs) error
	// GetPrefsFromDB returns nil, nil when the session has no row
	GetPrefsFromDB(ctx context.Context, sessionID string) (*prefs.PanelPrefs, error)
	DeletePrefsFromDB(ctx context.Context, sessionID string) error
}

// RedisPrefsCacheIface 定义 Redis 缓存操作接口
type RedisPrefsCacheIface interface {
	GetPrefsFromCache(ctx context.Context, sessionID string) (*prefs.PanelPrefs, error)
	SetPrefsToCache(ctx context.Context, p *prefs.PanelPrefs) error
	DeletePrefsFromCache(ctx context.Context, sessionID string) error
}
