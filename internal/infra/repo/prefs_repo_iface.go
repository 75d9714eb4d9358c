package repo

import (
	"context"

	"go_mock_panel/internal/domain/model/prefs"
)

// PrefsRepositoryIface 会话偏好仓库
type PrefsRepositoryIface interface {
	// FindBySession returns nil, nil when nothing was saved for the session.
	FindBySession(ctx context.Context, sessionID string) (*prefs.PanelPrefs, error)
	SavePrefs(ctx context.Context, p *prefs.PanelPrefs) error
	// SavePrefsAsync queues a save on the worker pool and returns immediately.
	SavePrefsAsync(p *prefs.PanelPrefs)
	DeletePrefs(ctx context.Context, sessionID string) error
	Close()
}
