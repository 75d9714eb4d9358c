package repo

import (
	"context"

	"go_mock_panel/internal/domain/model/prefs"
)

// noopPrefsRepo is used when preferences are disabled: nothing is
// remembered and every session starts from the configured defaults.
type noopPrefsRepo struct{}

var _ PrefsRepositoryIface = noopPrefsRepo{}

func NewNoopPrefsRepo() PrefsRepositoryIface { return noopPrefsRepo{} }

func (noopPrefsRepo) FindBySession(context.Context, string) (*prefs.PanelPrefs, error) {
	return nil, nil
}

func (noopPrefsRepo) SavePrefs(context.Context, *prefs.PanelPrefs) error { return nil }

func (noopPrefsRepo) SavePrefsAsync(*prefs.PanelPrefs) {}

func (noopPrefsRepo) DeletePrefs(context.Context, string) error { return nil }

func (noopPrefsRepo) Close() {}
