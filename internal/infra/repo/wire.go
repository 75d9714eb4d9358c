package repo

import (
	configs "go_mock_panel/internal/infra/config"
	"go_mock_panel/internal/infra/storage"
	"go_mock_panel/utils"

	"github.com/google/wire"
)

var Reposet = wire.NewSet(
	NewPrefsRepository,
)

// NewPrefsRepository connects mysql and redis only when prefs are enabled.
func NewPrefsRepository(c *configs.PanelConfig) (PrefsRepositoryIface, func()) {
	if !c.Prefs.Enabled {
		utils.GetLogger().Info("panel prefs disabled, sessions are not remembered")
		return NewNoopPrefsRepo(), func() {}
	}

	db := storage.NewMySQLClient(c)
	rdb := storage.NewRedisClient(c)
	r := NewPrefsRepoImpl(
		storage.NewMysqlPrefsStorage(db),
		storage.NewRedisPrefsCache(rdb, c),
		&c.PrefsRepoConfig,
	)
	return r, func() {
		r.Close()
		if err := rdb.Close(); err != nil {
			utils.GetLogger().Warnf("close redis: %v", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
