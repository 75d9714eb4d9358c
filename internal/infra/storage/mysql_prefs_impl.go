package storage

import (
	"context"
	"errors"
	"fmt"

	"go_mock_panel/internal/domain/model/prefs"
	configs "go_mock_panel/internal/infra/config"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type MysqlPrefsStorage struct {
	mysqlClient *gorm.DB
}

// NewMySQLClient opens the preferences database and migrates its table.
func NewMySQLClient(c *configs.PanelConfig) *gorm.DB {
	db, err := gorm.Open(mysql.Open(c.DatabaseConfig.GetDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(c.DatabaseOptionConfig.LogLevel)),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect database: %v", err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(fmt.Sprintf("failed to get sql.DB: %v", err))
	}
	opts := c.DatabaseOptionConfig
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(opts.ConnMaxIdleTime)

	if err := MigratePrefs(db); err != nil {
		panic(err.Error())
	}
	return db
}

// MigratePrefs creates or updates the panel_prefs table.
func MigratePrefs(db *gorm.DB) error {
	if err := db.AutoMigrate(&prefs.PanelPrefs{}); err != nil {
		return fmt.Errorf("failed to migrate panel_prefs: %w", err)
	}
	return nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func NewMysqlPrefsStorage(mysqlClient *gorm.DB) MySQLPrefsStorageIface {
	return &MysqlPrefsStorage{mysqlClient: mysqlClient}
}

var _ MySQLPrefsStorageIface = (*MysqlPrefsStorage)(nil)

// SavePrefsToDB writes p unless the stored row already has the same or a
// newer version, in which case ErrStalePrefs is returned.
func (s *MysqlPrefsStorage) SavePrefsToDB(ctx context.Context, p *prefs.PanelPrefs) error {
	db := s.mysqlClient.WithContext(ctx)

	res := db.Model(&prefs.PanelPrefs{}).
		Where("session_id = ? AND version < ?", p.SessionID, p.Version).
		Updates(map[string]interface{}{
			"selected_folder": p.SelectedFolder,
			"backend_url":     p.BackendURL,
			"version":         p.Version,
			"updated_at":      p.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update prefs of %s in mysql: %w", p.SessionID, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// 没有更新到: 要么还没有这一行, 要么库里的版本更新
	res = db.Clauses(clause.OnConflict{DoNothing: true}).Create(p)
	if res.Error != nil {
		return fmt.Errorf("failed to insert prefs of %s into mysql: %w", p.SessionID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("prefs of %s at version %d: %w", p.SessionID, p.Version, ErrStalePrefs)
	}
	return nil
}

func (s *MysqlPrefsStorage) GetPrefsFromDB(ctx context.Context, sessionID string) (*prefs.PanelPrefs, error) {
	p := &prefs.PanelPrefs{}
	if err := s.mysqlClient.WithContext(ctx).First(p, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prefs from mysql: %w", err)
	}
	return p, nil
}

func (s *MysqlPrefsStorage) DeletePrefsFromDB(ctx context.Context, sessionID string) error {
	if err := s.mysqlClient.WithContext(ctx).Delete(&prefs.PanelPrefs{}, "session_id = ?", sessionID).Error; err != nil {
		return fmt.Errorf("failed to delete prefs from mysql: %w", err)
	}
	return nil
}
