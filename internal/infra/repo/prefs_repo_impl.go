package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_mock_panel/internal/domain/model/prefs"
	configs "go_mock_panel/internal/infra/config"
	"go_mock_panel/internal/infra/storage"
	"go_mock_panel/utils"

	"github.com/avast/retry-go/v4"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/singleflight"
)

const asyncSaveTimeout = 10 * time.Second

// prefsRepoImpl mysql 为准, redis 做缓存
type prefsRepoImpl struct {
	mysqlStorage storage.MySQLPrefsStorageIface
	redisCache   storage.RedisPrefsCacheIface
	config       *configs.PrefsRepoConfig
	taskPool     *ants.Pool
	sfGroup      singleflight.Group
}

var _ PrefsRepositoryIface = (*prefsRepoImpl)(nil)

func NewPrefsRepoImpl(mysqlStorage storage.MySQLPrefsStorageIface, redisCache storage.RedisPrefsCacheIface, config *configs.PrefsRepoConfig) PrefsRepositoryIface {
	taskPool, err := ants.NewPool(max(config.PoolSize, 1))
	if err != nil {
		panic(fmt.Errorf("failed to create ants pool: %w", err))
	}

	return &prefsRepoImpl{
		mysqlStorage: mysqlStorage,
		redisCache:   redisCache,
		config:       config,
		taskPool:     taskPool,
	}
}

// FindBySession 先查缓存, 未命中再查数据库并回填
func (r *prefsRepoImpl) FindBySession(ctx context.Context, sessionID string) (*prefs.PanelPrefs, error) {
	log := utils.GetLogger()

	p, err := r.redisCache.GetPrefsFromCache(ctx, sessionID)
	if err == nil {
		log.Debugf("prefs found in cache: %s", sessionID)
		return p, nil
	}
	if !errors.Is(err, storage.ErrCacheMiss) {
		log.Warnf("prefs cache read failed, falling back to db: %v", err)
	}

	data, err, _ := r.sfGroup.Do("find_prefs_"+sessionID, func() (interface{}, error) {
		p, err := r.mysqlStorage.GetPrefsFromDB(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to get prefs from db: %w", err)
		}
		if p == nil {
			return (*prefs.PanelPrefs)(nil), nil
		}

		err = retry.Do(
			func() error {
				return r.redisCache.SetPrefsToCache(ctx, p)
			},
			r.cacheRetryOptions(ctx)...,
		)
		if err != nil {
			log.Warnf("failed to set prefs cache of %s: %v", sessionID, err)
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return data.(*prefs.PanelPrefs), nil
}

// SavePrefs 写数据库 (带重试) 后让缓存失效. A save older than the stored
// version is dropped without error.
func (r *prefsRepoImpl) SavePrefs(ctx context.Context, p *prefs.PanelPrefs) error {
	if p == nil || p.SessionID == "" {
		return fmt.Errorf("prefs without session id")
	}
	log := utils.GetLogger().WithField("session", p.SessionID)

	err := retry.Do(
		func() error {
			err := r.mysqlStorage.SavePrefsToDB(ctx, p)
			if errors.Is(err, storage.ErrStalePrefs) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Attempts(uint(max(r.config.SaveDBRetryCount, 1))),
		retry.Delay(r.config.SaveDBRetryDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if errors.Is(err, storage.ErrStalePrefs) {
		log.Debugf("skip stale prefs version %d", p.Version)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to save prefs to db: %w", err)
	}

	// 删除而不是覆盖缓存, 两次保存的先后顺序就无关紧要
	err = retry.Do(
		func() error {
			return r.redisCache.DeletePrefsFromCache(ctx, p.SessionID)
		},
		r.cacheRetryOptions(ctx)...,
	)
	if err != nil {
		log.Errorf("failed to invalidate prefs cache: %v", err)
	}
	return nil
}

func (r *prefsRepoImpl) SavePrefsAsync(p *prefs.PanelPrefs) {
	snapshot := *p
	if err := r.taskPool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncSaveTimeout)
		defer cancel()
		if err := r.SavePrefs(ctx, &snapshot); err != nil {
			utils.GetLogger().WithField("session", snapshot.SessionID).Errorf("async save prefs: %v", err)
		}
	}); err != nil {
		utils.GetLogger().Errorf("failed to submit prefs save task: %v", err)
	}
}

func (r *prefsRepoImpl) DeletePrefs(ctx context.Context, sessionID string) error {
	if err := r.mysqlStorage.DeletePrefsFromDB(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete prefs from db: %w", err)
	}

	err := retry.Do(
		func() error {
			return r.redisCache.DeletePrefsFromCache(ctx, sessionID)
		},
		r.cacheRetryOptions(ctx)...,
	)
	if err != nil {
		return fmt.Errorf("failed to delete prefs cache: %w", err)
	}
	return nil
}

// Close waits for queued saves to finish.
func (r *prefsRepoImpl) Close() {
	if err := r.taskPool.ReleaseTimeout(asyncSaveTimeout); err != nil {
		utils.GetLogger().Warnf("prefs pool release: %v", err)
	}
}

func (r *prefsRepoImpl) cacheRetryOptions(ctx context.Context) []retry.Option {
	return []retry.Option{
		retry.Attempts(uint(max(r.config.RedisCacheRetryCount, 1))),
		retry.Delay(r.config.RedisCacheRetryDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	}
}
