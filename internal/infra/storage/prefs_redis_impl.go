package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go_mock_panel/internal/domain/model/prefs"
	configs "go_mock_panel/internal/infra/config"
	"go_mock_panel/utils"

	"github.com/go-redis/redis/v8"
)

const prefsKeyPrefix = "panel_prefs:"

type redisPrefsCacheImpl struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewRedisClient(c *configs.PanelConfig) *redis.Client {
	rc := c.RedisConfig
	client := redis.NewClient(&redis.Options{
		Addr:         rc.Addr(),
		Password:     rc.Password,
		DB:           rc.Database,
		PoolSize:     rc.PoolSize,
		MinIdleConns: rc.MinIdleConns,
		MaxRetries:   rc.MaxRetries,
		DialTimeout:  rc.DialTimeout,
		ReadTimeout:  rc.ReadTimeout,
		WriteTimeout: rc.WriteTimeout,
		PoolTimeout:  rc.PoolTimeout,
		IdleTimeout:  rc.IdleTimeout,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}
	utils.GetLogger().Infof("connected to redis at %s", rc.Addr())
	return client
}

func NewRedisPrefsCache(redisClient *redis.Client, c *configs.PanelConfig) RedisPrefsCacheIface {
	return &redisPrefsCacheImpl{
		redisClient: redisClient,
		ttl:         c.RedisConfig.KeyTTL,
	}
}

var _ RedisPrefsCacheIface = (*redisPrefsCacheImpl)(nil)

func (r *redisPrefsCacheImpl) SetPrefsToCache(ctx context.Context, p *prefs.PanelPrefs) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal prefs to JSON: %w", err)
	}
	if err := r.redisClient.Set(ctx, prefsKeyPrefix+p.SessionID, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set prefs to redis: %w", err)
	}
	return nil
}

func (r *redisPrefsCacheImpl) GetPrefsFromCache(ctx context.Context, sessionID string) (*prefs.PanelPrefs, error) {
	raw, err := r.redisClient.Get(ctx, prefsKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	} else if err != nil {
		return nil, fmt.Errorf("failed to get prefs from redis: %w", err)
	}

	p := &prefs.PanelPrefs{}
	if err := json.Unmarshal([]byte(raw), p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prefs from JSON: %w", err)
	}
	return p, nil
}

func (r *redisPrefsCacheImpl) DeletePrefsFromCache(ctx context.Context, sessionID string) error {
	if err := r.redisClient.Del(ctx, prefsKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete prefs from redis: %w", err)
	}
	return nil
}
