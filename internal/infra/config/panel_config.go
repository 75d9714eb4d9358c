package configs

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath = "PANEL_CONFIG_PATH"
	EnvName       = "PANEL_ENV"
	// EnvBackendURL overrides backend.url, the default every session starts with.
	EnvBackendURL = "MOCK_PANEL_BACKEND_URL"
)

// PanelConfig 面板服务配置
type PanelConfig struct {
	Panel                PanelOptions         `yaml:"panel"`
	Backend              BackendConfig        `yaml:"backend"`
	Log                  LogConfig            `yaml:"log"`
	Prefs                PrefsConfig          `yaml:"prefs"`
	DatabaseConfig       DatabaseConfig       `yaml:"database"`
	DatabaseOptionConfig DatabaseOptionConfig `yaml:"databaseConfig"`
	RedisConfig          RedisConfig          `yaml:"redis"`
	PrefsRepoConfig      PrefsRepoConfig      `yaml:"prefsRepo"`
}

type PanelOptions struct {
	DefaultSession string `yaml:"defaultSession"`
	NoticeLimit    int    `yaml:"noticeLimit"`
	// MaxSessions caps live sessions; the least recently used one is
	// dropped to make room.
	MaxSessions int `yaml:"maxSessions"`
	// SessionIdleTTL drops sessions unused for longer, 0 keeps them.
	SessionIdleTTL time.Duration `yaml:"sessionIdleTTL"`
}

// BackendConfig where mocks are loaded from
type BackendConfig struct {
	URL        string        `yaml:"url"`
	Timeout    time.Duration `yaml:"timeout"`
	RetryCount int           `yaml:"retryCount"`
	RetryDelay time.Duration `yaml:"retryDelay"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	FilePath   string `yaml:"filePath"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// PrefsConfig turns sticky per-session preferences on. When disabled no
// database or redis connection is made.
type PrefsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// PrefsRepoConfig retry and pool settings of the preferences repository
type PrefsRepoConfig struct {
	RedisCacheRetryCount int           `json:"redisCacheRetryCount" yaml:"redisCacheRetryCount"`
	RedisCacheRetryDelay time.Duration `json:"redisCacheRetryDelay" yaml:"redisCacheRetryDelay"`
	SaveDBRetryCount     int           `json:"saveDBRetryCount" yaml:"saveDBRetryCount"`
	SaveDBRetryDelay     time.Duration `json:"saveDBRetryDelay" yaml:"saveDBRetryDelay"`
	PoolSize             int           `json:"poolSize" yaml:"poolSize"`
}

// Default returns the configuration used when no file is present.
func Default() *PanelConfig {
	return &PanelConfig{
		Panel: PanelOptions{
			DefaultSession: "default",
			NoticeLimit:    50,
			MaxSessions:    1000,
			SessionIdleTTL: 30 * time.Minute,
		},
		Backend: BackendConfig{
			URL:        "http://localhost:8080",
			Timeout:    10 * time.Second,
			RetryCount: 1,
		},
		Log: LogConfig{Level: "info"},
		DatabaseOptionConfig: DatabaseOptionConfig{
			MaxIdleConns:    5,
			MaxOpenConns:    10,
			ConnMaxLifetime: time.Hour,
			LogLevel:        "warn",
		},
		PrefsRepoConfig: PrefsRepoConfig{
			RedisCacheRetryCount: 3,
			RedisCacheRetryDelay: 100 * time.Millisecond,
			SaveDBRetryCount:     3,
			SaveDBRetryDelay:     200 * time.Millisecond,
			PoolSize:             8,
		},
	}
}

// LoadPanelConfig 加载配置. A missing file at the default location falls
// back to Default; an explicitly configured path must exist.
func LoadPanelConfig() (*PanelConfig, error) {
	path, explicit := getConfigPath()
	config, err := LoadPanelConfigFrom(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		config = Default()
		err = config.finish()
	}
	return config, err
}

// LoadPanelConfigFrom reads, overrides from the environment and validates
// the YAML file at path.
func LoadPanelConfigFrom(path string) (*PanelConfig, error) {
	configFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(configFile, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.finish(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *PanelConfig) finish() error {
	if v := os.Getenv(EnvBackendURL); v != "" {
		c.Backend.URL = v
	}
	if err := c.validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// getConfigPath 获取配置文件路径
func getConfigPath() (string, bool) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path, true
	}
	env := os.Getenv(EnvName)
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("panel.%s.yaml", env), false
}

// validate 验证配置
func (c *PanelConfig) validate() error {
	if c.Backend.URL != "" {
		u, err := url.Parse(c.Backend.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("backend url %q must be an absolute http(s) url", c.Backend.URL)
		}
	}
	if c.Backend.RetryCount < 1 {
		return fmt.Errorf("backend retryCount must be at least 1")
	}
	if c.Panel.NoticeLimit <= 0 {
		return fmt.Errorf("panel noticeLimit must be positive")
	}
	if c.Panel.MaxSessions <= 0 {
		return fmt.Errorf("panel maxSessions must be positive")
	}
	if c.Panel.SessionIdleTTL < 0 {
		return fmt.Errorf("panel sessionIdleTTL must not be negative")
	}
	if c.Panel.DefaultSession == "" {
		return fmt.Errorf("panel defaultSession is required")
	}

	if !c.Prefs.Enabled {
		return nil
	}
	if err := c.DatabaseConfig.validate(); err != nil {
		return err
	}
	if err := c.DatabaseOptionConfig.validate(); err != nil {
		return err
	}
	if err := c.RedisConfig.validate(); err != nil {
		return err
	}
	if c.PrefsRepoConfig.PoolSize <= 0 {
		return fmt.Errorf("prefsRepo poolSize must be positive")
	}
	return nil
}
