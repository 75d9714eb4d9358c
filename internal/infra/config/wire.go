package configs

import "github.com/google/wire"

var ConfigSet = wire.NewSet(
	NewBackendConfig,
)

func NewBackendConfig(c *PanelConfig) *BackendConfig {
	return &c.Backend
}
