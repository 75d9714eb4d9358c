//go:build wireinject
// +build wireinject

package main

import (
	"go_mock_panel/app/mock_panel_app"
	"go_mock_panel/internal/domain/services"
	"go_mock_panel/internal/infra/backend"
	configs "go_mock_panel/internal/infra/config"
	"go_mock_panel/internal/infra/repo"

	"github.com/google/wire"
)

func InitializePanelController(c *configs.PanelConfig) (*mock_panel_app.PanelController, func(), error) {
	wire.Build(
		configs.ConfigSet,
		backend.BackendSet,
		repo.Reposet,
		services.ServiceSet,
		mock_panel_app.NewChassisRecorder,
		mock_panel_app.NewPanelController,
	)
	return nil, nil, nil
}
