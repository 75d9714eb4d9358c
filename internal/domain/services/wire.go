package services

import (
	"go_mock_panel/internal/domain/iface"

	"github.com/google/wire"
)

var ServiceSet = wire.NewSet(
	NewPanelService,
	wire.Bind(new(iface.PanelService), new(*PanelService)),
)
