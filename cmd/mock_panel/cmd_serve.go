package main

import (
	"fmt"

	"go_mock_panel/utils"

	"github.com/go-chassis/go-chassis/v2"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the panel REST API (go-chassis, conf/ next to the binary)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		initLogger(cfg)
		log := utils.GetLogger()

		controller, cleanup, err := InitializePanelController(cfg)
		if err != nil {
			return fmt.Errorf("wire panel: %w", err)
		}
		defer cleanup()

		chassis.RegisterSchema("rest", controller)
		if err := chassis.Init(); err != nil {
			return fmt.Errorf("init chassis: %w", err)
		}
		log.WithField("backend_url", cfg.Backend.URL).Info("mock panel starting")
		return chassis.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
