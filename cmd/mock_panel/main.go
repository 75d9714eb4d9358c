// mock_panel serves the mock administration panel API.
package main

import (
	"fmt"
	"os"

	configs "go_mock_panel/internal/infra/config"
	"go_mock_panel/utils"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "mock_panel",
	Short:         "Administration panel for HTTP mock definitions",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "panel config file (default panel.<PANEL_ENV>.yaml)")
}

// loadConfig reads --config when given, otherwise the environment driven
// default location.
func loadConfig() (*configs.PanelConfig, error) {
	if configPath != "" {
		return configs.LoadPanelConfigFrom(configPath)
	}
	return configs.LoadPanelConfig()
}

func initLogger(c *configs.PanelConfig) {
	utils.InitLogger(utils.LogOptions{
		Level:      c.Log.Level,
		FilePath:   c.Log.FilePath,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
