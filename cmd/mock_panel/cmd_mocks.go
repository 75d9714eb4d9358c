package main

import (
	"encoding/json"
	"fmt"
	"os"

	"go_mock_panel/internal/domain/store"
	"go_mock_panel/internal/infra/backend"
	"go_mock_panel/utils"

	"github.com/spf13/cobra"
)

var (
	mocksBackend string
	mocksFolder  string
	mocksSearch  string
)

var mocksCmd = &cobra.Command{
	Use:   "mocks",
	Short: "Load mocks from a backend and print the filtered view as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		initLogger(cfg)
		// stdout carries the JSON result
		utils.GetLogger().SetOutput(os.Stderr)

		backendURL := cfg.Backend.URL
		if mocksBackend != "" {
			backendURL = mocksBackend
		}

		s := store.NewStore(store.WithInitialState(store.State{BackendURL: backendURL}))
		if err := s.Load(cmd.Context(), backend.NewMockClient(&cfg.Backend)); err != nil {
			return err
		}
		// an explicit empty --folder lists every folder
		if cmd.Flags().Changed("folder") {
			if err := s.SetSelectedFolder(mocksFolder); err != nil {
				return err
			}
		}
		s.SetSearch(mocksSearch)

		data, err := json.MarshalIndent(s.FilteredView(), "", "  ")
		if err != nil {
			return fmt.Errorf("encode mocks: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	mocksCmd.Flags().StringVar(&mocksBackend, "backend", "", "backend base URL (default from config / MOCK_PANEL_BACKEND_URL)")
	mocksCmd.Flags().StringVar(&mocksFolder, "folder", "", "only mocks of this folder (default: first folder)")
	mocksCmd.Flags().StringVar(&mocksSearch, "search", "", "case-insensitive path or method filter")
	rootCmd.AddCommand(mocksCmd)
}
