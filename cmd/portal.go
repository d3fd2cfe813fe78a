package cmd

import (
	"fmt"

	"github.com/autana/helpdesk/internal/config"
	"github.com/autana/helpdesk/internal/tui"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var portalCmd = &cobra.Command{
	Use:   "portal",
	Short: "Run the terminal portal against API_BASE_URL",
	RunE:  runPortal,
}

func runPortal(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return tui.Run(cfg.APIBaseURL, cfg.BotName)
}
