/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/suderio/draconic-maneuvers/internal/session"
)

// campaignCmd represents the campaign command
var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Manage campaign event logs",
	Long: `The campaign command manages the event-sourced journals of combat
scenes, each isolated within a specific world's namespace.

Use subcommands 'create' and 'load' to manipulate the log.jsonl files under
<worlds_dir>/<world>/<campaign>.`,
}

func init() {
	rootCmd.AddCommand(campaignCmd)
}

// campaignArgs resolves the world and campaign named on the command line.
func campaignArgs(args []string) (*session.CampaignManager, string, string, error) {
	if len(args) != 2 {
		return nil, "", "", fmt.Errorf("must specify [world_name] and [campaign_name]")
	}
	worldsDir := viper.GetString("worlds_dir")
	if worldsDir == "" {
		worldsDir = "./worlds"
	}
	return session.NewCampaignManager(worldsDir), args[0], args[1], nil
}
