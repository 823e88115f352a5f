/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suderio/draconic-maneuvers/internal/session"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create [world_name] [campaign_name]",
	Short: "Create a new campaign log in a world",
	Long: `Bootstraps a fresh append-only log.jsonl and an actors/ roster directory
under <worlds_dir>/<world_name>/<campaign_name>.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, world, campaign, err := campaignArgs(args)
		if err != nil {
			return err
		}

		logPath, err := manager.Create(world, campaign)
		if err != nil {
			return fmt.Errorf("failed to create campaign: %w", err)
		}
		store, err := session.NewStore(logPath)
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "Successfully created campaign!\n")
		fmt.Fprintf(cmd.OutOrStdout(), "Log file stored at: %s\n", logPath)
		return nil
	},
}

func init() {
	campaignCmd.AddCommand(createCmd)
}
