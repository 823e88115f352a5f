/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/suderio/draconic-maneuvers/internal/engine"
	"github.com/suderio/draconic-maneuvers/internal/session"
)

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load [world_name] [campaign_name]",
	Short: "Load a campaign and print the current scene",
	Long: `Reads the log.jsonl of a specific campaign and rebuilds the scene via
the event Projector, listing every token with its maneuver.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, world, campaign, err := campaignArgs(args)
		if err != nil {
			return err
		}

		logPath, err := manager.Load(world, campaign)
		if err != nil {
			return err
		}
		store, err := session.NewStore(logPath)
		if err != nil {
			return err
		}
		defer store.Close()

		events, err := store.Load()
		if err != nil {
			return fmt.Errorf("failed to read event log: %w", err)
		}
		state, err := engine.NewProjector().Build(events)
		if err != nil {
			return fmt.Errorf("failed to build state: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Successfully loaded campaign!\n")
		fmt.Fprintf(cmd.OutOrStdout(), "Processed %d events.\n", len(events))
		fmt.Fprint(cmd.OutOrStdout(), renderScene(state))
		return nil
	},
}

func init() {
	campaignCmd.AddCommand(loadCmd)
}

// renderScene lists encounters and tokens in id order.
func renderScene(state *engine.GameState) string {
	out := ""
	encounters := make([]string, 0, len(state.Encounters))
	for id := range state.Encounters {
		encounters = append(encounters, id)
	}
	sort.Strings(encounters)
	if len(encounters) == 0 {
		out += "No active encounters.\n"
	}
	for _, id := range encounters {
		enc := state.Encounters[id]
		out += fmt.Sprintf("Encounter %s (%d combatants)\n", id, len(enc.Combatants))
	}

	tokens := make([]string, 0, len(state.Tokens))
	for id := range state.Tokens {
		tokens = append(tokens, id)
	}
	sort.Strings(tokens)
	if len(tokens) == 0 {
		out += "No tokens placed.\n"
	}
	for _, id := range tokens {
		tok := state.Tokens[id]
		marker := ""
		if id == state.Acting {
			marker = " *"
		}
		name, ok := tok.Maneuver()
		if !ok {
			name = "-"
		}
		out += fmt.Sprintf(" - %s (%s) Move %d: %s%s\n", id, tok.Name, tok.BasicMove, name, marker)
	}
	return out
}
