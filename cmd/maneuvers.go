/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/suderio/draconic-maneuvers/internal/i18n"
	"github.com/suderio/draconic-maneuvers/internal/maneuver"
	"github.com/suderio/draconic-maneuvers/internal/rules"
)

var (
	nameStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	fieldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 1)
)

var maneuversCmd = &cobra.Command{
	Use:   "maneuvers",
	Short: "Inspect the maneuver catalog",
}

var maneuversListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every maneuver in display order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return writeCatalogJSON(cmd.OutOrStdout(), maneuver.Default())
		}
		bundle := i18n.Default()
		locale := viper.GetString("locale")
		for _, def := range maneuver.Default().Catalog().Definitions() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				nameStyle.Render(fmt.Sprintf("%-16s", def.Name())),
				bundle.Translate(locale, def.Label()))
		}
		return nil
	},
}

var maneuversShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show one maneuver and what it allows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		basicMove, _ := cmd.Flags().GetInt("move")
		card, err := renderManeuver(maneuver.Default(), args[0], basicMove, viper.GetString("locale"))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), card)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(maneuversCmd)
	maneuversCmd.AddCommand(maneuversListCmd, maneuversShowCmd)
	maneuversListCmd.Flags().Bool("json", false, "print the effect payloads as JSON")
	maneuversShowCmd.Flags().Int("move", 5, "Basic Move used to compute the movement allowance")
}

// writeCatalogJSON prints the payload of every maneuver keyed by name.
func writeCatalogJSON(w io.Writer, reg *maneuver.Registry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reg.GetAllData())
}

func renderManeuver(reg *maneuver.Registry, name string, basicMove int, locale string) (string, error) {
	def, ok := reg.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", maneuver.ErrUnknownManeuver, name)
	}
	ev, err := rules.NewEvaluator()
	if err != nil {
		return "", err
	}
	yards, err := ev.MoveAllowance(basicMove, def.Move())
	if err != nil {
		return "", err
	}
	defenses, err := ev.AllowedDefenses(def.Defense())
	if err != nil {
		return "", err
	}
	allowed := "-"
	if len(defenses) > 0 {
		allowed = strings.Join(defenses, ", ")
	}

	bundle := i18n.Default()
	field := func(key, value string) string {
		return fieldStyle.Render(bundle.Translate(locale, key)+":") + " " + value
	}
	lines := []string{
		nameStyle.Render(bundle.Translate(locale, def.Label())) + " (" + def.Name() + ")",
		field("ui.move", fmt.Sprintf("%d (%s)", yards, def.Move())),
		field("ui.defense", allowed),
		field("ui.fullTurn", fmt.Sprintf("%t", def.FullTurn())),
		field("ui.icon", def.Icon()),
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)), nil
}
