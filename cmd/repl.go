/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/suderio/draconic-maneuvers/internal/session"
)

var replCmd = &cobra.Command{
	Use:   "repl [world_name] [campaign_name]",
	Short: "Start the interactive REPL shell",
	Long: `Starts the read-eval-print loop for running a combat scene.
Usage:
	> token place robin move: 6
	> encounter create ambush
	> combatant add ambush token: robin
	> maneuver set robin allout_attack`,
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

		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		app, err := session.NewSession(store, session.Config{
			GM:       viper.GetString("gm_user"),
			User:     viper.GetString("user"),
			Locale:   viper.GetString("locale"),
			DataDirs: manager.DataDirs(world, campaign),
			Logger:   logger.With(zap.String("world", world), zap.String("campaign", campaign)),
		})
		if err != nil {
			store.Close()
			return fmt.Errorf("failed to bootstrap game session: %w", err)
		}
		defer app.Close()

		if plain, _ := cmd.Flags().GetBool("plain"); plain {
			return runPlain(cmd.Context(), app, cmd.InOrStdin(), cmd.OutOrStdout())
		}
		return RunTUI(app, world, campaign)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().Bool("plain", false, "read commands line by line instead of starting the TUI")
}

// runPlain executes one command per input line until EOF, "exit" or "quit".
func runPlain(ctx context.Context, app *session.Session, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		res, err := app.Execute(ctx, line)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		for _, msg := range res.Messages() {
			fmt.Fprintln(out, msg)
		}
	}
}
