/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/suderio/draconic-maneuvers/internal/logging"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "maneuvers",
	Short: "GURPS combat maneuver tracker",
	Long: `maneuvers keeps an event-sourced log of a combat scene and tracks the
maneuver chosen by every token. Tokens joining an encounter start on
Do Nothing; leaving the encounter clears their maneuver.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.maneuvers.yaml)")
	flags.String("worlds_dir", "./worlds", "directory holding every world")
	flags.String("gm_user", "gm", "user name holding GM authority")
	flags.String("user", "", "user acting when a command has no by: block (default is the GM)")
	flags.String("locale", "en-US", "locale used for maneuver labels")
	flags.String("log_level", "warn", "log level: debug, info, warn, error")

	for _, key := range []string{"worlds_dir", "gm_user", "user", "locale", "log_level"} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".maneuvers")
	}

	viper.SetEnvPrefix("MANEUVERS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the logger configured by log_level.
func newLogger() (*zap.Logger, error) {
	return logging.NewLogger(viper.GetString("log_level"))
}
