package main

import (
	"fmt"
	"os"

	"github.com/aretw0/renfebot/internal/cli"
	"github.com/aretw0/renfebot/internal/config"
	"github.com/spf13/cobra"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "renfebot",
	Short: "renfebot is a Telegram bot that searches Renfe train tickets",
	Long: `renfebot asks for origin, destination, dates and optional filters, one
question at a time, then runs the train search and replies with the results.

Settings come from RENFEBOT_* environment variables; flags override them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("log-level") {
			cfg.LogLevel, _ = flags.GetString("log-level")
		}
		if flags.Changed("backend") {
			cfg.Backend, _ = flags.GetString("backend")
		}
		if flags.Changed("redis-url") {
			cfg.RedisURL, _ = flags.GetString("redis-url")
		}
		return cfg.Validate()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("backend", config.BackendFile, "Storage backend: memory, file or redis")
	rootCmd.PersistentFlags().String("redis-url", "", "Redis URL for the redis backend")
}

// buildApp assembles the bot from the loaded configuration.
func buildApp() (*cli.App, error) {
	return cli.Build(cfg, cli.NewLogger(cfg.Level()))
}
