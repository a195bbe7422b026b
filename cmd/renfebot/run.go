package main

import (
	"os"

	"github.com/aretw0/renfebot/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bot on Telegram",
	Long: `Long-polls Telegram and answers chats until interrupted.
The token is read from RENFEBOT_TELEGRAM_TOKEN or the token file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

		app, err := buildApp()
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		err = cli.RunTelegram(ctx, app, metricsAddr)
		cli.ReportSignal(os.Stderr, ctx.Signal())
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
}
