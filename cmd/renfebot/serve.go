package main

import (
	"os"

	"github.com/aretw0/renfebot/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the bot over HTTP",
	Long: `Starts an HTTP server. Messages are posted to /chats/{id}/messages and
replies are read back from the same path or streamed from /chats/{id}/events.
Sessions, the last request, the flow graph and metrics are exposed for operators.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.HTTPAddr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		app, err := buildApp()
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		err = cli.Serve(ctx, app, addr)
		cli.ReportSignal(os.Stderr, ctx.Signal())
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
