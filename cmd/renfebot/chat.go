package main

import (
	"os"
	"os/user"

	"github.com/aretw0/renfebot/internal/cli"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the bot in the terminal",
	Long:  `Runs the bot against standard input and output, as if it were a single Telegram chat.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.ConsoleOptions{}
		opts.Username, _ = cmd.Flags().GetString("username")
		opts.FirstName, _ = cmd.Flags().GetString("name")
		opts.Plain, _ = cmd.Flags().GetBool("plain")
		if opts.Username == "" {
			if u, err := user.Current(); err == nil {
				opts.Username = u.Username
			}
		}

		app, err := buildApp()
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		err = cli.RunConsole(ctx, app, os.Stdin, os.Stdout, opts)
		cli.ReportSignal(os.Stdout, ctx.Signal())
		return err
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().String("username", "", "Username used to name debug logs (defaults to the OS user)")
	chatCmd.Flags().String("name", "", "First name used in the greeting")
	chatCmd.Flags().Bool("plain", false, "Disable banner and markdown rendering")
}
