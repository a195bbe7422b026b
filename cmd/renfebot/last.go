package main

import (
	"github.com/aretw0/renfebot/internal/cli"
	"github.com/spf13/cobra"
)

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Print the last search request",
	Long:  `Prints the snapshot that /reintentar would search again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		defer app.Close()
		return cli.PrintLastRequest(cmd.Context(), app, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(lastCmd)
}
