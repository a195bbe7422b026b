package main

import (
	"github.com/aretw0/renfebot/internal/cli"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the conversation graph",
	Long:  `Outputs a Mermaid diagram (graph TD) of the search conversation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.PrintGraph(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
