package main

import (
	"fmt"

	"github.com/aretw0/renfebot/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the conversation graph for consistency",
	Long:  `Crawls the search conversation from its first step and reports dead links or unreachable steps.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.ValidateFlow(cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
