package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"resolution-diagnostic/internal/diagnostic"
)

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "List service engagement tiers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Key", "Name", "Fee"})
		for _, tier := range diagnostic.Tiers() {
			t.AppendRow(table.Row{tier.Key, tier.Name, tier.FeeLabel})
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}
