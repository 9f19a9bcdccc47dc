package main

import (
	"github.com/aretw0/musicbox-realtime/internal/presentation/tui"
	"github.com/aretw0/musicbox-realtime/pkg/archive"
	"github.com/aretw0/musicbox-realtime/pkg/templates"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [archive]",
	Short: "List an archive's entries and check them against the templates",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := archive.DefaultOutput
		if len(args) > 0 {
			path = args[0]
		}

		entries, err := archive.ReadEntries(path)
		if err != nil {
			return err
		}

		p := tui.NewPrinter(cmd.OutOrStdout())
		p.Entries(entries)
		if err := archive.Verify(path, templates.Default()); err != nil {
			return err
		}
		p.Verified(path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
