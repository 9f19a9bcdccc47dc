package main

import (
	"github.com/aretw0/musicbox-realtime/internal/presentation/tui"
	"github.com/aretw0/musicbox-realtime/pkg/archive"
	"github.com/aretw0/musicbox-realtime/pkg/templates"
	"github.com/spf13/cobra"
)

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Bundle the minimal realtime service into a zip archive",
	Long: `Writes the service templates (package.json, server.js, Dockerfile) to a
temporary staging directory and bundles them into a zip archive. The staging
directory is always removed, and no partial archive is left on failure.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		builder := archive.NewBuilder(archive.WithLogger(logger))
		res, err := builder.Build(cmd.Context(), templates.Default(), output)
		if err != nil {
			return err
		}

		tui.NewPrinter(cmd.OutOrStdout()).Created(res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(packageCmd)
	packageCmd.Flags().StringP("output", "o", archive.DefaultOutput, "Path of the archive to create")
}
