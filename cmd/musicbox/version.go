package main

import (
	"fmt"
	"strings"

	musicbox "github.com/aretw0/musicbox-realtime"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of musicbox",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "musicbox version %s\n", strings.TrimSpace(musicbox.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
