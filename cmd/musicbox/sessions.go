package main

import (
	"fmt"
	"time"

	"github.com/aretw0/musicbox-realtime/internal/config"
	"github.com/aretw0/musicbox-realtime/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List clients currently connected to a running service",
	Long: `Reads presence records from the shared session store. Only the redis backend
is visible from outside the serving process. With sessions.redis.ttl set, the
server re-saves open sessions every ttl/2, so only records of connections that
vanished without a disconnect expire.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Sessions.Backend != config.BackendRedis {
			return fmt.Errorf("listing sessions requires sessions.backend=redis (got %q)", cfg.Sessions.Backend)
		}

		store, closeStore, err := openSessionStore(cmd.Context(), cfg.Sessions)
		if err != nil {
			return err
		}
		defer closeStore()

		sessions, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		tui.NewPrinter(cmd.OutOrStdout()).Sessions(sessions, time.Now())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}
