package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/meetscribe/meetscribe/internal/interfaces/cli/admin"
	"github.com/meetscribe/meetscribe/internal/interfaces/cli/migrate"
	"github.com/meetscribe/meetscribe/internal/interfaces/cli/server"
	"github.com/meetscribe/meetscribe/internal/interfaces/cli/sync"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "meetscribe",
		Short: "Meetscribe admin backend",
		Long:  "Admin and billing backend for the meeting assistant, with a periodic sync that mirrors the remote datastore into the local database.",
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		sync.NewCommand(),
		admin.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
