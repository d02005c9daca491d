// Package sync implements the one-shot reconciliation command.
package sync

import (
	"fmt"

	"github.com/spf13/cobra"

	appsync "github.com/meetscribe/meetscribe/internal/application/sync"
	"github.com/meetscribe/meetscribe/internal/infrastructure/config"
	"github.com/meetscribe/meetscribe/internal/infrastructure/database"
	"github.com/meetscribe/meetscribe/internal/infrastructure/repository"
	"github.com/meetscribe/meetscribe/internal/infrastructure/supabase"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one reconciliation pass and exit",
		RunE:  run,
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load("default")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, false); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	guard := database.NewForeignKeyGuard(database.Get(), log)
	session := repository.NewSyncWriterSession(guard, log)
	remote := supabase.NewClient(&cfg.Supabase, log)
	engine := appsync.NewEngine(remote, session, log)

	report, err := engine.TryRun(cmd.Context())
	if err != nil {
		return fmt.Errorf("sync pass failed: %w", err)
	}

	log.Infow("sync pass finished",
		"state", report.State,
		"profiles", report.Counters.Profiles,
		"meetings", report.Counters.Meetings,
		"transcripts", report.Counters.Transcripts,
		"chat_messages", report.Counters.ChatMessages,
		"summaries", report.Counters.Summaries,
		"skipped", len(report.Skipped),
	)
	return nil
}
