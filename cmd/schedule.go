package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alpine-leisure/spawatch/internal/history"
	"github.com/alpine-leisure/spawatch/internal/schedule"
	"github.com/alpine-leisure/spawatch/internal/store"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the pipeline on a fixed cadence until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("schedule"); err != nil {
			return err
		}

		var archive store.Store
		if cfg.Store.DatabaseURL != "" {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}
			archive = st
		}

		p, err := initPipeline(archive, nil)
		if err != nil {
			return err
		}

		hist := history.NewFile(cfg.Sink.HistoryDir)
		s := schedule.New(p, hist, archive, schedule.Options{
			Interval:   cfg.Schedule.Interval(),
			RunTimeout: cfg.Schedule.RunTimeout(),
			MinSpacing: cfg.Schedule.MinSpacing(),
			StaleAfter: cfg.Schedule.StaleAfter(),
		})

		zap.L().Info("scheduler starting",
			zap.Duration("interval", cfg.Schedule.Interval()),
			zap.Duration("run_timeout", cfg.Schedule.RunTimeout()),
		)
		if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return eris.Wrap(err, "scheduler")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}
