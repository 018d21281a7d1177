package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alpine-leisure/spawatch/internal/history"
	"github.com/alpine-leisure/spawatch/internal/model"
	"github.com/alpine-leisure/spawatch/internal/store"
)

var (
	runHorizons  []string
	runNoArchive bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one scrape-project-publish cycle",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("run"); err != nil {
			return err
		}

		horizons, err := parseHorizons(runHorizons)
		if err != nil {
			return err
		}

		var archive store.Store
		if !runNoArchive {
			archive, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer archive.Close() //nolint:errcheck
			if err := archive.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}
		}

		p, err := initPipeline(archive, horizons)
		if err != nil {
			return err
		}

		summary, err := p.Run(ctx)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		rec := model.RunRecord{
			ID:        summary.RunID,
			Timestamp: time.Now(),
			Status:    summary.Status(),
			Records:   summary.RecordsAppended,
			Slots:     summary.SlotsFound,
		}
		hist := history.NewFile(cfg.Sink.HistoryDir)
		if err := hist.Record(rec); err != nil {
			zap.L().Warn("record run history", zap.Error(err))
		}
		if archive != nil {
			if err := archive.RecordRun(ctx, rec); err != nil {
				zap.L().Warn("archive run", zap.Error(err))
			}
		}

		zap.L().Info("run complete",
			zap.String("run_id", summary.RunID),
			zap.String("status", string(rec.Status)),
			zap.Int("slots_found", summary.SlotsFound),
		)

		// Print summary JSON to stdout
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	runCmd.Flags().StringSliceVar(&runHorizons, "horizon", nil,
		"horizons to process (SameDay, SevenDays, ThirtyDays, SixtyDays, NinetyDays); default all")
	runCmd.Flags().BoolVar(&runNoArchive, "no-archive", false, "skip database persistence")
	rootCmd.AddCommand(runCmd)
}
