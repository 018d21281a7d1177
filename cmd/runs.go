package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/alpine-leisure/spawatch/internal/history"
	"github.com/alpine-leisure/spawatch/internal/model"
	"github.com/alpine-leisure/spawatch/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect scrape run history",
	Long:  "Commands for listing and summarizing scheduled scrape runs.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status: model.RunStatus(status),
			Limit:  limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

// -- runs last --

var runsLastCmd = &cobra.Command{
	Use:   "last",
	Short: "Show the most recent run from the history file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		hist := history.NewFile(cfg.Sink.HistoryDir)
		last, err := hist.Last()
		if err != nil {
			return eris.Wrap(err, "runs last")
		}
		if last == nil {
			fmt.Fprintln(os.Stderr, "No runs recorded yet.")
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(last)
	},
}

// -- runs stats --

var runsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate run statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		since, _ := cmd.Flags().GetDuration("since")
		filter := store.RunFilter{Limit: 10000}
		if since > 0 {
			filter.Since = time.Now().Add(-since)
		}

		runs, err := st.ListRuns(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "runs stats")
		}

		formatRunStats(os.Stdout, computeRunStats(runs))
		return nil
	},
}

func init() {
	runsListCmd.Flags().String("status", "", "filter by run status (success, partial, timeout, failed)")
	runsListCmd.Flags().Int("limit", 50, "max number of runs to display")

	runsStatsCmd.Flags().Duration("since", 7*24*time.Hour, "time window for stats (e.g. 24h, 168h)")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsLastCmd)
	runsCmd.AddCommand(runsStatsCmd)
	rootCmd.AddCommand(runsCmd)
}

// runStats holds aggregate statistics computed from a set of runs.
type runStats struct {
	Total    int
	Success  int
	Partial  int
	Timeout  int
	Failed   int
	Slots    int
	Records  int
	AvgSlots float64
}

// computeRunStats computes aggregate statistics from a list of runs.
func computeRunStats(runs []model.RunRecord) runStats {
	var s runStats
	s.Total = len(runs)

	for _, r := range runs {
		switch r.Status {
		case model.RunStatusSuccess:
			s.Success++
		case model.RunStatusPartial:
			s.Partial++
		case model.RunStatusTimeout:
			s.Timeout++
		case model.RunStatusFailed:
			s.Failed++
		}
		s.Slots += r.Slots
		s.Records += r.Records
	}

	if s.Total > 0 {
		s.AvgSlots = float64(s.Slots) / float64(s.Total)
	}
	return s
}

// formatRunsList writes a tabular list of runs to w.
func formatRunsList(out io.Writer, runs []model.RunRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSTATUS\tSLOTS\tRECORDS\tTIMESTAMP\tERROR")
	_, _ = fmt.Fprintln(w, "--\t------\t-----\t-------\t---------\t-----")

	for _, r := range runs {
		errText := r.Error
		if len(errText) > 40 {
			errText = errText[:37] + "..."
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
			truncateID(r.ID),
			r.Status,
			r.Slots,
			r.Records,
			r.Timestamp.Format("2006-01-02 15:04"),
			errText,
		)
	}
	_ = w.Flush()
}

// formatRunStats writes aggregate stats to w.
func formatRunStats(out io.Writer, s runStats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Total runs:\t%d\n", s.Total)
	_, _ = fmt.Fprintf(w, "Success:\t%d\n", s.Success)
	_, _ = fmt.Fprintf(w, "Partial:\t%d\n", s.Partial)
	_, _ = fmt.Fprintf(w, "Timeout:\t%d\n", s.Timeout)
	_, _ = fmt.Fprintf(w, "Failed:\t%d\n", s.Failed)
	_, _ = fmt.Fprintf(w, "Slots found:\t%d\n", s.Slots)
	_, _ = fmt.Fprintf(w, "Records appended:\t%d\n", s.Records)
	if s.AvgSlots > 0 {
		_, _ = fmt.Fprintf(w, "Avg slots per run:\t%.1f\n", s.AvgSlots)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
