package main

import (
	"math/rand/v2"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/alpine-leisure/spawatch/internal/analytics"
	"github.com/alpine-leisure/spawatch/internal/model"
	"github.com/alpine-leisure/spawatch/internal/sink"
	"github.com/alpine-leisure/spawatch/pkg/openmeteo"
	"github.com/alpine-leisure/spawatch/pkg/sunrise"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Build the weather-integrated analytics tabs",
	Long:  "Reads archived competitor slots, joins weather and solar data, and writes the enhanced mirror, revenue projection, and booking trend tabs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("analytics"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		mix, err := loadGuestMix()
		if err != nil {
			return eris.Wrap(err, "load guest mix")
		}

		a := analytics.New(st,
			openmeteo.NewClient(),
			sunrise.NewClient(),
			sink.NewXLSX(cfg.Sink.WorkbookPath),
			mix,
			analytics.Config{
				ClientCapacity:    cfg.Client.Capacity,
				PerformanceFactor: cfg.Client.PerformanceFactor,
				DailyFixedCosts:   cfg.Analytics.DailyFixedCosts,
				Latitude:          cfg.Weather.Latitude,
				Longitude:         cfg.Weather.Longitude,
			})

		now := time.Now()
		rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		if err := a.BuildAll(ctx, now, rng); err != nil {
			return err
		}

		zap.L().Info("analytics tabs written", zap.String("workbook", cfg.Sink.WorkbookPath))
		printProjectionSummary(now, mix)
		return nil
	},
}

// printProjectionSummary prints the first projected weeks so an operator
// gets headline numbers without opening the workbook.
func printProjectionSummary(now time.Time, mix model.GuestMix) {
	projections := analytics.WeeklyProjections(now, mix, cfg.Client.Capacity, cfg.Analytics.DailyFixedCosts)

	p := message.NewPrinter(language.English)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = p.Fprintln(w, "WEEK\tSTART\tREVENUE\tPROFIT")
	for _, proj := range projections[:4] {
		_, _ = p.Fprintf(w, "%d\t%s\t$%.2f\t$%.2f\n",
			proj.Week,
			proj.Start.Format("2006-01-02"),
			proj.Revenue,
			proj.Profit,
		)
	}
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(analyticsCmd)
}
