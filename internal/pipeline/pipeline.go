// Package pipeline runs one full scrape-project-publish cycle across all
// booking horizons.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alpine-leisure/spawatch/internal/extract"
	"github.com/alpine-leisure/spawatch/internal/model"
	"github.com/alpine-leisure/spawatch/internal/project"
	"github.com/alpine-leisure/spawatch/internal/sink"
	"github.com/alpine-leisure/spawatch/internal/store"
)

// HistoricalTab is the append-only tab accumulating every run's records.
const HistoricalTab = "Historical_Data"

// mirrorSuffix names the per-horizon client projection tabs.
const mirrorSuffix = "_Mirror"

// FetcherFactory acquires a fresh page fetcher for one run. The pipeline
// releases each fetcher at run end, so the factory must not hand back a
// previously closed instance.
type FetcherFactory func() extract.Fetcher

// Pipeline wires the fetcher, extractor, projectors and sinks into one
// run. Horizons are processed sequentially; the fetcher paces requests.
type Pipeline struct {
	newFetcher FetcherFactory
	extractor  *extract.Extractor
	synth      *project.Synthesizer
	mirror     *project.Mirror
	sink       sink.Sink
	backup     *sink.CSVBackup
	archive    store.Store // optional slot archive
	diag       *extract.Diagnostics
	mix        model.GuestMix
	horizons   []model.Horizon
}

// Options configures optional pipeline behavior.
type Options struct {
	// Horizons overrides the default full horizon list, e.g. for a
	// single-horizon test run.
	Horizons []model.Horizon
	// Archive persists runs and slots when set.
	Archive store.Store
	// Diagnostics dumps pages that yielded no slot signal.
	Diagnostics *extract.Diagnostics
}

// New assembles a pipeline. Each run acquires its own fetcher from the
// factory; the backup sink catches tables that failed to reach the
// primary sink.
func New(newFetcher FetcherFactory, extractor *extract.Extractor, synth *project.Synthesizer,
	mirror *project.Mirror, s sink.Sink, backup *sink.CSVBackup, mix model.GuestMix, opts Options) *Pipeline {
	horizons := opts.Horizons
	if len(horizons) == 0 {
		horizons = model.Horizons
	}
	return &Pipeline{
		newFetcher: newFetcher,
		extractor:  extractor,
		synth:      synth,
		mirror:     mirror,
		sink:       s,
		backup:     backup,
		archive:    opts.Archive,
		diag:       opts.Diagnostics,
		mix:        mix,
		horizons:   horizons,
	}
}

// Summary reports one run's outcome.
type Summary struct {
	RunID           string
	SlotsFound      int
	RecordsAppended int
	PerHorizon      map[model.Horizon]int
	SinkErrors      int
}

// Status maps the summary onto a run status tag.
func (s *Summary) Status() model.RunStatus {
	if s.SinkErrors > 0 {
		return model.RunStatusPartial
	}
	return model.RunStatusSuccess
}

// Run executes one cycle: for every horizon, fetch the competitor page,
// extract (or synthesize) slot records, publish the snapshot and mirror
// tabs, and finally append everything to the historical tab. Sink
// failures divert to CSV backups and never abort remaining horizons.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	fetcher := p.newFetcher()
	defer func() {
		if err := fetcher.Close(); err != nil {
			zap.L().Warn("pipeline: fetcher close", zap.Error(err))
		}
	}()

	summary := &Summary{
		RunID:      uuid.New().String(),
		PerHorizon: make(map[model.Horizon]int, len(p.horizons)),
	}
	now := time.Now()
	var historical []model.SlotRecord

	for _, horizon := range p.horizons {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		date := horizon.Date(now)
		records := p.collect(ctx, fetcher, date, horizon)
		summary.SlotsFound += len(records)
		summary.PerHorizon[horizon] = len(records)
		historical = append(historical, records...)

		tab := string(horizon)
		p.publish(summary, tab, snapshotTable(records), true)

		mirrored := p.mirror.ProjectAll(records, p.mix)
		p.publish(summary, tab+mirrorSuffix, snapshotTable(mirrored), true)

		zap.L().Info("pipeline: horizon processed",
			zap.String("horizon", tab),
			zap.String("date", date.Format("2006-01-02")),
			zap.Int("slots", len(records)),
		)
	}

	if len(historical) > 0 {
		p.publish(summary, HistoricalTab, historicalTable(historical), false)
		summary.RecordsAppended = len(historical)
	}

	if p.archive != nil {
		if err := p.archive.SaveSlots(ctx, summary.RunID, historical); err != nil {
			zap.L().Warn("pipeline: archive slots", zap.Error(err))
		}
	}

	zap.L().Info("pipeline: run complete",
		zap.String("run_id", summary.RunID),
		zap.Int("slots_found", summary.SlotsFound),
		zap.Int("records_appended", summary.RecordsAppended),
		zap.Int("sink_errors", summary.SinkErrors),
	)
	return summary, nil
}

// collect fetches and extracts one horizon's records, falling back to
// the synthetic generator on any extraction failure.
func (p *Pipeline) collect(ctx context.Context, fetcher extract.Fetcher, date time.Time, horizon model.Horizon) []model.SlotRecord {
	doc, err := fetcher.Fetch(ctx, date)
	if err != nil {
		zap.L().Warn("pipeline: fetch failed, synthesizing",
			zap.String("horizon", string(horizon)),
			zap.Error(err),
		)
		return p.synth.Generate(date, horizon, p.mix)
	}

	records := p.extractor.Extract(doc, date, horizon, p.mix)
	if len(records) == 0 {
		zap.L().Warn("pipeline: extraction empty, synthesizing",
			zap.String("horizon", string(horizon)),
		)
		if p.diag != nil {
			if html, htmlErr := doc.Html(); htmlErr == nil {
				if _, dumpErr := p.diag.Dump(date, html); dumpErr != nil {
					zap.L().Warn("pipeline: diagnostics dump", zap.Error(dumpErr))
				}
			}
		}
		return p.synth.Generate(date, horizon, p.mix)
	}
	return records
}

// publish writes one table, diverting to the CSV backup on failure.
func (p *Pipeline) publish(summary *Summary, tab string, table sink.Table, replace bool) {
	var err error
	if replace {
		err = p.sink.Replace(tab, table)
	} else {
		err = p.sink.Append(tab, table)
	}
	if err == nil {
		return
	}

	summary.SinkErrors++
	zap.L().Error("pipeline: sink write failed, writing csv backup",
		zap.String("tab", tab),
		zap.Error(err),
	)
	if _, backupErr := p.backup.Write(tab, table); backupErr != nil {
		zap.L().Error("pipeline: csv backup failed",
			zap.String("tab", tab),
			zap.Error(backupErr),
		)
	}
}
