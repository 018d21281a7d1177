package main

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/alpine-leisure/spawatch/internal/extract"
	"github.com/alpine-leisure/spawatch/internal/model"
	"github.com/alpine-leisure/spawatch/internal/pipeline"
	"github.com/alpine-leisure/spawatch/internal/project"
	"github.com/alpine-leisure/spawatch/internal/sink"
	"github.com/alpine-leisure/spawatch/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "spawatch.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// loadGuestMix returns the configured guest mix override, or the
// built-in mix when none is set.
func loadGuestMix() (model.GuestMix, error) {
	if cfg.Client.GuestMixPath == "" {
		return model.DefaultGuestMix(), nil
	}
	return model.LoadGuestMix(cfg.Client.GuestMixPath)
}

// parseHorizons maps --horizon flag values onto the known horizon set.
// An empty list means all horizons.
func parseHorizons(names []string) ([]model.Horizon, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var out []model.Horizon
	for _, name := range names {
		found := false
		for _, h := range model.Horizons {
			if string(h) == name {
				out = append(out, h)
				found = true
				break
			}
		}
		if !found {
			return nil, eris.Errorf("unknown horizon %q", name)
		}
	}
	return out, nil
}

// initPipeline assembles the scrape pipeline from configuration. archive
// may be nil to skip database persistence.
func initPipeline(archive store.Store, horizons []model.Horizon) (*pipeline.Pipeline, error) {
	mix, err := loadGuestMix()
	if err != nil {
		return nil, eris.Wrap(err, "load guest mix")
	}

	// Each run gets a fresh fetcher so scheduled runs never reuse a
	// session released at the end of the previous run.
	newFetcher := func() extract.Fetcher {
		return extract.NewHTTPFetcher(
			cfg.Competitor.BaseURL,
			time.Duration(cfg.Scrape.RequestDelaySecs)*time.Second,
			extract.WithTimeout(time.Duration(cfg.Scrape.TimeoutSecs)*time.Second),
			extract.WithRetries(cfg.Scrape.Retries),
		)
	}

	extractor := extract.NewExtractor(cfg.Competitor.Capacity, cfg.Competitor.Venue,
		extract.SlotElementProbe{},
		extract.NewPageTextProbe(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))),
	)

	synth := project.NewSynthesizer(cfg.Competitor.Capacity, cfg.Competitor.Venue,
		rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))

	mirror := project.NewMirror(project.MirrorConfig{
		ClientCapacity:    cfg.Client.Capacity,
		PerformanceFactor: cfg.Client.PerformanceFactor,
		Derate:            cfg.Client.Derate,
		ClientVenue:       cfg.Client.Venue,
	}, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))

	workbook := sink.NewXLSX(cfg.Sink.WorkbookPath)
	backup := sink.NewCSVBackup(cfg.Sink.ExportDir)

	zap.L().Info("pipeline assembled",
		zap.String("competitor", cfg.Competitor.Venue),
		zap.String("client", cfg.Client.Venue),
		zap.String("workbook", cfg.Sink.WorkbookPath),
	)

	return pipeline.New(newFetcher, extractor, synth, mirror, workbook, backup, mix, pipeline.Options{
		Horizons:    horizons,
		Archive:     archive,
		Diagnostics: extract.NewDiagnostics(cfg.Scrape.DiagnosticsDir),
	}), nil
}
