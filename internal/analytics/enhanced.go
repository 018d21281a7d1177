package analytics

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alpine-leisure/spawatch/internal/model"
	"github.com/alpine-leisure/spawatch/internal/project"
	"github.com/alpine-leisure/spawatch/internal/sink"
	"github.com/alpine-leisure/spawatch/internal/store"
	"github.com/alpine-leisure/spawatch/pkg/openmeteo"
	"github.com/alpine-leisure/spawatch/pkg/sunrise"
)

// slotsPerDay is the standard operating day used for fixed-cost
// allocation.
const slotsPerDay = 13

// Config holds the business-model constants for the analytics tabs.
type Config struct {
	ClientCapacity    int
	PerformanceFactor float64
	DailyFixedCosts   float64
	Latitude          float64
	Longitude         float64
}

// Analyzer builds the weather-integrated analytics tabs from archived
// competitor data.
type Analyzer struct {
	archive store.Store
	weather openmeteo.Client
	sun     sunrise.Client
	sink    sink.Sink
	mix     model.GuestMix
	cfg     Config
}

// New assembles an analyzer.
func New(archive store.Store, weather openmeteo.Client, sun sunrise.Client,
	s sink.Sink, mix model.GuestMix, cfg Config) *Analyzer {
	return &Analyzer{
		archive: archive,
		weather: weather,
		sun:     sun,
		sink:    s,
		mix:     mix,
		cfg:     cfg,
	}
}

// BuildAll writes every analytics tab: the per-horizon enhanced mirrors,
// the weekly revenue projections, the extended booking trends, the
// seasonal outlook, and the occupancy-scenario financials.
func (a *Analyzer) BuildAll(ctx context.Context, now time.Time, rng *rand.Rand) error {
	if err := a.BuildEnhanced(ctx); err != nil {
		return eris.Wrap(err, "analytics: build enhanced tabs")
	}
	if err := a.BuildRevenue(now); err != nil {
		return eris.Wrap(err, "analytics: build revenue projections")
	}
	if err := a.BuildTrends(now, rng); err != nil {
		return eris.Wrap(err, "analytics: build booking trends")
	}
	if err := a.BuildSeasonal(now); err != nil {
		return eris.Wrap(err, "analytics: build seasonal outlook")
	}
	if err := a.BuildFinancial(); err != nil {
		return eris.Wrap(err, "analytics: build financial scenarios")
	}
	return nil
}

// dayConditions caches one date's weather and solar lookups.
type dayConditions struct {
	obs   openmeteo.Observation
	score float64
	times sunrise.Times
}

var enhancedHeader = []string{
	"Date", "Time Slot", "Slots Booked", "Slots Available", "Revenue", "Occupancy Rate",
	"Temperature", "Conditions", "Weather Score", "Demand Multiplier",
	"Sunrise", "Sunset", "Golden Hour",
	"Competitor Bookings", "Competitor Occupancy",
	"Breakeven Bookings", "Slot Profit",
}

// BuildEnhanced writes one "<Horizon>_Enhanced" tab per horizon,
// scaling the latest archived competitor slots onto the client venue
// with weather-adjusted demand.
func (a *Analyzer) BuildEnhanced(ctx context.Context) error {
	for _, horizon := range model.Horizons {
		slots, err := a.archive.ListSlots(ctx, store.SlotFilter{Horizon: horizon, Limit: 200})
		if err != nil {
			return err
		}
		slots = latestPerSlot(slots)
		if len(slots) == 0 {
			zap.L().Info("analytics: no archived slots for horizon",
				zap.String("horizon", string(horizon)),
			)
			continue
		}

		conditions := a.conditions(ctx, slotDates(slots))
		table := a.enhancedTable(slots, conditions)
		if err := a.sink.Replace(string(horizon)+"_Enhanced", table); err != nil {
			return err
		}
		zap.L().Info("analytics: enhanced tab written",
			zap.String("horizon", string(horizon)),
			zap.Int("rows", len(table.Rows)),
		)
	}
	return nil
}

func (a *Analyzer) enhancedTable(slots []model.SlotRecord, conditions map[string]dayConditions) sink.Table {
	breakeven := Breakeven(a.mix, a.cfg.DailyFixedCosts, slotsPerDay)
	costPerSlot := a.cfg.DailyFixedCosts / slotsPerDay

	rows := make([][]string, 0, len(slots))
	for _, src := range slots {
		day := conditions[src.Date.Format("2006-01-02")]

		demand := DemandMultiplier(day.score)
		occupancy := src.OccupancyRate() * a.cfg.PerformanceFactor * demand
		booked := int(math.Round(occupancy * float64(a.cfg.ClientCapacity)))
		if booked > a.cfg.ClientCapacity {
			booked = a.cfg.ClientCapacity
		}
		if booked < 0 {
			booked = 0
		}
		revenue := project.Revenue(booked, src.Hour, a.mix)

		rows = append(rows, []string{
			src.Date.Format("2006-01-02"),
			src.TimeSlot(),
			strconv.Itoa(booked),
			strconv.Itoa(a.cfg.ClientCapacity - booked),
			strconv.FormatFloat(revenue, 'f', 2, 64),
			fmt.Sprintf("%.1f%%", float64(booked)/float64(a.cfg.ClientCapacity)*100),
			fmt.Sprintf("%.1f", day.obs.Temperature),
			day.obs.Description,
			fmt.Sprintf("%.1f/10", day.score),
			fmt.Sprintf("%.2f", demand),
			day.times.Sunrise,
			day.times.Sunset,
			strconv.FormatBool(IsGoldenHour(src.Hour, day.times)),
			strconv.Itoa(src.Booked),
			fmt.Sprintf("%.1f%%", src.OccupancyRate()*100),
			fmt.Sprintf("%.1f", breakeven),
			strconv.FormatFloat(revenue-costPerSlot, 'f', 2, 64),
		})
	}
	return sink.Table{Header: enhancedHeader, Rows: rows}
}

// conditions looks up weather and solar data for each date concurrently.
// Lookup failures substitute the fixed defaults; a missing forecast must
// never block the tab build.
func (a *Analyzer) conditions(ctx context.Context, dates []time.Time) map[string]dayConditions {
	var mu sync.Mutex
	out := make(map[string]dayConditions, len(dates))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, date := range dates {
		g.Go(func() error {
			obs := openmeteo.DefaultObservation()
			if fetched, err := a.weather.Midday(gCtx, a.cfg.Latitude, a.cfg.Longitude, date); err != nil {
				zap.L().Warn("analytics: weather lookup failed, using defaults",
					zap.String("date", date.Format("2006-01-02")),
					zap.Error(err),
				)
			} else {
				obs = *fetched
			}

			times := sunrise.DefaultTimes()
			if fetched, err := a.sun.Times(gCtx, a.cfg.Latitude, a.cfg.Longitude, date); err != nil {
				zap.L().Warn("analytics: solar lookup failed, using defaults",
					zap.String("date", date.Format("2006-01-02")),
					zap.Error(err),
				)
			} else {
				times = *fetched
			}

			mu.Lock()
			out[date.Format("2006-01-02")] = dayConditions{
				obs:   obs,
				score: Score(obs.Temperature, obs.Description, obs.Humidity),
				times: times,
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// latestPerSlot keeps the most recent record per (date, hour) pair.
// ListSlots returns newest first, so the first occurrence wins.
func latestPerSlot(slots []model.SlotRecord) []model.SlotRecord {
	type key struct {
		date string
		hour int
	}
	seen := make(map[key]bool, len(slots))
	var out []model.SlotRecord
	for _, s := range slots {
		k := key{s.Date.Format("2006-01-02"), s.Hour}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}

func slotDates(slots []model.SlotRecord) []time.Time {
	seen := make(map[string]bool, len(slots))
	var out []time.Time
	for _, s := range slots {
		k := s.Date.Format("2006-01-02")
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s.Date)
	}
	return out
}
