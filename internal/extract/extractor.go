package extract

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/alpine-leisure/spawatch/internal/model"
	"github.com/alpine-leisure/spawatch/internal/project"
)

var hourPattern = regexp.MustCompile(`\b(\d{1,2}):00\b`)

// Extractor reads per-hour slot records out of a parsed booking page
// using a probe chain.
type Extractor struct {
	probes   []Probe
	capacity int
	venue    string
}

// NewExtractor builds an extractor for the competitor venue. Probes run
// in the given order per hour; include a terminal probe last so every
// hour resolves.
func NewExtractor(capacity int, venue string, probes ...Probe) *Extractor {
	return &Extractor{probes: probes, capacity: capacity, venue: venue}
}

// Extract produces one record per operating-window hour advertised on the
// page. Hours mentioned on the page outside the window are ignored; a
// page with no recognizable hour labels falls back to the full window.
func (e *Extractor) Extract(doc *goquery.Document, date time.Time, horizon model.Horizon, mix model.GuestMix) []model.SlotRecord {
	window := model.ResolveWindow(date)
	hours := e.scanHours(doc, window)

	now := time.Now()
	records := make([]model.SlotRecord, 0, len(hours))
	for _, hour := range hours {
		obs, ok := e.probe(doc, hour)
		if !ok {
			continue
		}
		records = append(records, model.SlotRecord{
			Date:      date,
			Hour:      hour,
			Capacity:  e.capacity,
			Booked:    obs.Booked,
			Available: e.capacity - obs.Booked,
			Revenue:   project.Revenue(obs.Booked, hour, mix),
			Source:    obs.Source,
			Horizon:   horizon,
			Venue:     e.venue,
			ScrapedAt: now,
		})
	}

	zap.L().Debug("extract: page processed",
		zap.String("date", date.Format("2006-01-02")),
		zap.String("horizon", string(horizon)),
		zap.Int("records", len(records)),
	)
	return records
}

func (e *Extractor) probe(doc *goquery.Document, hour int) (Observation, bool) {
	for _, p := range e.probes {
		if obs, ok := p.Probe(doc, hour, e.capacity); ok {
			return obs, true
		}
	}
	return Observation{}, false
}

// scanHours collects the hour labels present on the page, restricted to
// the operating window, in ascending order.
func (e *Extractor) scanHours(doc *goquery.Document, window model.OperatingWindow) []int {
	seen := make(map[int]bool)
	for _, m := range hourPattern.FindAllStringSubmatch(doc.Text(), -1) {
		hour, err := strconv.Atoi(m[1])
		if err != nil || !window.Contains(hour) {
			continue
		}
		seen[hour] = true
	}
	if len(seen) == 0 {
		return window.Hours()
	}

	hours := make([]int, 0, len(seen))
	for h := range seen {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	return hours
}
