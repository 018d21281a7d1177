package extract

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/alpine-leisure/spawatch/internal/model"
)

// Observation is one hour's booking state as read off the page.
type Observation struct {
	Booked int
	Source model.Source
}

// Probe attempts to read the booking state for a single hour from a
// parsed page. Probes are tried in order; the first hit wins.
type Probe interface {
	Name() string
	Probe(doc *goquery.Document, hour, capacity int) (Observation, bool)
}

var availablePattern = regexp.MustCompile(`(\d+)\s*available`)

// SlotElementProbe looks for the DOM element labelling a specific hour
// slot and reads the availability text around it. This is the highest
// fidelity signal the page offers.
type SlotElementProbe struct{}

func (SlotElementProbe) Name() string { return "slot-element" }

func (SlotElementProbe) Probe(doc *goquery.Document, hour, capacity int) (Observation, bool) {
	label := fmt.Sprintf("%d:00", hour)
	padded := fmt.Sprintf("%02d:00", hour)

	var obs Observation
	found := false
	doc.Find("*").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if !strings.Contains(text, label) && !strings.Contains(text, padded) {
			return true
		}
		// Containers listing several slots mention other hours too; only a
		// single slot card (or its "14:00-15:00" range label) is trusted.
		if !mentionsOnlyHour(text, hour) {
			return true
		}

		if obs, found = readSignal(text, capacity); found {
			return false
		}
		// Leaf time label: the availability text lives on the slot card
		// around it.
		if parent := sel.Parent().Text(); mentionsOnlyHour(parent, hour) {
			if obs, found = readSignal(parent, capacity); found {
				return false
			}
		}
		return true
	})
	return obs, found
}

// readSignal extracts a booking state from availability text.
func readSignal(text string, capacity int) (Observation, bool) {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "fully booked") || strings.Contains(lower, "sold out") {
		return Observation{Booked: capacity, Source: model.SourceLive}, true
	}
	if m := availablePattern.FindStringSubmatch(lower); m != nil {
		avail, err := strconv.Atoi(m[1])
		if err == nil {
			if avail > capacity {
				avail = capacity
			}
			return Observation{Booked: capacity - avail, Source: model.SourceLive}, true
		}
	}
	return Observation{}, false
}

var hourLabelPattern = regexp.MustCompile(`\b(\d{1,2}):00\b`)

// mentionsOnlyHour reports whether every hour label in the text belongs
// to the given slot (the hour itself, or hour+1 closing a range).
func mentionsOnlyHour(text string, hour int) bool {
	for _, m := range hourLabelPattern.FindAllStringSubmatch(text, -1) {
		h, err := strconv.Atoi(m[1])
		if err != nil {
			return false
		}
		if h != hour && h != hour+1 {
			return false
		}
	}
	return true
}

// PageTextProbe is the terminal probe: it reads page-wide signals and,
// failing that, estimates a partial booking. It always reports a hit so
// the chain never comes back empty-handed on a parsed page.
type PageTextProbe struct {
	rng *rand.Rand
}

// NewPageTextProbe builds the terminal probe with the given random source
// for its partial-booking estimate.
func NewPageTextProbe(rng *rand.Rand) *PageTextProbe {
	return &PageTextProbe{rng: rng}
}

func (*PageTextProbe) Name() string { return "page-text" }

func (p *PageTextProbe) Probe(doc *goquery.Document, _ int, capacity int) (Observation, bool) {
	text := strings.ToLower(doc.Text())
	if strings.Contains(text, "fully booked") || strings.Contains(text, "sold out") {
		return Observation{Booked: capacity, Source: model.SourceLive}, true
	}
	if capacity <= 1 {
		return Observation{Booked: 0, Source: model.SourceSynthetic}, true
	}
	// No per-slot signal on the page: estimate a partial booking and tag
	// it synthetic so downstream consumers can tell it apart.
	return Observation{
		Booked: 1 + p.rng.IntN(capacity-1),
		Source: model.SourceSynthetic,
	}, true
}
