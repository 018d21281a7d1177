package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/alpine-leisure/spawatch/internal/model"
	"github.com/alpine-leisure/spawatch/internal/sink"
	"github.com/alpine-leisure/spawatch/internal/store"
)

// mockFetcher serves a fixed page, or fails every fetch. Fetching after
// Close fails the way a released session would.
type mockFetcher struct {
	html    string
	err     error
	fetches int
	closed  bool
}

func (m *mockFetcher) Fetch(_ context.Context, _ time.Time) (*goquery.Document, error) {
	m.fetches++
	if m.closed {
		return nil, errors.New("fetcher: session released")
	}
	if m.err != nil {
		return nil, m.err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(m.html))
}

func (m *mockFetcher) Close() error {
	m.closed = true
	return nil
}

// mockSink records writes and optionally fails on selected tabs.
type mockSink struct {
	replaced map[string]sink.Table
	appended map[string][]sink.Table
	failTabs map[string]error
}

func newMockSink() *mockSink {
	return &mockSink{
		replaced: make(map[string]sink.Table),
		appended: make(map[string][]sink.Table),
		failTabs: make(map[string]error),
	}
}

func (m *mockSink) Replace(tab string, table sink.Table) error {
	if err, ok := m.failTabs[tab]; ok {
		return err
	}
	m.replaced[tab] = table
	return nil
}

func (m *mockSink) Append(tab string, table sink.Table) error {
	if err, ok := m.failTabs[tab]; ok {
		return err
	}
	m.appended[tab] = append(m.appended[tab], table)
	return nil
}

// mockArchive captures archived slots.
type mockArchive struct {
	store.Store
	runID string
	slots []model.SlotRecord
}

func (m *mockArchive) SaveSlots(_ context.Context, runID string, records []model.SlotRecord) error {
	m.runID = runID
	m.slots = append(m.slots, records...)
	return nil
}
