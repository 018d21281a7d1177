package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpine-leisure/spawatch/internal/model"
)

func record(id string, ts time.Time) model.RunRecord {
	return model.RunRecord{
		ID:        id,
		Timestamp: ts,
		Status:    model.RunStatusSuccess,
		Records:   56,
		Slots:     70,
	}
}

func TestFile_RecordAndLoad(t *testing.T) {
	f := NewFile(t.TempDir())
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, f.Record(record("run-1", now)))
	require.NoError(t, f.Record(record("run-2", now.Add(time.Hour))))

	records, err := f.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "run-1", records[0].ID)
	assert.Equal(t, "run-2", records[1].ID)
}

func TestFile_Load_Missing(t *testing.T) {
	f := NewFile(t.TempDir())

	records, err := f.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFile_TrimsToCap(t *testing.T) {
	f := NewFile(t.TempDir())
	now := time.Now()

	for i := 0; i < MaxEntries+10; i++ {
		require.NoError(t, f.Record(record(fmt.Sprintf("run-%d", i), now.Add(time.Duration(i)*time.Minute))))
	}

	records, err := f.Load()
	require.NoError(t, err)
	require.Len(t, records, MaxEntries)
	// Oldest entries dropped first.
	assert.Equal(t, "run-10", records[0].ID)
}

func TestFile_Last(t *testing.T) {
	f := NewFile(t.TempDir())

	last, err := f.Last()
	require.NoError(t, err)
	assert.Nil(t, last)

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, f.Record(record("run-1", now)))
	require.NoError(t, f.Record(record("run-2", now.Add(time.Minute))))

	last, err = f.Last()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "run-2", last.ID)
}

func TestFile_Stale(t *testing.T) {
	f := NewFile(t.TempDir())
	now := time.Now()

	stale, err := f.Stale(now, 5*time.Hour)
	require.NoError(t, err)
	assert.True(t, stale, "empty history is stale")

	require.NoError(t, f.Record(record("run-1", now.Add(-6*time.Hour))))
	stale, err = f.Stale(now, 5*time.Hour)
	require.NoError(t, err)
	assert.True(t, stale)

	require.NoError(t, f.Record(record("run-2", now.Add(-time.Hour))))
	stale, err = f.Stale(now, 5*time.Hour)
	require.NoError(t, err)
	assert.False(t, stale)
}
