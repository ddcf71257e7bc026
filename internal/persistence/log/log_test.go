package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"automata/internal/core"
)

func readLines(t *testing.T, path string) []TickEntry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	dec, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer dec.Close()

	var out []TickEntry
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var e TickEntry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		out = append(out, e)
	}
	require.NoError(t, sc.Err())
	return out
}

func TestTickLoggerWritesEntries(t *testing.T) {
	dir := t.TempDir()
	l := NewTickLogger(dir)
	clock := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
	l.w.now = func() time.Time { return clock }

	for tick := uint64(1); tick <= 3; tick++ {
		pop := core.Population{Predators: int(tick), Prey: 10, Living: int(tick) + 10}
		require.NoError(t, l.WriteTick(NewTickEntry("predprey", tick, pop)))
	}
	path := l.w.Path()
	require.NoError(t, l.Close())

	assert.Equal(t, filepath.Join(dir, "ticks", "ticks-2024-03-09-14.jsonl.zst"), path)
	entries := readLines(t, path)
	require.Len(t, entries, 3)
	assert.Equal(t, TickEntry{Tick: 2, Sim: "predprey", Predators: 2, Prey: 10, Living: 12}, entries[1])
}

func TestWriterRotatesHourly(t *testing.T) {
	dir := t.TempDir()
	w := NewJSONLZstdWriter(dir, "pop")
	clock := time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return clock }

	require.NoError(t, w.Write(TickEntry{Tick: 1}))
	first := w.Path()
	clock = clock.Add(2 * time.Minute)
	require.NoError(t, w.Write(TickEntry{Tick: 2}))
	second := w.Path()
	require.NoError(t, w.Close())

	assert.Equal(t, filepath.Join(dir, "pop-2024-03-09-23.jsonl.zst"), first)
	assert.Equal(t, filepath.Join(dir, "pop-2024-03-10-00.jsonl.zst"), second)
	assert.Len(t, readLines(t, first), 1)
	assert.Len(t, readLines(t, second), 1)
}

func TestPathEmptyBeforeWrite(t *testing.T) {
	w := NewJSONLZstdWriter(t.TempDir(), "x")
	assert.Empty(t, w.Path())
	assert.NoError(t, w.Close())
}
