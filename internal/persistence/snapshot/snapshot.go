// Package snapshot stores automaton state as a JSON header line followed by a
// gob body, zstd-compressed.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"automata/internal/core"
	"automata/internal/sims/evolution"
	"automata/internal/sims/predprey"
)

// Version is the current snapshot format.
const Version = 1

// Header is readable without decoding the body.
type Header struct {
	Version int    `json:"version"`
	Sim     string `json:"sim"`
	Tick    uint64 `json:"tick"`
}

// CellV1 is one occupied slot.
type CellV1 struct {
	Index  int
	Type   uint8
	Health int
	Timer  int
	Genome [3]float32
}

// SnapshotV1 is the full state of a predator/prey or evolution world.
type SnapshotV1 struct {
	Header Header

	Seed   int64
	Width  int
	Height int
	Depth  int
	Sparse bool

	PredPrey  *predprey.Params
	Evolution *evolution.Params

	Population core.Population
	Cells      []CellV1
}

// Capture records the state of a supported sim.
func Capture(sim core.Sim) (SnapshotV1, error) {
	switch w := sim.(type) {
	case *predprey.World:
		return capturePredPrey(w), nil
	case *evolution.World:
		return captureEvolution(w), nil
	default:
		return SnapshotV1{}, fmt.Errorf("snapshot: unsupported sim %T", sim)
	}
}

func capturePredPrey(w *predprey.World) SnapshotV1 {
	cfg := w.Config()
	params := cfg.Params
	snap := SnapshotV1{
		Header:     Header{Version: Version, Sim: w.Name(), Tick: w.Tick()},
		Seed:       cfg.Seed,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Depth:      cfg.Depth,
		Sparse:     cfg.Sparse,
		PredPrey:   &params,
		Population: w.Population(),
	}
	dims := w.Dims()
	w.Occupied(func(c core.Coord, o predprey.Organism) {
		snap.Cells = append(snap.Cells, CellV1{Index: dims.Index(c), Type: uint8(o.Type), Health: o.Health})
	})
	return snap
}

func captureEvolution(w *evolution.World) SnapshotV1 {
	cfg := w.Config()
	params := cfg.Params
	snap := SnapshotV1{
		Header:     Header{Version: Version, Sim: w.Name(), Tick: w.Tick()},
		Seed:       cfg.Seed,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Depth:      cfg.Depth,
		Evolution:  &params,
		Population: w.Population(),
	}
	dims := w.Dims()
	w.Occupied(func(c core.Coord, o evolution.Organism) {
		snap.Cells = append(snap.Cells, CellV1{
			Index:  dims.Index(c),
			Type:   uint8(o.Type),
			Health: o.Health,
			Timer:  o.Timer,
			Genome: [3]float32{o.Genome.R, o.Genome.G, o.Genome.B},
		})
	})
	return snap
}

// Restore rebuilds the world captured in snap. The random source is reseeded
// from the stored seed, so a resumed run is deterministic but does not replay
// the uninterrupted run.
func Restore(snap SnapshotV1) (core.Sim, error) {
	if snap.Header.Version != Version {
		return nil, fmt.Errorf("snapshot: unsupported version %d", snap.Header.Version)
	}
	switch {
	case snap.PredPrey != nil:
		return restorePredPrey(snap)
	case snap.Evolution != nil:
		return restoreEvolution(snap)
	default:
		return nil, fmt.Errorf("snapshot: %q has no parameters", snap.Header.Sim)
	}
}

func restorePredPrey(snap SnapshotV1) (*predprey.World, error) {
	w, err := predprey.New(predprey.Config{
		Width:  snap.Width,
		Height: snap.Height,
		Depth:  snap.Depth,
		Sparse: snap.Sparse,
		Seed:   snap.Seed,
		Params: *snap.PredPrey,
	})
	if err != nil {
		return nil, err
	}
	w.Reset(snap.Seed)
	dims := w.Dims()
	for _, cell := range snap.Cells {
		o := predprey.NewOrganism(predprey.Type(cell.Type), cell.Health)
		if err := w.SetCell(dims.Coord(cell.Index), o); err != nil {
			return nil, fmt.Errorf("snapshot: cell %d: %w", cell.Index, err)
		}
	}
	w.Resume(snap.Header.Tick)
	return w, nil
}

func restoreEvolution(snap SnapshotV1) (*evolution.World, error) {
	w, err := evolution.New(evolution.Config{
		Width:  snap.Width,
		Height: snap.Height,
		Depth:  snap.Depth,
		Seed:   snap.Seed,
		Params: *snap.Evolution,
	})
	if err != nil {
		return nil, err
	}
	w.Reset(snap.Seed)
	dims := w.Dims()
	for _, cell := range snap.Cells {
		o := evolution.Organism{
			Type:   evolution.Type(cell.Type),
			Genome: evolution.Genome{R: cell.Genome[0], G: cell.Genome[1], B: cell.Genome[2]},
			Health: cell.Health,
			Timer:  cell.Timer,
		}
		if err := w.SetCell(dims.Coord(cell.Index), o); err != nil {
			return nil, fmt.Errorf("snapshot: cell %d: %w", cell.Index, err)
		}
	}
	w.Resume(snap.Header.Tick)
	return w, nil
}

// Path returns the conventional file name for a snapshot taken at tick.
func Path(dir, sim string, tick uint64) string {
	return filepath.Join(dir, "snapshots", fmt.Sprintf("%s-%010d.snap.zst", sim, tick))
}

// WriteSnapshot writes snap to path, creating parent directories.
func WriteSnapshot(path string, snap SnapshotV1) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)

	hb, err := json.Marshal(snap.Header)
	if err != nil {
		return err
	}
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return enc.Close()
}

// ReadHeader decodes only the header line of the snapshot at path.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("decode header: %w", err)
	}
	return h, nil
}

// ReadSnapshot decodes the snapshot at path.
func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)
	// The gob body repeats the header.
	if _, err := br.ReadBytes('\n'); err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}
	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}
