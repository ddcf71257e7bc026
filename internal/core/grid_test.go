package core

import (
	"errors"
	"testing"
	"time"
)

func TestIndexCoordRoundTrip(t *testing.T) {
	for _, d := range []Dims{{W: 3, H: 3, D: 3}, {W: 5, H: 2, D: 4}, {W: 7, H: 4, D: 1}} {
		seen := make(map[int]bool, d.Cells())
		for x := 0; x < d.W; x++ {
			for y := 0; y < d.H; y++ {
				for z := 0; z < d.D; z++ {
					c := Coord{X: x, Y: y, Z: z}
					idx := d.Index(c)
					if idx < 0 || idx >= d.Cells() {
						t.Fatalf("%v: index %d of %v out of range", d, idx, c)
					}
					if seen[idx] {
						t.Fatalf("%v: index %d produced twice", d, idx)
					}
					seen[idx] = true
					if got := d.Coord(idx); got != c {
						t.Fatalf("%v: Coord(Index(%v)) = %v", d, c, got)
					}
				}
			}
		}
	}
}

func TestIndex2DIsRowMajor(t *testing.T) {
	d := Dims{W: 4, H: 3, D: 1}
	if got := d.Index(Coord{X: 2, Y: 1}); got != 1*4+2 {
		t.Fatalf("expected row-major index 6, got %d", got)
	}
}

func TestNewDimsRejectsDegenerateSizes(t *testing.T) {
	cases := []struct{ w, h, d int }{
		{0, 3, 1},
		{3, 0, 1},
		{3, 3, 0},
		{-1, 3, 3},
		{1 << 16, 1 << 16, 1},
	}
	for _, tc := range cases {
		_, err := NewDims(tc.w, tc.h, tc.d)
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("NewDims(%d,%d,%d) error = %v, want *ConfigError", tc.w, tc.h, tc.d, err)
		}
	}
	if _, err := NewDims(16, 16, 16); err != nil {
		t.Fatalf("valid dims rejected: %v", err)
	}
}

func TestEachOrder(t *testing.T) {
	var got []Coord
	Dims{W: 2, H: 2, D: 1}.Each(func(c Coord) { got = append(got, c) })
	want := []Coord{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("2D order[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	got = got[:0]
	Dims{W: 2, H: 1, D: 2}.Each(func(c Coord) { got = append(got, c) })
	want = []Coord{{0, 0, 0}, {0, 0, 1}, {1, 0, 0}, {1, 0, 1}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("3D order[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMooreClipsAtEdges(t *testing.T) {
	count := 0
	Dims{W: 3, H: 3, D: 1}.Moore(Coord{}, func(Coord) bool { count++; return true })
	if count != 4 {
		t.Fatalf("corner 2D neighbourhood should have 4 slots, got %d", count)
	}
	count = 0
	Dims{W: 3, H: 3, D: 3}.Moore(Coord{X: 1, Y: 1, Z: 1}, func(Coord) bool { count++; return true })
	if count != 27 {
		t.Fatalf("centre 3D neighbourhood should have 27 slots, got %d", count)
	}
}

func TestOutOfBoundsWraps(t *testing.T) {
	err := OutOfBounds(Coord{X: 9}, Dims{W: 3, H: 3, D: 3})
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestWeightedSkipsZeroWeights(t *testing.T) {
	rng := NewRNG(7)
	for i := 0; i < 1000; i++ {
		if got := rng.Weighted([]int{0, 5, 0}); got != 1 {
			t.Fatalf("expected only index 1, got %d", got)
		}
	}
	if got := rng.Weighted([]int{0, 0}); got != -1 {
		t.Fatalf("expected -1 for all-zero weights, got %d", got)
	}
}

func TestOffsetRange(t *testing.T) {
	rng := NewRNG(3)
	seen := map[int]bool{}
	for i := 0; i < 300; i++ {
		v := rng.Offset()
		if v < -1 || v > 1 {
			t.Fatalf("offset %d out of range", v)
		}
		seen[v] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected all three offsets, saw %v", seen)
	}
}

func TestFixedStepAccumulates(t *testing.T) {
	clock := time.Unix(0, 0)
	fs := NewFixedStep(10)
	fs.now = func() time.Time { return clock }

	if !fs.ShouldStep() {
		t.Fatal("first call should step with a primed accumulator")
	}
	clock = clock.Add(50 * time.Millisecond)
	if fs.ShouldStep() {
		t.Fatal("half an interval should not step")
	}
	clock = clock.Add(50 * time.Millisecond)
	if !fs.ShouldStep() {
		t.Fatal("full interval should step")
	}
}
