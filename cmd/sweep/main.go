// Command sweep runs one automaton over a range of seeds in parallel and
// reports how the populations ended up.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"automata/internal/core"
	_ "automata/internal/sims/evolution"
	_ "automata/internal/sims/predprey"
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

type scenario struct {
	Sim    string
	Steps  int
	Params map[string]string
}

type outcome struct {
	Seed int64
	// Steps actually taken; smaller than requested when everything died.
	Steps int
	Final core.Population
	Peak  core.Population
	// ExtinctAt is the first step at which a species vanished, or -1.
	ExtinctAt int
}

func main() {
	sim := flag.String("sim", "predprey", "automaton to sweep")
	steps := flag.Int("steps", 500, "ticks to simulate per seed")
	seeds := flag.Int("seeds", 32, "number of seeds to run")
	from := flag.Int64("from", 1, "first seed")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel runs")
	top := flag.Int("top", 5, "rows to print")
	var overrides kvList
	flag.Var(&overrides, "set", "parameter override in key=value form (repeatable)")
	flag.Parse()

	logger := log.New(os.Stdout, "[sweep] ", log.LstdFlags)

	sc := scenario{Sim: *sim, Steps: *steps, Params: map[string]string{}}
	for _, kv := range overrides {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			logger.Fatalf("bad override %q: want key=value", kv)
		}
		sc.Params[k] = v
	}
	list := make([]int64, *seeds)
	for i := range list {
		list[i] = *from + int64(i)
	}

	logger.Printf("sweeping %s over %d seeds (%d workers, %d steps)", sc.Sim, len(list), *workers, sc.Steps)
	start := time.Now()
	results, err := sweep(context.Background(), sc, list, *workers)
	if err != nil {
		logger.Fatalf("sweep: %v", err)
	}
	logger.Printf("finished in %s", time.Since(start).Round(time.Millisecond))
	report(os.Stdout, results, *top)
}

// sweep runs sc once per seed. Results are returned in seed order.
func sweep(ctx context.Context, sc scenario, seeds []int64, workers int) ([]outcome, error) {
	factory, ok := core.Sims()[sc.Sim]
	if !ok {
		return nil, fmt.Errorf("unknown sim %q (have %v)", sc.Sim, core.SimNames())
	}
	if workers <= 0 {
		workers = 1
	}
	results := make([]outcome, len(seeds))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, seed := range seeds {
		g.Go(func() error {
			params := make(map[string]string, len(sc.Params)+1)
			for k, v := range sc.Params {
				params[k] = v
			}
			params["seed"] = strconv.FormatInt(seed, 10)
			s, err := factory(params)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			res, err := runOne(ctx, s, seed, sc.Steps)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runOne(ctx context.Context, s core.Sim, seed int64, steps int) (outcome, error) {
	s.Reset(seed)
	out := outcome{Seed: seed, ExtinctAt: -1, Peak: s.Population()}
	predprey := strings.HasPrefix(s.Name(), "predprey")
	for step := 1; step <= steps; step++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		s.Step()
		pop := s.Population()
		out.Steps = step
		out.Peak.Predators = max(out.Peak.Predators, pop.Predators)
		out.Peak.Prey = max(out.Peak.Prey, pop.Prey)
		out.Peak.Living = max(out.Peak.Living, pop.Living)
		if out.ExtinctAt < 0 && (pop.Living == 0 || predprey && (pop.Predators == 0 || pop.Prey == 0)) {
			out.ExtinctAt = step
		}
		if pop.Living == 0 {
			break
		}
	}
	out.Final = s.Population()
	return out, nil
}

func report(w io.Writer, results []outcome, top int) {
	survived := 0
	for _, r := range results {
		if r.ExtinctAt < 0 {
			survived++
		}
	}
	fmt.Fprintf(w, "%d/%d seeds kept every species alive\n", survived, len(results))

	ranked := append([]outcome(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Final.Living > ranked[j].Final.Living })
	fmt.Fprintf(w, "\nTop %d by final population:\n", min(top, len(ranked)))
	for i := 0; i < len(ranked) && i < top; i++ {
		r := ranked[i]
		extinct := "-"
		if r.ExtinctAt >= 0 {
			extinct = strconv.Itoa(r.ExtinctAt)
		}
		fmt.Fprintf(w, "%2d) seed=%d steps=%d final=%d/%d/%d peak=%d/%d/%d extinct=%s\n",
			i+1, r.Seed, r.Steps,
			r.Final.Predators, r.Final.Prey, r.Final.Living,
			r.Peak.Predators, r.Peak.Prey, r.Peak.Living, extinct)
	}
}
