// Package matrix expands a catalog of inputs and a set of search
// implementations into uniquely named benchmarks.
//
// For every input, tier, query and implementation, Rules pick the mode
// family the query belongs to and the implementation's Capabilities pick the
// modes and directions within it. Every surviving combination becomes a
// Benchmark whose Body searches the input corpus and checks the result
// against the query's expected count on every iteration.
//
// The package does no timing itself. Bodies drive a Timer, which
// *testing.B satisfies, and benchmarks are handed to a Registrar.
package matrix

import "fmt"

// Timer is the part of *testing.B a benchmark body uses. Work done before
// the first call to Loop is not timed.
type Timer interface {
	Loop() bool
	Fatalf(format string, args ...any)
}

// Body is a timed benchmark body.
type Body func(t Timer)

// Registrar accepts generated benchmarks. corpus is the haystack the body
// searches, for throughput reporting; it must not be modified.
type Registrar interface {
	Register(name string, corpus []byte, body Body)
}

// Benchmark is one generated benchmark.
type Benchmark struct {
	Name   string
	Corpus []byte
	Body   Body
}

// Collector is a Registrar that keeps benchmarks in registration order.
type Collector struct {
	Benchmarks []Benchmark
}

// Register implements Registrar.
func (c *Collector) Register(name string, corpus []byte, body Body) {
	c.Benchmarks = append(c.Benchmarks, Benchmark{Name: name, Corpus: corpus, Body: body})
}

// Names returns the names of the collected benchmarks in order.
func (c *Collector) Names() []string {
	names := make([]string, len(c.Benchmarks))
	for i, bm := range c.Benchmarks {
		names[i] = bm.Name
	}
	return names
}

// Stats summarizes an expansion.
type Stats struct {
	// Generated is the number of benchmarks produced.
	Generated int
	// Skipped is the number of (mode, direction) pairs the rules admitted
	// but the implementation did not declare for the needle.
	Skipped int
}

func (s Stats) String() string {
	return fmt.Sprintf("%d generated, %d skipped", s.Generated, s.Skipped)
}

// Define validates inputs and impls, expands them under rules and registers
// every benchmark with r. Nothing is registered if validation fails.
func Define(r Registrar, inputs []Input, impls ImplementationSet, rules Rules) (Stats, error) {
	bms, stats, err := Expand(inputs, impls, rules)
	if err != nil {
		return Stats{}, err
	}
	for _, bm := range bms {
		r.Register(bm.Name, bm.Corpus, bm.Body)
	}
	return stats, nil
}

// Expand returns the benchmarks for inputs and impls under rules, in
// generation order: input, tier, query, implementation, mode, direction.
func Expand(inputs []Input, impls ImplementationSet, rules Rules) ([]Benchmark, Stats, error) {
	if err := ValidateInputs(inputs); err != nil {
		return nil, Stats{}, err
	}
	if err := impls.Validate(); err != nil {
		return nil, Stats{}, err
	}

	var (
		bms   []Benchmark
		stats Stats
	)
	for i := range inputs {
		in := &inputs[i]
		for _, tier := range Tiers {
			for _, q := range in.Queries(tier) {
				for j := range impls {
					impl := &impls[j]
					avail := impl.Available(q.Needle)
					for k := range families {
						f := &families[k]
						if !f.admit(rules, &q) {
							continue
						}
						for _, mode := range f.modes {
							for _, dir := range Directions {
								if !avail.Has(mode, dir) {
									stats.Skipped++
									continue
								}
								s := impl.searchers(dir)
								if !s.has(mode) {
									return nil, Stats{}, fmt.Errorf("%w: %s declares %s %s", ErrMissingSearcher, impl.Name, dir, mode)
								}
								name := Name{
									Direction: dir,
									Impl:      impl.Name,
									Mode:      mode,
									Input:     in.Name,
									Tier:      tier,
									Query:     q.Name,
								}.String()
								bms = append(bms, Benchmark{
									Name:   name,
									Corpus: in.Corpus,
									Body:   bodyFor(name, s, mode, in.Corpus, q),
								})
								stats.Generated++
							}
						}
					}
				}
			}
		}
	}
	return bms, stats, nil
}

// bodyFor wraps the entry point of s for mode in a body that checks every
// result against q. Prebuilt modes build the searcher before the first
// Loop call.
func bodyFor(name string, s *Searchers, mode Mode, corpus []byte, q Query) Body {
	needle := q.Needle
	found, count := q.Count > 0, q.Count

	switch mode {
	case OneShot:
		search := s.OneShot
		return func(t Timer) {
			for t.Loop() {
				if got := search(corpus, needle); got != found {
					t.Fatalf("%s: found = %t, want %t", name, got, found)
				}
			}
		}
	case Prebuilt:
		build := s.Prebuilt
		return func(t Timer) {
			search := build(needle)
			for t.Loop() {
				if got := search(corpus); got != found {
					t.Fatalf("%s: found = %t, want %t", name, got, found)
				}
			}
		}
	case OneShotIter:
		search := s.OneShotIter
		return func(t Timer) {
			for t.Loop() {
				if got := search(corpus, needle); got != count {
					t.Fatalf("%s: count = %d, want %d", name, got, count)
				}
			}
		}
	case PrebuiltIter:
		build := s.PrebuiltIter
		return func(t Timer) {
			search := build(needle)
			for t.Loop() {
				if got := search(corpus); got != count {
					t.Fatalf("%s: count = %d, want %d", name, got, count)
				}
			}
		}
	}
	panic(fmt.Sprintf("matrix: unknown mode %v", mode))
}
