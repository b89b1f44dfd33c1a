package matrix

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrInvalidName is returned for an input, query or implementation name
	// that cannot appear as a benchmark name component.
	ErrInvalidName = errors.New("invalid name")
	// ErrInvalidQuery is returned for a query with a negative expected count.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrMissingSearcher is returned when an implementation declares a
	// capability it has no entry point for.
	ErrMissingSearcher = errors.New("missing searcher")
	// ErrUnknownImplementation is returned by ImplementationSet.Select.
	ErrUnknownImplementation = errors.New("unknown implementation")
)

// Tier classifies a query by how often its needle occurs in the corpus.
type Tier uint8

const (
	Never Tier = iota
	Rare
	Common
)

// Tiers lists every tier in generation order.
var Tiers = [...]Tier{Never, Rare, Common}

var tierNames = [...]string{Never: "never", Rare: "rare", Common: "common"}

func (t Tier) String() string {
	if int(t) < len(tierNames) {
		return tierNames[t]
	}
	return fmt.Sprintf("Tier(%d)", t)
}

// ParseTier returns the Tier named s.
func ParseTier(s string) (Tier, error) {
	for i, name := range tierNames {
		if name == s {
			return Tier(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tier %q", s)
}

// Query is a needle paired with the exact number of non-overlapping,
// left-to-right occurrences in the corpus of the Input that owns it.
type Query struct {
	Name   string
	Needle []byte
	Count  int
}

// Input is a named corpus with its queries grouped by tier.
// Corpus is shared by every benchmark generated from the input and must not
// be modified.
type Input struct {
	Name   string
	Corpus []byte
	Never  []Query
	Rare   []Query
	Common []Query
}

// Queries returns the queries of tier t.
func (in *Input) Queries(t Tier) []Query {
	switch t {
	case Never:
		return in.Never
	case Rare:
		return in.Rare
	case Common:
		return in.Common
	}
	return nil
}

// ValidateInputs checks that every input and query name can be used as a
// name component, that names are unique where the benchmark grammar needs
// them to be, and that no expected count is negative.
func ValidateInputs(inputs []Input) error {
	seen := make(map[string]bool, len(inputs))
	for i := range inputs {
		in := &inputs[i]
		if err := checkComponent("input", in.Name); err != nil {
			return err
		}
		if seen[in.Name] {
			return fmt.Errorf("%w: duplicate input %q", ErrInvalidName, in.Name)
		}
		seen[in.Name] = true

		for _, tier := range Tiers {
			queries := make(map[string]bool)
			for _, q := range in.Queries(tier) {
				if err := checkComponent("query", q.Name); err != nil {
					return fmt.Errorf("input %s: %w", in.Name, err)
				}
				if queries[q.Name] {
					return fmt.Errorf("%w: input %s: duplicate %s query %q", ErrInvalidName, in.Name, tier, q.Name)
				}
				queries[q.Name] = true

				if q.Count < 0 {
					return fmt.Errorf("%w: %s/%s-%s: negative count %d", ErrInvalidQuery, in.Name, tier, q.Name, q.Count)
				}
			}
		}
	}
	return nil
}

// checkComponent rejects names the grammar cannot carry: empty, containing
// a slash, or containing spaces (which go test rewrites in sub-benchmark
// names).
func checkComponent(kind, name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty %s name", ErrInvalidName, kind)
	case strings.ContainsRune(name, '/'):
		return fmt.Errorf("%w: %s %q contains '/'", ErrInvalidName, kind, name)
	case strings.ContainsFunc(name, unicode.IsSpace):
		return fmt.Errorf("%w: %s %q contains a space", ErrInvalidName, kind, name)
	}
	return nil
}

// Searchers holds the entry points of one implementation for one direction.
// Single-shot entry points report whether the needle occurs; iteration
// entry points return the number of non-overlapping matches. The Prebuilt
// variants build a searcher for the needle and return the search.
type Searchers struct {
	OneShot      func(haystack, needle []byte) bool
	Prebuilt     func(needle []byte) func(haystack []byte) bool
	OneShotIter  func(haystack, needle []byte) int
	PrebuiltIter func(needle []byte) func(haystack []byte) int
}

func (s *Searchers) has(m Mode) bool {
	switch m {
	case OneShot:
		return s.OneShot != nil
	case Prebuilt:
		return s.Prebuilt != nil
	case OneShotIter:
		return s.OneShotIter != nil
	case PrebuiltIter:
		return s.PrebuiltIter != nil
	}
	return false
}

// Implementation describes a search implementation under benchmark.
type Implementation struct {
	Name string
	// Available returns the modes the implementation supports for needle.
	// It must be a pure function of needle.
	Available func(needle []byte) Capabilities
	Forward   Searchers
	Reverse   Searchers
}

func (impl *Implementation) searchers(d Direction) *Searchers {
	if d == Reverse {
		return &impl.Reverse
	}
	return &impl.Forward
}

// ImplementationSet is the ordered set of implementations a matrix covers.
type ImplementationSet []Implementation

// Names returns the implementation names in order.
func (s ImplementationSet) Names() []string {
	names := make([]string, len(s))
	for i := range s {
		names[i] = s[i].Name
	}
	return names
}

// Select returns the implementations named in names, in set order.
// An empty names selects the whole set.
func (s ImplementationSet) Select(names ...string) (ImplementationSet, error) {
	if len(names) == 0 {
		return s, nil
	}
	want := make(map[string]bool, len(names))
	for _, name := range names {
		want[name] = true
	}
	var out ImplementationSet
	for _, impl := range s {
		if want[impl.Name] {
			out = append(out, impl)
			delete(want, impl.Name)
		}
	}
	for _, name := range names {
		if want[name] {
			return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownImplementation, name, strings.Join(s.Names(), ", "))
		}
	}
	return out, nil
}

// Validate checks implementation names and that every implementation can
// report its capabilities.
func (s ImplementationSet) Validate() error {
	seen := make(map[string]bool, len(s))
	for i := range s {
		impl := &s[i]
		if err := checkComponent("implementation", impl.Name); err != nil {
			return err
		}
		if seen[impl.Name] {
			return fmt.Errorf("%w: duplicate implementation %q", ErrInvalidName, impl.Name)
		}
		seen[impl.Name] = true
		if impl.Available == nil {
			return fmt.Errorf("implementation %s: no capability function", impl.Name)
		}
	}
	return nil
}
