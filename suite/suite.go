// Package suite assembles the full benchmark set: the matrix over the
// built-in catalog, optional manifest inputs and the misc benchmarks.
package suite

import (
	"bytes"
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/mhr3/memmembench/impls"
	"github.com/mhr3/memmembench/inputs"
	"github.com/mhr3/memmembench/matrix"
	"github.com/mhr3/memmembench/memmem"
)

// Options selects what Define generates.
type Options struct {
	Rules matrix.Rules
	// Manifest is a YAML manifest of extra inputs. Empty means none.
	Manifest string
	// Impls names the implementations to include. Empty means all.
	Impls []string
	// Filter keeps only benchmarks whose name matches. Nil keeps all.
	Filter *regexp.Regexp
	// Misc adds the finder construction and frequency table benchmarks.
	Misc bool
	// Executable reads the frequency table corpus. Nil means
	// inputs.Executable.
	Executable func() ([]byte, error)
}

// DefaultOptions generates every benchmark under the default rules.
func DefaultOptions() Options {
	return Options{Rules: matrix.DefaultRules, Misc: true}
}

// Define registers the benchmarks selected by opts with r. Every corpus is
// read before the first benchmark is registered.
func Define(r matrix.Registrar, opts Options) (matrix.Stats, error) {
	set, err := impls.All().Select(opts.Impls...)
	if err != nil {
		return matrix.Stats{}, err
	}

	catalog, err := Inputs(opts)
	if err != nil {
		return matrix.Stats{}, err
	}

	var exe []byte
	misc := opts.Misc && slices.Contains(set.Names(), impls.VelozName)
	if misc {
		read := opts.Executable
		if read == nil {
			read = inputs.Executable
		}
		if exe, err = read(); err != nil {
			return matrix.Stats{}, fmt.Errorf("frequency-table: %w", err)
		}
	}

	if opts.Filter != nil {
		r = filtered{r, opts.Filter}
	}

	stats, err := matrix.Define(r, catalog, set, opts.Rules)
	if err != nil {
		return matrix.Stats{}, err
	}

	if misc {
		defineMisc(r, exe)
	}
	return stats, nil
}

// Inputs returns the built-in catalog followed by the inputs of
// opts.Manifest.
func Inputs(opts Options) ([]matrix.Input, error) {
	catalog := inputs.Catalog()
	if opts.Manifest == "" {
		return catalog, nil
	}
	extra, err := inputs.LoadManifest(opts.Manifest)
	if err != nil {
		return nil, err
	}
	return append(slices.Clip(catalog), extra...), nil
}

type filtered struct {
	matrix.Registrar
	re *regexp.Regexp
}

func (f filtered) Register(name string, corpus []byte, body matrix.Body) {
	if f.re.MatchString(name) {
		f.Registrar.Register(name, corpus, body)
	}
}

var finderSink *memmem.Finder

var constructNeedles = []string{"a", "abcd", "abcdefgh12345678"}

// defineMisc registers benchmarks outside the matrix: finder construction
// cost, and counting a machine-code pattern in exe with the default and the
// executable rank tables.
func defineMisc(r matrix.Registrar, exe []byte) {
	rankings := []struct {
		name   string
		ranker memmem.Ranker
	}{
		{"default", nil},
		{"custom", &impls.ExecutableRanks},
	}

	for _, needle := range constructNeedles {
		n := []byte(needle)
		for _, rk := range rankings {
			b := memmem.NewFinderBuilder().Ranker(rk.ranker)
			name := "memmem/veloz/misc/construct-finder/" + rk.name + "(len=" + strconv.Itoa(len(n)) + ")"
			r.Register(name, n, func(t matrix.Timer) {
				for t.Loop() {
					finderSink = b.BuildForward(n)
				}
			})
		}
	}

	needle := []byte(inputs.ExecutablePattern)
	want := bytes.Count(exe, needle)

	for _, rk := range rankings {
		b := memmem.NewFinderBuilder().Ranker(rk.ranker)
		name := "memmem/veloz/misc/frequency-table/" + rk.name
		r.Register(name, exe, func(t matrix.Timer) {
			f := b.BuildForward(needle)
			for t.Loop() {
				if got := f.Count(exe); got != want {
					t.Fatalf("%s: count = %d, want %d", name, got, want)
				}
			}
		})
	}
}
