package suite

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhr3/memmembench/impls"
	"github.com/mhr3/memmembench/matrix"
)

// onceTimer runs a body for a single iteration and keeps the first failure.
type onceTimer struct {
	done  bool
	fatal string
}

func (t *onceTimer) Loop() bool {
	if t.done {
		return false
	}
	t.done = true
	return true
}

func (t *onceTimer) Fatalf(format string, args ...any) {
	if t.fatal == "" {
		t.fatal = fmt.Sprintf(format, args...)
	}
}

func collect(t *testing.T, opts Options) (*matrix.Collector, matrix.Stats) {
	t.Helper()
	var c matrix.Collector
	stats, err := Define(&c, opts)
	require.NoError(t, err)
	return &c, stats
}

func TestDefineRunsClean(t *testing.T) {
	c, stats := collect(t, DefaultOptions())
	require.NotEmpty(t, c.Benchmarks)
	assert.Positive(t, stats.Generated)

	for _, bm := range c.Benchmarks {
		var tm onceTimer
		bm.Body(&tm)
		if tm.fatal != "" {
			t.Errorf("%s: %s", bm.Name, tm.fatal)
		}
		if !tm.done {
			t.Errorf("%s: body never called Loop", bm.Name)
		}
	}
}

func TestDefineNames(t *testing.T) {
	c, stats := collect(t, DefaultOptions())

	seen := make(map[string]bool)
	misc := 0
	for _, name := range c.Names() {
		if seen[name] {
			t.Errorf("duplicate name %q", name)
		}
		seen[name] = true
		if strings.ContainsFunc(name, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' }) {
			t.Errorf("name %q contains whitespace", name)
		}
		if strings.Contains(name, "/misc/") {
			misc++
			continue
		}
		if _, err := matrix.ParseName(name); err != nil {
			t.Errorf("ParseName(%q): %v", name, err)
		}
	}

	assert.Equal(t, 2*len(constructNeedles)+2, misc)
	assert.Equal(t, stats.Generated+misc, len(c.Benchmarks))
	assert.True(t, seen["memmem/veloz/misc/construct-finder/custom(len=4)"])
	assert.True(t, seen["memmem/veloz/misc/frequency-table/default"])
}

func TestDefineDeterministic(t *testing.T) {
	a, _ := collect(t, DefaultOptions())
	b, _ := collect(t, DefaultOptions())
	assert.Equal(t, matrix.Digest(a.Names()), matrix.Digest(b.Names()))
}

func TestDefineOptions(t *testing.T) {
	t.Run("impls", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Impls = []string{impls.StdlibName}
		c, _ := collect(t, opts)
		require.NotEmpty(t, c.Benchmarks)
		for _, name := range c.Names() {
			assert.Contains(t, name, "/"+impls.StdlibName+"/")
		}
	})

	t.Run("filter", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Filter = regexp.MustCompile(`^memrmem/.*/prebuiltiter/`)
		c, stats := collect(t, opts)
		require.NotEmpty(t, c.Benchmarks)
		assert.Less(t, len(c.Benchmarks), stats.Generated)
		for _, name := range c.Names() {
			assert.True(t, strings.HasPrefix(name, "memrmem/"), name)
		}
	})

	t.Run("no misc", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Misc = false
		c, stats := collect(t, opts)
		assert.Equal(t, stats.Generated, len(c.Benchmarks))
	})

	t.Run("manifest", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Manifest = "../inputs/testdata/manifest.yaml"
		opts.Misc = false
		with, _ := collect(t, opts)

		opts.Manifest = ""
		without, _ := collect(t, opts)
		assert.Greater(t, len(with.Benchmarks), len(without.Benchmarks))
	})

	t.Run("errors", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Impls = []string{"nope"}
		_, err := Define(&matrix.Collector{}, opts)
		assert.ErrorIs(t, err, matrix.ErrUnknownImplementation)

		opts = DefaultOptions()
		opts.Manifest = "testdata/does-not-exist.yaml"
		_, err = Define(&matrix.Collector{}, opts)
		assert.Error(t, err)
	})

	t.Run("unreadable executable", func(t *testing.T) {
		errExe := errors.New("no executable")
		opts := DefaultOptions()
		opts.Executable = func() ([]byte, error) { return nil, errExe }

		var c matrix.Collector
		_, err := Define(&c, opts)
		assert.ErrorIs(t, err, errExe)
		assert.Empty(t, c.Benchmarks)

		// Not read when no frequency table benchmark is generated.
		opts.Misc = false
		_, err = Define(&c, opts)
		require.NoError(t, err)
		assert.NotEmpty(t, c.Benchmarks)
	})

	t.Run("executable corpus", func(t *testing.T) {
		exe := []byte("\x48\x8b\x00\x00\xdd\xdd'\x90\x00\x00\xdd\xdd'")
		opts := DefaultOptions()
		opts.Filter = regexp.MustCompile(`/frequency-table/`)
		opts.Executable = func() ([]byte, error) { return exe, nil }

		c, _ := collect(t, opts)
		require.Equal(t, []string{
			"memmem/veloz/misc/frequency-table/default",
			"memmem/veloz/misc/frequency-table/custom",
		}, c.Names())
		for _, bm := range c.Benchmarks {
			assert.Equal(t, exe, bm.Corpus)
			var tm onceTimer
			bm.Body(&tm)
			assert.Empty(t, tm.fatal, bm.Name)
		}
	})
}
