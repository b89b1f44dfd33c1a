// Package memmem implements substring search over byte slices.
//
// One-shot functions (Index, LastIndex, FindIter, FindRevIter) analyze the
// needle on every call. A Finder or FinderRev performs that analysis once,
// for repeated searches with the same needle.
//
// Searches run a rare-byte prefilter: scan for the needle byte least likely
// to occur in the haystack, check a second byte, then verify. When false
// candidates get too dense the search cuts over to Rabin-Karp for the rest
// of the haystack, so worst-case time stays linear.
package memmem

import (
	"bytes"
	"iter"

	"github.com/mhr3/memmembench/internal/bytealg"
)

// Index returns the index of the first occurrence of needle in haystack,
// or -1 if needle is not present.
func Index(haystack, needle []byte) int {
	n := len(needle)
	switch {
	case n == 0:
		return 0
	case n > len(haystack):
		return -1
	case n == 1:
		return bytes.IndexByte(haystack, needle[0])
	}

	// Quick check for position-0 match.
	if haystack[0] == needle[0] && bytes.Equal(haystack[:n], needle) {
		return 0
	}

	hash, pow := bytealg.HashStr(needle)
	return indexPrefilter(haystack, needle, selectEdgePair(needle), hash, pow)
}

// LastIndex returns the index of the last occurrence of needle in haystack,
// or -1 if needle is not present.
func LastIndex(haystack, needle []byte) int {
	n := len(needle)
	switch {
	case n == 0:
		return len(haystack)
	case n > len(haystack):
		return -1
	case n == 1:
		return bytes.LastIndexByte(haystack, needle[0])
	}

	hash, pow := bytealg.HashStrRev(needle)
	return lastIndexPrefilter(haystack, needle, selectEdgePair(needle), hash, pow)
}

// FindIter returns an iterator over the start offsets of non-overlapping
// occurrences of needle in haystack, left to right.
func FindIter(haystack, needle []byte) iter.Seq[int] {
	return NewFinder(needle).FindIter(haystack)
}

// FindRevIter returns an iterator over the start offsets of non-overlapping
// occurrences of needle in haystack, right to left.
func FindRevIter(haystack, needle []byte) iter.Seq[int] {
	return NewFinderRev(needle).FindIter(haystack)
}

// Count returns the number of non-overlapping occurrences of needle in
// haystack. An empty needle matches at every offset, len(haystack)+1 times.
func Count(haystack, needle []byte) int {
	return NewFinder(needle).Count(haystack)
}

// CountRev is Count with matches taken right to left. For a single needle
// the greedy count is the same from either end.
func CountRev(haystack, needle []byte) int {
	return NewFinderRev(needle).Count(haystack)
}

// FinderBuilder configures the construction of Finder and FinderRev.
type FinderBuilder struct {
	prefilter bool
	ranker    Ranker
}

// NewFinderBuilder returns a builder with the prefilter enabled and the
// default rank table.
func NewFinderBuilder() *FinderBuilder {
	return &FinderBuilder{prefilter: true}
}

// Prefilter enables or disables the rare-byte prefilter. A finder without
// one runs Rabin-Karp for every search.
func (b *FinderBuilder) Prefilter(enabled bool) *FinderBuilder {
	b.prefilter = enabled
	return b
}

// Ranker sets the byte ranking used to choose prefilter bytes. A nil
// Ranker restores the default table.
func (b *FinderBuilder) Ranker(r Ranker) *FinderBuilder {
	b.ranker = r
	return b
}

// BuildForward builds a Finder for needle. The needle is copied.
func (b *FinderBuilder) BuildForward(needle []byte) *Finder {
	f := &Finder{
		needle:    bytes.Clone(needle),
		prefilter: b.prefilter && len(needle) > 1,
	}
	f.hash, f.pow = bytealg.HashStr(f.needle)
	if f.prefilter {
		f.pair = selectRarePair(f.needle, rankTableOf(b.ranker))
	}
	return f
}

// BuildReverse builds a FinderRev for needle. The needle is copied.
func (b *FinderBuilder) BuildReverse(needle []byte) *FinderRev {
	f := &FinderRev{
		needle:    bytes.Clone(needle),
		prefilter: b.prefilter && len(needle) > 1,
	}
	f.hash, f.pow = bytealg.HashStrRev(f.needle)
	if f.prefilter {
		f.pair = selectRarePair(f.needle, rankTableOf(b.ranker))
	}
	return f
}

// Finder searches for a fixed needle, left to right.
// Construct once with NewFinder or a FinderBuilder, then search many
// haystacks. A Finder is immutable and safe for concurrent use.
type Finder struct {
	needle    []byte
	pair      rarePair
	prefilter bool
	hash, pow uint32
}

// NewFinder builds a Finder with default settings.
func NewFinder(needle []byte) *Finder {
	return NewFinderBuilder().BuildForward(needle)
}

// Needle returns the needle this finder searches for.
func (f *Finder) Needle() []byte { return f.needle }

// Index returns the index of the first occurrence of the needle in
// haystack, or -1.
func (f *Finder) Index(haystack []byte) int {
	n := len(f.needle)
	switch {
	case n == 0:
		return 0
	case n > len(haystack):
		return -1
	case n == 1:
		return bytes.IndexByte(haystack, f.needle[0])
	case !f.prefilter:
		return bytealg.IndexRabinKarp(haystack, f.needle, f.hash, f.pow)
	}
	return indexPrefilter(haystack, f.needle, f.pair, f.hash, f.pow)
}

// FindIter returns an iterator over the start offsets of non-overlapping
// occurrences of the needle in haystack, left to right.
func (f *Finder) FindIter(haystack []byte) iter.Seq[int] {
	return func(yield func(int) bool) {
		step := max(len(f.needle), 1)
		for pos := 0; pos <= len(haystack); {
			idx := f.Index(haystack[pos:])
			if idx < 0 || !yield(pos+idx) {
				return
			}
			pos += idx + step
		}
	}
}

// Count returns the number of non-overlapping occurrences of the needle.
func (f *Finder) Count(haystack []byte) int {
	count := 0
	for range f.FindIter(haystack) {
		count++
	}
	return count
}

// FinderRev searches for a fixed needle, right to left.
type FinderRev struct {
	needle    []byte
	pair      rarePair
	prefilter bool
	hash, pow uint32
}

// NewFinderRev builds a FinderRev with default settings.
func NewFinderRev(needle []byte) *FinderRev {
	return NewFinderBuilder().BuildReverse(needle)
}

// Needle returns the needle this finder searches for.
func (f *FinderRev) Needle() []byte { return f.needle }

// LastIndex returns the index of the last occurrence of the needle in
// haystack, or -1.
func (f *FinderRev) LastIndex(haystack []byte) int {
	n := len(f.needle)
	switch {
	case n == 0:
		return len(haystack)
	case n > len(haystack):
		return -1
	case n == 1:
		return bytes.LastIndexByte(haystack, f.needle[0])
	case !f.prefilter:
		return bytealg.LastIndexRabinKarp(haystack, f.needle, f.hash, f.pow)
	}
	return lastIndexPrefilter(haystack, f.needle, f.pair, f.hash, f.pow)
}

// FindIter returns an iterator over the start offsets of non-overlapping
// occurrences of the needle in haystack, right to left.
func (f *FinderRev) FindIter(haystack []byte) iter.Seq[int] {
	return func(yield func(int) bool) {
		n := len(f.needle)
		for end := len(haystack); end >= 0; {
			idx := f.LastIndex(haystack[:end])
			if idx < 0 || !yield(idx) {
				return
			}
			if n == 0 {
				end = idx - 1
			} else {
				end = idx
			}
		}
	}
}

// Count returns the number of non-overlapping occurrences of the needle,
// matched right to left.
func (f *FinderRev) Count(haystack []byte) int {
	count := 0
	for range f.FindIter(haystack) {
		count++
	}
	return count
}
