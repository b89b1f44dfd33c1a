// Package impls describes the substring search implementations compared by
// the benchmark matrix.
//
// Each implementation is a matrix.Implementation: a capability function
// plus one entry point per mode and direction. Adding an implementation
// means adding a descriptor here; the matrix needs no other change.
package impls

import (
	"bytes"
	"regexp"

	"github.com/segmentio/asm/utf8"

	"github.com/mhr3/memmembench/matrix"
	"github.com/mhr3/memmembench/memmem"
)

// Names of the implementations returned by All.
const (
	VelozName  = "veloz"
	NoPreName  = "veloz-nopre"
	StdlibName = "stdlib"
	RegexpName = "regexp"
)

// All returns every implementation in report order.
func All() matrix.ImplementationSet {
	return matrix.ImplementationSet{Veloz(), VelozNoPrefilter(), Stdlib(), Regexp()}
}

func always(caps matrix.Capabilities) func([]byte) matrix.Capabilities {
	return func([]byte) matrix.Capabilities { return caps }
}

// Veloz is the memmem package with its default settings: one-shot
// functions for oneshot modes and finders for prebuilt modes.
func Veloz() matrix.Implementation {
	return matrix.Implementation{
		Name:      VelozName,
		Available: always(matrix.All),
		Forward: matrix.Searchers{
			OneShot: func(h, n []byte) bool { return memmem.Index(h, n) >= 0 },
			Prebuilt: func(n []byte) func([]byte) bool {
				f := memmem.NewFinder(n)
				return func(h []byte) bool { return f.Index(h) >= 0 }
			},
			OneShotIter: memmem.Count,
			PrebuiltIter: func(n []byte) func([]byte) int {
				return memmem.NewFinder(n).Count
			},
		},
		Reverse: matrix.Searchers{
			OneShot: func(h, n []byte) bool { return memmem.LastIndex(h, n) >= 0 },
			Prebuilt: func(n []byte) func([]byte) bool {
				f := memmem.NewFinderRev(n)
				return func(h []byte) bool { return f.LastIndex(h) >= 0 }
			},
			OneShotIter: memmem.CountRev,
			PrebuiltIter: func(n []byte) func([]byte) int {
				return memmem.NewFinderRev(n).Count
			},
		},
	}
}

// VelozNoPrefilter is memmem with the rare-byte prefilter disabled, so
// every search runs Rabin-Karp. One-shot modes build a finder per call.
func VelozNoPrefilter() matrix.Implementation {
	b := memmem.NewFinderBuilder().Prefilter(false)
	return matrix.Implementation{
		Name:      NoPreName,
		Available: always(matrix.All),
		Forward: matrix.Searchers{
			OneShot: func(h, n []byte) bool { return b.BuildForward(n).Index(h) >= 0 },
			Prebuilt: func(n []byte) func([]byte) bool {
				f := b.BuildForward(n)
				return func(h []byte) bool { return f.Index(h) >= 0 }
			},
			OneShotIter: func(h, n []byte) int { return b.BuildForward(n).Count(h) },
			PrebuiltIter: func(n []byte) func([]byte) int {
				return b.BuildForward(n).Count
			},
		},
		Reverse: matrix.Searchers{
			OneShot: func(h, n []byte) bool { return b.BuildReverse(n).LastIndex(h) >= 0 },
			Prebuilt: func(n []byte) func([]byte) bool {
				f := b.BuildReverse(n)
				return func(h []byte) bool { return f.LastIndex(h) >= 0 }
			},
			OneShotIter: func(h, n []byte) int { return b.BuildReverse(n).Count(h) },
			PrebuiltIter: func(n []byte) func([]byte) int {
				return b.BuildReverse(n).Count
			},
		},
	}
}

// Stdlib is package bytes. It has no prebuilt searcher, so it only runs in
// the oneshot modes.
func Stdlib() matrix.Implementation {
	return matrix.Implementation{
		Name:      StdlibName,
		Available: always(matrix.ForwardModes(matrix.OneShot, matrix.OneShotIter).WithReverse()),
		Forward: matrix.Searchers{
			OneShot:     bytes.Contains,
			OneShotIter: countBytes,
		},
		Reverse: matrix.Searchers{
			OneShot:     func(h, n []byte) bool { return bytes.LastIndex(h, n) >= 0 },
			OneShotIter: countBytesRev,
		},
	}
}

// countBytes and countBytesRev count like memmem.Count: an empty needle
// matches at every offset.
func countBytes(h, n []byte) int {
	if len(n) == 0 {
		return len(h) + 1
	}
	count := 0
	for {
		i := bytes.Index(h, n)
		if i < 0 {
			return count
		}
		count++
		h = h[i+len(n):]
	}
}

func countBytesRev(h, n []byte) int {
	if len(n) == 0 {
		return len(h) + 1
	}
	count := 0
	for {
		i := bytes.LastIndex(h, n)
		if i < 0 {
			return count
		}
		count++
		h = h[:i]
	}
}

// Regexp is package regexp compiling the quoted needle. It searches text,
// so it declares nothing for needles that are not valid UTF-8, and it has
// no reverse search. Needles holding U+FFFD are excluded too: regexp
// decodes every invalid haystack byte to U+FFFD and would match them.
func Regexp() matrix.Implementation {
	return matrix.Implementation{
		Name: RegexpName,
		Available: func(n []byte) matrix.Capabilities {
			if !utf8.Valid(n) || bytes.ContainsRune(n, '\uFFFD') {
				return 0
			}
			return matrix.AllForward
		},
		Forward: matrix.Searchers{
			OneShot: func(h, n []byte) bool { return compileLiteral(n).Match(h) },
			Prebuilt: func(n []byte) func([]byte) bool {
				return compileLiteral(n).Match
			},
			OneShotIter: func(h, n []byte) int { return len(compileLiteral(n).FindAllIndex(h, -1)) },
			PrebuiltIter: func(n []byte) func([]byte) int {
				re := compileLiteral(n)
				return func(h []byte) int { return len(re.FindAllIndex(h, -1)) }
			},
		},
	}
}

func compileLiteral(needle []byte) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(string(needle)))
}
