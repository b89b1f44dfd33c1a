package memmem

import (
	"bytes"

	"github.com/mhr3/memmembench/internal/bytealg"
)

// Candidate scans give up on the prefilter once they have seen at least
// cutoverMinCandidates false candidates and more than one per
// cutoverDensity bytes scanned. The rest of the haystack goes to
// Rabin-Karp, which is linear regardless of input.
const (
	cutoverMinCandidates = 16
	cutoverDensity       = 8
)

// rarePair holds the two needle bytes a prefilter checks before a full
// comparison. rare1 is the byte scanned for; rare2 is checked at its offset
// relative to each candidate start.
type rarePair struct {
	rare1 byte // rarest byte
	off1  int  // offset in needle
	rare2 byte // second rarest distinct byte
	off2  int  // offset in needle
}

// selectRarePair finds the two rarest distinct bytes of needle in a single
// O(n) pass. Used by finders, where the cost is amortized over searches.
// Unlike the sampled pair used by one-shot search, offsets are not ordered:
// rare1 is always the rarest byte.
func selectRarePair(needle []byte, ranks *RankTable) rarePair {
	n := len(needle)
	if n == 0 {
		return rarePair{}
	}
	if n == 1 {
		return rarePair{rare1: needle[0], rare2: needle[0]}
	}

	best1Byte, best2Byte := needle[0], byte(0)
	best1Off, best2Off := 0, -1
	best1Rank, best2Rank := int(ranks[best1Byte]), 256

	for i := 1; i < n; i++ {
		c := needle[i]
		r := int(ranks[c])
		if r < best1Rank {
			if c != best1Byte {
				best2Byte, best2Off, best2Rank = best1Byte, best1Off, best1Rank
			}
			best1Byte, best1Off, best1Rank = c, i, r
		} else if c != best1Byte && r < best2Rank {
			best2Byte, best2Off, best2Rank = c, i, r
		}
	}

	if best2Off == -1 {
		// Single distinct byte: spread the check across the needle.
		return rarePair{rare1: needle[0], off1: 0, rare2: needle[n-1], off2: n - 1}
	}
	return rarePair{rare1: best1Byte, off1: best1Off, rare2: best2Byte, off2: best2Off}
}

// selectEdgePair picks the first and last byte (max spread) in O(1), or the
// first and middle byte when first == last. Whichever of the two the default
// table ranks rarer is scanned for.
func selectEdgePair(needle []byte) rarePair {
	n := len(needle)
	first := needle[0]
	off2 := n - 1
	if n > 2 && first == needle[n-1] {
		off2 = n / 2
	}
	p := rarePair{rare1: first, off1: 0, rare2: needle[off2], off2: off2}
	if byteRank[p.rare2] < byteRank[p.rare1] {
		p.rare1, p.off1, p.rare2, p.off2 = p.rare2, p.off2, p.rare1, p.off1
	}
	return p
}

// indexPrefilter returns the first occurrence of needle in h, using the pair
// to skip over non-candidates. len(needle) >= 2 and len(h) >= len(needle).
func indexPrefilter(h, needle []byte, p rarePair, hash, pow uint32) int {
	n := len(needle)
	end := len(h) - n
	falsePos := 0

	for i := 0; i <= end; {
		idx := bytes.IndexByte(h[i+p.off1:end+p.off1+1], p.rare1)
		if idx < 0 {
			return -1
		}
		cand := i + idx
		if h[cand+p.off2] == p.rare2 && bytes.Equal(h[cand:cand+n], needle) {
			return cand
		}
		falsePos++
		i = cand + 1
		if falsePos >= cutoverMinCandidates && falsePos*cutoverDensity > i {
			pos := bytealg.IndexRabinKarp(h[i:], needle, hash, pow)
			if pos < 0 {
				return -1
			}
			return i + pos
		}
	}
	return -1
}

// lastIndexPrefilter is indexPrefilter scanning from the end of h.
// hash and pow must come from bytealg.HashStrRev.
func lastIndexPrefilter(h, needle []byte, p rarePair, hash, pow uint32) int {
	n := len(needle)
	end := len(h) - n
	falsePos := 0

	for hi := end; hi >= 0; {
		cand := bytes.LastIndexByte(h[p.off1:hi+p.off1+1], p.rare1)
		if cand < 0 {
			return -1
		}
		if h[cand+p.off2] == p.rare2 && bytes.Equal(h[cand:cand+n], needle) {
			return cand
		}
		falsePos++
		hi = cand - 1
		if falsePos >= cutoverMinCandidates && falsePos*cutoverDensity > end-hi {
			return bytealg.LastIndexRabinKarp(h[:hi+n], needle, hash, pow)
		}
	}
	return -1
}
