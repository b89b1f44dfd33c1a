package bytealg

import "bytes"

// PrimeRK is the prime base used for Rabin-Karp hashing.
const PrimeRK = 16777619

// HashStr returns the Rabin-Karp hash of sep and the multiplicative factor
// needed to roll a byte out of a window of len(sep) bytes.
func HashStr(sep []byte) (uint32, uint32) {
	hash := uint32(0)
	for i := 0; i < len(sep); i++ {
		hash = hash*PrimeRK + uint32(sep[i])
	}
	return hash, powRK(len(sep))
}

// HashStrRev is HashStr for sep read from the last byte to the first.
func HashStrRev(sep []byte) (uint32, uint32) {
	hash := uint32(0)
	for i := len(sep) - 1; i >= 0; i-- {
		hash = hash*PrimeRK + uint32(sep[i])
	}
	return hash, powRK(len(sep))
}

func powRK(n int) uint32 {
	var pow, sq uint32 = 1, PrimeRK
	for i := n; i > 0; i >>= 1 {
		if i&1 != 0 {
			pow *= sq
		}
		sq *= sq
	}
	return pow
}

// IndexRabinKarp returns the index of the first occurrence of sep in s,
// or -1. hashsep and pow must come from HashStr(sep).
// Guaranteed linear time, used once a prefilter stops paying off.
func IndexRabinKarp(s, sep []byte, hashsep, pow uint32) int {
	n := len(sep)
	if n == 0 {
		return 0
	}
	if len(s) < n {
		return -1
	}

	var h uint32
	for i := 0; i < n; i++ {
		h = h*PrimeRK + uint32(s[i])
	}
	if h == hashsep && bytes.Equal(s[:n], sep) {
		return 0
	}
	for i := n; i < len(s); {
		h *= PrimeRK
		h += uint32(s[i])
		h -= pow * uint32(s[i-n])
		i++
		if h == hashsep && bytes.Equal(s[i-n:i], sep) {
			return i - n
		}
	}
	return -1
}

// LastIndexRabinKarp returns the index of the last occurrence of sep in s,
// or -1. hashsep and pow must come from HashStrRev(sep).
func LastIndexRabinKarp(s, sep []byte, hashsep, pow uint32) int {
	n := len(sep)
	if n == 0 {
		return len(s)
	}
	if len(s) < n {
		return -1
	}

	last := len(s) - n
	var h uint32
	for i := len(s) - 1; i >= last; i-- {
		h = h*PrimeRK + uint32(s[i])
	}
	if h == hashsep && bytes.Equal(s[last:], sep) {
		return last
	}
	for i := last - 1; i >= 0; i-- {
		h *= PrimeRK
		h += uint32(s[i])
		h -= pow * uint32(s[i+n])
		if h == hashsep && bytes.Equal(s[i:i+n], sep) {
			return i
		}
	}
	return -1
}

// Index finds the first occurrence of needle in haystack with Rabin-Karp.
func Index(haystack, needle []byte) int {
	hash, pow := HashStr(needle)
	return IndexRabinKarp(haystack, needle, hash, pow)
}

// LastIndex finds the last occurrence of needle in haystack with Rabin-Karp.
func LastIndex(haystack, needle []byte) int {
	hash, pow := HashStrRev(needle)
	return LastIndexRabinKarp(haystack, needle, hash, pow)
}
