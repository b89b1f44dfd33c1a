package memmem

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var indexTests = []struct {
	haystack, needle string
}{
	{"", ""},
	{"", "a"},
	{"a", ""},
	{"abc", "a"},
	{"abc", "b"},
	{"abc", "c"},
	{"abc", "d"},
	{"abc", "abcd"},
	{"hello world", "world"},
	{"Hello World", "hello"},
	{"The Quick Brown Fox", "Fox"},
	{"abcdefghijklmnopqrstuvwxyz", "qrs"},
	{"abcdefghijklmnopqrstuvwxyz", "xyz"},
	{strings.Repeat("a", 100) + "NEEDLE" + strings.Repeat("b", 100), "NEEDLE"},
	{strings.Repeat("x", 1000) + "QuIcK", "QuIcK"},
	// 2-byte needle
	{"xxxxxx", "01"},
	{"01xxxx", "01"},
	{"xx01xx", "01"},
	{"xxxx01", "01"},
	// partial matches
	{"xx01x", "012"},
	{"xx0123x", "01234"},
	{"xx0123456789ABCDEFx", "0123456789ABCDEFG"},
	// many candidates for the rare byte before the real match
	{"xQxZxQxZxQxZQZab", "QZab"},
	{strings.Repeat("QZ", 8) + "xQZmatch", "QZmatch"},
	// pathological repetitions: force the Rabin-Karp cutover
	{strings.Repeat("a", 1000) + "aab", "aab"},
	{strings.Repeat("a", 1000) + "aab", "aac"},
	{strings.Repeat("abcd", 250) + "abce", "abce"},
	{strings.Repeat(`{"k":"v"},`, 100) + `{"num":1}`, `"num"`},
	{strings.Repeat("ATCGATCGATCG", 83) + "ZZZZZ", "CGZZ"},
	{strings.Repeat("ABC", 1<<10) + "123" + strings.Repeat("ABC", 1<<10), strings.Repeat("ABC", 1<<10+1)},
	// non-text bytes
	{strings.Repeat("\x00\x01\xff\xfe", 64) + "\x00\x00\xdd\xdd'", "\x00\x00\xdd\xdd'"},
	{"\x80ABC\x80", "\x80"},
}

func TestIndex(t *testing.T) {
	for _, tt := range indexTests {
		h, n := []byte(tt.haystack), []byte(tt.needle)
		want := bytes.Index(h, n)
		if got := Index(h, n); got != want {
			t.Errorf("Index(%q, %q) = %d, want %d", truncate(tt.haystack, 40), tt.needle, got, want)
		}
		if got := NewFinder(n).Index(h); got != want {
			t.Errorf("Finder(%q).Index(%q) = %d, want %d", tt.needle, truncate(tt.haystack, 40), got, want)
		}
		nopre := NewFinderBuilder().Prefilter(false).BuildForward(n)
		if got := nopre.Index(h); got != want {
			t.Errorf("Finder(%q, nopre).Index(%q) = %d, want %d", tt.needle, truncate(tt.haystack, 40), got, want)
		}
	}
}

func TestLastIndex(t *testing.T) {
	for _, tt := range indexTests {
		h, n := []byte(tt.haystack), []byte(tt.needle)
		want := bytes.LastIndex(h, n)
		if got := LastIndex(h, n); got != want {
			t.Errorf("LastIndex(%q, %q) = %d, want %d", truncate(tt.haystack, 40), tt.needle, got, want)
		}
		if got := NewFinderRev(n).LastIndex(h); got != want {
			t.Errorf("FinderRev(%q).LastIndex(%q) = %d, want %d", tt.needle, truncate(tt.haystack, 40), got, want)
		}
		nopre := NewFinderBuilder().Prefilter(false).BuildReverse(n)
		if got := nopre.LastIndex(h); got != want {
			t.Errorf("FinderRev(%q, nopre).LastIndex(%q) = %d, want %d", tt.needle, truncate(tt.haystack, 40), got, want)
		}
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		haystack, needle string
		want             int
	}{
		{"", "a", 0},
		{"aaab", "a", 3},
		{"aaab", "z", 0},
		{"aaaa", "aa", 2},
		{"aaaaa", "aa", 2},
		{"ababa", "aba", 1},
		{strings.Repeat("a", 64000) + "aab", "aa", 32001},
		{strings.Repeat("a", 64000) + "aab", "aaaa", 16000},
		{strings.Repeat("abcd", 16384) + "abce", "cdab", 16384},
		{strings.Repeat("ATCGATCGATCG", 5461) + "ZZZZZ", "GA", 16382},
		{"the quick brown fox jumps over the lazy dog", "o", 4},
		{"abc", "", 4},
	}

	for _, tt := range tests {
		h, n := []byte(tt.haystack), []byte(tt.needle)
		assert.Equal(t, tt.want, Count(h, n), "Count(%q, %q)", truncate(tt.haystack, 40), tt.needle)
		assert.Equal(t, tt.want, CountRev(h, n), "CountRev(%q, %q)", truncate(tt.haystack, 40), tt.needle)
		assert.Equal(t, tt.want, NewFinderBuilder().Prefilter(false).BuildForward(n).Count(h),
			"nopre Count(%q, %q)", truncate(tt.haystack, 40), tt.needle)
	}
}

func TestFindIterOrder(t *testing.T) {
	h := []byte("xabxxabxab")
	n := []byte("ab")

	var fwd, rev []int
	for pos := range FindIter(h, n) {
		fwd = append(fwd, pos)
	}
	for pos := range FindRevIter(h, n) {
		rev = append(rev, pos)
	}

	assert.Equal(t, []int{1, 5, 8}, fwd)
	assert.Equal(t, []int{8, 5, 1}, rev)
}

func TestFindIterEarlyStop(t *testing.T) {
	h := []byte(strings.Repeat("ab", 100))
	seen := 0
	for range NewFinder([]byte("ab")).FindIter(h) {
		seen++
		if seen == 3 {
			break
		}
	}
	assert.Equal(t, 3, seen)
}

func TestFinderCopiesNeedle(t *testing.T) {
	needle := []byte("needle")
	f := NewFinder(needle)
	needle[0] = 'N'
	assert.Equal(t, "needle", string(f.Needle()))
	assert.Equal(t, 3, f.Index([]byte("xyzneedle")))
}

func FuzzIndex(f *testing.F) {
	f.Add("hello world", "world")
	f.Add("The Quick Brown Fox", "Quick")
	f.Add(strings.Repeat("a", 100), "aaa")
	f.Add("xylophone", "xy")
	f.Add("xQxZxQxZxQxZQZab", "QZab")
	f.Add(strings.Repeat("x", 17)+"QZ", "QZ")
	f.Add(strings.Repeat("Q", 1000)+"Q"+strings.Repeat("a", 30)+"Z", "Q"+strings.Repeat("a", 30)+"Z")
	f.Add("abc\x80def", "\x80d")

	f.Fuzz(func(t *testing.T, haystack, needle string) {
		h, n := []byte(haystack), []byte(needle)
		if got, want := Index(h, n), bytes.Index(h, n); got != want {
			t.Fatalf("Index(%q, %q) = %d, want %d", haystack, needle, got, want)
		}
		if got, want := LastIndex(h, n), bytes.LastIndex(h, n); got != want {
			t.Fatalf("LastIndex(%q, %q) = %d, want %d", haystack, needle, got, want)
		}
		fwd, rev := Count(h, n), CountRev(h, n)
		if fwd != rev {
			t.Fatalf("Count(%q, %q) = %d, CountRev = %d", haystack, needle, fwd, rev)
		}
		if len(n) > 0 {
			if want := bytes.Count(h, n); fwd != want {
				t.Fatalf("Count(%q, %q) = %d, want %d", haystack, needle, fwd, want)
			}
		}
	})
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
