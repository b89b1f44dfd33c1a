// Package inputs holds the corpora and queries benchmarked by the matrix.
//
// Catalog returns the built-in inputs. LoadManifest reads more from a YAML
// manifest of corpus files. Every query carries the exact number of
// non-overlapping occurrences of its needle in the corpus. Never and rare
// needles occur, if at all, only at the end of the corpus, so a single
// search scans all of it.
package inputs

import (
	"bytes"
	"strings"
	"sync"

	"github.com/mhr3/memmembench/matrix"
)

// Catalog returns the built-in inputs. Corpora are built on first use and
// shared by every caller; they must not be modified.
func Catalog() []matrix.Input {
	return catalog()
}

var catalog = sync.OnceValue(func() []matrix.Input {
	return []matrix.Input{
		repeatAlphabet(),
		jsonLogs(),
		sameChar(),
		periodic(),
		dna(),
		russian(),
		binary(),
		tiny(),
	}
})

func q(name, needle string, count int) matrix.Query {
	return matrix.Query{Name: name, Needle: []byte(needle), Count: count}
}

// An alphabet missing q, x and z, repeated, with the only x and z at the
// end.
func repeatAlphabet() matrix.Input {
	return matrix.Input{
		Name:   "repeat-alphabet",
		Corpus: []byte(strings.Repeat("abcdefghijklmnoprstuvwy ", 2730) + "xylophone"),
		Never: []matrix.Query{
			q("quartz", "quartz", 0),
			q("zz", "zz", 0),
		},
		Rare: []matrix.Query{
			q("xylophone", "xylophone", 1),
			q("vwy_xy", "vwy xy", 1),
		},
		Common: []matrix.Query{
			q("abc", "abc", 2730),
			q("mnop", "mnop", 2730),
			q("space", " ", 2730),
			q("y_a", "y a", 2729),
		},
	}
}

// Line-delimited JSON records sharing one key, dense with quotes and
// punctuation.
func jsonLogs() matrix.Input {
	return matrix.Input{
		Name:   "json-logs",
		Corpus: []byte(strings.Repeat(`{"k":"v"},`, 6500) + `{"num":1}`),
		Never: []matrix.Query{
			q("missing-key", `"missing"`, 0),
			q("num-2", `"num":2`, 0),
		},
		Rare: []matrix.Query{
			q("num-key", `"num"`, 1),
			q("num-object", `{"num":1}`, 1),
		},
		Common: []matrix.Query{
			q("k-key", `"k"`, 6500),
			q("separator", `},{`, 6500),
			q("colon", `":"`, 6500),
		},
	}
}

// A single repeated byte: every position is a prefilter candidate.
func sameChar() matrix.Input {
	return matrix.Input{
		Name:   "samechar",
		Corpus: []byte(strings.Repeat("a", 64000) + "aab"),
		Never: []matrix.Query{
			q("aac", "aac", 0),
		},
		Rare: []matrix.Query{
			q("aab", "aab", 1),
			q("b", "b", 1),
		},
		Common: []matrix.Query{
			q("a", "a", 64002),
			q("aa", "aa", 32001),
			q("aaaa", "aaaa", 16000),
		},
	}
}

// A short period, so needles sharing a long prefix with the corpus keep
// failing late.
func periodic() matrix.Input {
	return matrix.Input{
		Name:   "periodic",
		Corpus: []byte(strings.Repeat("abcd", 16384) + "abce"),
		Never: []matrix.Query{
			q("abcf", "abcf", 0),
			q("dcba", "dcba", 0),
		},
		Rare: []matrix.Query{
			q("abce", "abce", 1),
			q("abcdabce", "abcdabce", 1),
		},
		Common: []matrix.Query{
			q("abcd", "abcd", 16384),
			q("da", "da", 16384),
			q("cdab", "cdab", 16384),
		},
	}
}

// A four-letter alphabet, where no byte is rare.
func dna() matrix.Input {
	return matrix.Input{
		Name:   "dna",
		Corpus: []byte(strings.Repeat("ATCGATCGATCG", 5461) + "ZZZZZ"),
		Never: []matrix.Query{
			q("GATTACA", "GATTACA", 0),
			q("AAAA", "AAAA", 0),
		},
		Rare: []matrix.Query{
			q("ZZZZZ", "ZZZZZ", 1),
			q("CGZZ", "CGZZ", 1),
		},
		Common: []matrix.Query{
			q("ATCG", "ATCG", 16383),
			q("GA", "GA", 16382),
			q("CGAT", "CGAT", 16382),
		},
	}
}

// Cyrillic text: two-byte UTF-8 sequences sharing lead bytes.
func russian() matrix.Input {
	return matrix.Input{
		Name:   "russian",
		Corpus: []byte(strings.Repeat("Шерлок Холмс и доктор Ватсон. ", 1000) + "Мориарти"),
		Never: []matrix.Query{
			q("lestrade", "Лестрейд", 0),
		},
		Rare: []matrix.Query{
			q("moriarty", "Мориарти", 1),
		},
		Common: []matrix.Query{
			q("sherlock", "Шерлок", 1000),
			q("holmes", "Холмс", 1000),
		},
	}
}

// Bytes that are rare in text but common in machine code.
func binary() matrix.Input {
	return matrix.Input{
		Name:   "binary",
		Corpus: append(bytes.Repeat([]byte("\x00\x01\xff\xfe"), 8192), ExecutablePattern...),
		Never: []matrix.Query{
			q("fefe", "\xfe\xfe", 0),
			q("quartz", "quartz", 0),
		},
		Rare: []matrix.Query{
			q("exe-pattern", ExecutablePattern, 1),
		},
		Common: []matrix.Query{
			q("fffe", "\xff\xfe", 8192),
			q("fe0001", "\xfe\x00\x01", 8191),
		},
	}
}

func tiny() matrix.Input {
	return matrix.Input{
		Name:   "tiny",
		Corpus: []byte("the quick brown fox jumps over the lazy dog"),
		Never: []matrix.Query{
			q("cat", "cat", 0),
		},
		Rare: []matrix.Query{
			q("dog", "dog", 1),
		},
		Common: []matrix.Query{
			q("the", "the", 2),
			q("o", "o", 4),
			q("space", " ", 8),
		},
	}
}
