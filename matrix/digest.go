package matrix

import "github.com/zeebo/xxh3"

// Digest hashes an ordered list of benchmark names. Two expansions of the
// same catalog and implementation set produce the same digest, so it
// identifies a benchmark set across runs and machines.
func Digest(names []string) uint64 {
	h := xxh3.New()
	for _, name := range names {
		h.WriteString(name)
		h.WriteString("\n")
	}
	return h.Sum64()
}
