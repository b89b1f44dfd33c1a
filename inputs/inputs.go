package inputs

import (
	"errors"
	"fmt"
	"os"

	"github.com/segmentio/asm/utf8"

	"github.com/mhr3/memmembench/matrix"
)

// ErrCorpus is returned when a corpus cannot be read.
var ErrCorpus = errors.New("corpus unavailable")

// ExecutablePattern is a needle made of bytes that are rare in text and
// common in machine code.
const ExecutablePattern = "\x00\x00\xdd\xdd'"

// Executable returns the contents of the running executable.
func Executable() ([]byte, error) {
	path, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("%w: locate executable: %w", ErrCorpus, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorpus, err)
	}
	return data, nil
}

// Encoding classifies the bytes of a corpus.
type Encoding uint8

const (
	ASCII Encoding = iota
	UTF8
	Binary
)

func (e Encoding) String() string {
	switch e {
	case ASCII:
		return "ascii"
	case UTF8:
		return "utf-8"
	}
	return "binary"
}

// Summary describes an input for listings.
type Summary struct {
	Name     string
	Size     int
	Encoding Encoding
	Queries  [3]int // per tier, indexed by matrix.Tier
}

// Describe summarizes in.
func Describe(in *matrix.Input) Summary {
	s := Summary{Name: in.Name, Size: len(in.Corpus)}
	switch v := utf8.Validate(in.Corpus); {
	case v.IsASCII():
		s.Encoding = ASCII
	case v.IsUTF8():
		s.Encoding = UTF8
	default:
		s.Encoding = Binary
	}
	for _, tier := range matrix.Tiers {
		s.Queries[tier] = len(in.Queries(tier))
	}
	return s
}
