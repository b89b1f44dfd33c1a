package inputs

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mhr3/memmembench/matrix"
	"github.com/mhr3/memmembench/memmem"
)

// ErrManifest is returned for a manifest that cannot be decoded or that
// describes an invalid query.
var ErrManifest = errors.New("invalid manifest")

// Manifest lists file-backed inputs.
//
//	inputs:
//	  - name: sherlock
//	    path: corpora/sherlock.txt
//	    never:
//	      - {name: quartz, needle: quartz, count: 0}
//	    common:
//	      - {name: holmes, needle: Holmes}
//	      - {name: crlf, needle_hex: 0d0a, count: 3}
//
// Paths are relative to the manifest file. A query without a count is
// counted when the manifest is loaded.
type Manifest struct {
	Inputs []ManifestInput `yaml:"inputs"`
}

// ManifestInput is one corpus file and its queries.
type ManifestInput struct {
	Name   string          `yaml:"name"`
	Path   string          `yaml:"path"`
	Never  []ManifestQuery `yaml:"never"`
	Rare   []ManifestQuery `yaml:"rare"`
	Common []ManifestQuery `yaml:"common"`
}

// ManifestQuery is a needle given as text or hex, with an optional count.
type ManifestQuery struct {
	Name      string `yaml:"name"`
	Needle    string `yaml:"needle"`
	NeedleHex string `yaml:"needle_hex"`
	Count     *int   `yaml:"count"`
}

// LoadManifest reads the manifest at path and the corpora it names.
func LoadManifest(path string) ([]matrix.Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorpus, err)
	}
	defer f.Close()

	var m Manifest
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrManifest, path, err)
	}

	return m.Load(filepath.Dir(path))
}

// Load reads the corpora of m, resolving relative paths against dir, and
// returns the inputs.
func (m *Manifest) Load(dir string) ([]matrix.Input, error) {
	out := make([]matrix.Input, 0, len(m.Inputs))
	for _, mi := range m.Inputs {
		path := mi.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		corpus, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: input %s: %w", ErrCorpus, mi.Name, err)
		}

		in := matrix.Input{Name: mi.Name, Corpus: corpus}
		tiers := [...]struct {
			dst *[]matrix.Query
			src []ManifestQuery
		}{
			{&in.Never, mi.Never},
			{&in.Rare, mi.Rare},
			{&in.Common, mi.Common},
		}
		for _, t := range tiers {
			for _, mq := range t.src {
				q, err := mq.query(corpus)
				if err != nil {
					return nil, fmt.Errorf("%w: input %s: %w", ErrManifest, mi.Name, err)
				}
				*t.dst = append(*t.dst, q)
			}
		}
		out = append(out, in)
	}
	return out, nil
}

func (mq *ManifestQuery) query(corpus []byte) (matrix.Query, error) {
	q := matrix.Query{Name: mq.Name}
	switch {
	case mq.Needle != "" && mq.NeedleHex != "":
		return q, fmt.Errorf("query %s: both needle and needle_hex set", mq.Name)
	case mq.NeedleHex != "":
		needle, err := hex.DecodeString(mq.NeedleHex)
		if err != nil {
			return q, fmt.Errorf("query %s: %w", mq.Name, err)
		}
		q.Needle = needle
	case mq.Needle != "":
		q.Needle = []byte(mq.Needle)
	default:
		return q, fmt.Errorf("query %s: empty needle", mq.Name)
	}

	if mq.Count != nil {
		q.Count = *mq.Count
	} else {
		q.Count = memmem.Count(corpus, q.Needle)
	}
	return q, nil
}
