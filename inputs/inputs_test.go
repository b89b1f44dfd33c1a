package inputs

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhr3/memmembench/matrix"
	"github.com/mhr3/memmembench/memmem"
)

func TestCatalogCounts(t *testing.T) {
	for _, in := range Catalog() {
		for _, tier := range matrix.Tiers {
			for _, q := range in.Queries(tier) {
				if got := bytes.Count(in.Corpus, q.Needle); got != q.Count {
					t.Errorf("%s/%s-%s: bytes.Count = %d, want %d", in.Name, tier, q.Name, got, q.Count)
				}
				if got := memmem.Count(in.Corpus, q.Needle); got != q.Count {
					t.Errorf("%s/%s-%s: memmem.Count = %d, want %d", in.Name, tier, q.Name, got, q.Count)
				}
			}
		}
	}
}

func TestCatalogTiers(t *testing.T) {
	for _, in := range Catalog() {
		for _, q := range in.Never {
			assert.Zero(t, q.Count, "%s/never-%s", in.Name, q.Name)
		}
		for _, q := range in.Rare {
			assert.Equal(t, 1, q.Count, "%s/rare-%s", in.Name, q.Name)
			// A rare needle is found only by scanning to the end.
			assert.GreaterOrEqual(t, bytes.Index(in.Corpus, q.Needle), len(in.Corpus)-len(q.Needle)-16,
				"%s/rare-%s is not at the end", in.Name, q.Name)
		}
		for _, q := range in.Common {
			assert.Greater(t, q.Count, 1, "%s/common-%s", in.Name, q.Name)
		}
	}
}

func TestCatalogValid(t *testing.T) {
	cat := Catalog()
	require.NoError(t, matrix.ValidateInputs(cat))
	assert.Len(t, cat, 8)
	assert.Same(t, &Catalog()[0], &cat[0])
}

func TestDescribe(t *testing.T) {
	byName := make(map[string]Summary)
	for i := range Catalog() {
		s := Describe(&Catalog()[i])
		byName[s.Name] = s
	}

	assert.Equal(t, ASCII, byName["dna"].Encoding)
	assert.Equal(t, UTF8, byName["russian"].Encoding)
	assert.Equal(t, Binary, byName["binary"].Encoding)
	assert.Equal(t, [3]int{1, 1, 3}, byName["tiny"].Queries)
	assert.Equal(t, 43, byName["tiny"].Size)
}

func TestLoadManifest(t *testing.T) {
	got, err := LoadManifest(filepath.Join("testdata", "manifest.yaml"))
	require.NoError(t, err)
	require.Len(t, got, 1)

	in := got[0]
	assert.Equal(t, "sherlock", in.Name)
	assert.Equal(t, "Holmes and Watson. Holmes again.\r\nThe end.\r\n", string(in.Corpus))
	assert.Equal(t, []matrix.Query{{Name: "quartz", Needle: []byte("quartz"), Count: 0}}, in.Never)
	assert.Equal(t, []matrix.Query{{Name: "end", Needle: []byte("The end."), Count: 1}}, in.Rare)
	assert.Equal(t, []matrix.Query{
		{Name: "holmes", Needle: []byte("Holmes"), Count: 2},
		{Name: "crlf", Needle: []byte("\r\n"), Count: 2},
	}, in.Common)

	require.NoError(t, matrix.ValidateInputs(got))
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		file string
		want error
	}{
		{"nope.yaml", ErrCorpus},
		{"missing.yaml", ErrCorpus},
		{"unknown-field.yaml", ErrManifest},
		{"bad-hex.yaml", ErrManifest},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, err := LoadManifest(filepath.Join("testdata", tt.file))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestManifestQueryNeedle(t *testing.T) {
	two := 2
	tests := []struct {
		mq      ManifestQuery
		needle  string
		count   int
		wantErr bool
	}{
		{mq: ManifestQuery{Name: "a", Needle: "ab"}, needle: "ab", count: 3},
		{mq: ManifestQuery{Name: "a", NeedleHex: "6162"}, needle: "ab", count: 3},
		{mq: ManifestQuery{Name: "a", Needle: "ab", Count: &two}, needle: "ab", count: 2},
		{mq: ManifestQuery{Name: "a", Needle: "ab", NeedleHex: "6162"}, wantErr: true},
		{mq: ManifestQuery{Name: "a"}, wantErr: true},
	}

	for _, tt := range tests {
		q, err := tt.mq.query([]byte("ababab"))
		if tt.wantErr {
			assert.Error(t, err, "%+v", tt.mq)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.needle, string(q.Needle))
		assert.Equal(t, tt.count, q.Count)
	}
}

func TestExecutable(t *testing.T) {
	exe, err := Executable()
	require.NoError(t, err)

	path, err := os.Executable()
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), int64(len(exe)))
}
