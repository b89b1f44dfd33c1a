// Package report formats benchmark results as Go benchmark format, Markdown
// or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/perf/benchfmt"
	"golang.org/x/perf/benchmath"
	"golang.org/x/sys/cpu"

	"github.com/mhr3/memmembench/harness"
)

// Confidence is the confidence level of reported ranges.
const Confidence = 0.95

// benchPrefix makes names match those go test prints for BenchmarkMemmem.
const benchPrefix = "Memmem/"

// Summary is the center and confidence interval of a result's ns/op.
type Summary struct {
	Name   string  `json:"name"`
	Bytes  int64   `json:"bytes"`
	Runs   int     `json:"runs"`
	Center float64 `json:"ns_per_op"`
	Lo     float64 `json:"ns_per_op_lo"`
	Hi     float64 `json:"ns_per_op_hi"`
	// Throughput is in bytes per second, zero without a corpus.
	Throughput float64 `json:"bytes_per_sec"`
	Failure    string  `json:"failure,omitempty"`
}

// Summarize computes the summary of r. Failed results have only a name and
// a failure.
func Summarize(r *harness.Result) Summary {
	s := Summary{Name: r.Name, Bytes: r.Bytes, Runs: len(r.Runs), Failure: r.Failure}
	if r.Failed() || len(r.Runs) == 0 {
		return s
	}

	sample := benchmath.NewSample(r.NsPerOp(), &benchmath.DefaultThresholds)
	sum := benchmath.AssumeNothing.Summary(sample, Confidence)
	s.Center, s.Lo, s.Hi = sum.Center, sum.Lo, sum.Hi
	// Too few runs for an interval: report the observed extremes.
	if !finite(s.Lo) || !finite(s.Hi) {
		s.Lo, s.Hi = sample.Values[0], sample.Values[len(sample.Values)-1]
	}
	if r.Bytes > 0 && s.Center > 0 {
		s.Throughput = float64(r.Bytes) * 1e9 / s.Center
	}
	return s
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Config returns the file configuration lines describing this machine.
func Config(extra ...benchfmt.Config) []benchfmt.Config {
	cfg := []benchfmt.Config{
		{Key: "goos", Value: []byte(runtime.GOOS), File: true},
		{Key: "goarch", Value: []byte(runtime.GOARCH), File: true},
		{Key: "pkg", Value: []byte("github.com/mhr3/memmembench/suite"), File: true},
	}
	if features := cpuFeatures(); features != "" {
		cfg = append(cfg, benchfmt.Config{Key: "cpu-features", Value: []byte(features), File: true})
	}
	return append(cfg, extra...)
}

func cpuFeatures() string {
	var fs []string
	add := func(name string, ok bool) {
		if ok {
			fs = append(fs, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64":
		add("sse42", cpu.X86.HasSSE42)
		add("avx2", cpu.X86.HasAVX2)
		add("avx512bw", cpu.X86.HasAVX512BW)
	case "arm64":
		add("asimd", cpu.ARM64.HasASIMD)
		add("sve", cpu.ARM64.HasSVE)
	}
	return strings.Join(fs, ",")
}

// WriteBenchfmt writes results in the Go benchmark format, one line per
// run, so they can be compared with benchstat. Failed results are skipped.
func WriteBenchfmt(w io.Writer, results []harness.Result, cfg []benchfmt.Config) error {
	bw := benchfmt.NewWriter(w)
	for i := range results {
		r := &results[i]
		for _, run := range r.Runs {
			values := []benchfmt.Value{{Value: run.NsPerOp, Unit: "ns/op"}}
			if r.Bytes > 0 && run.NsPerOp > 0 {
				values = append(values, benchfmt.Value{
					Value: float64(r.Bytes) * 1e3 / run.NsPerOp,
					Unit:  "MB/s",
				})
			}
			rec := &benchfmt.Result{
				Config: cfg,
				Name:   benchfmt.Name(benchPrefix + r.Name),
				Iters:  run.Iters,
				Values: values,
			}
			if err := bw.Write(rec); err != nil {
				return fmt.Errorf("write %s: %w", r.Name, err)
			}
		}
	}
	return nil
}

// Generate writes a Markdown table of results.
func Generate(w io.Writer, results []harness.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to report")
	}

	failed := 0
	for i := range results {
		if results[i].Failed() {
			failed++
		}
	}

	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)
	if failed == 0 {
		fmt.Fprintf(w, "%d benchmarks: **all passed**\n", len(results))
	} else {
		fmt.Fprintf(w, "%d benchmarks: **%d FAILED**\n", len(results), failed)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "| Benchmark | Corpus | time/op | ± | Throughput |")
	fmt.Fprintln(w, "|-----------|--------|---------|---|------------|")

	for i := range results {
		s := Summarize(&results[i])
		if s.Failure != "" {
			fmt.Fprintf(w, "| %s | %s | FAIL | - | %s |\n",
				s.Name, formatBytes(s.Bytes), s.Failure)
			continue
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
			s.Name,
			formatBytes(s.Bytes),
			formatNs(s.Center),
			formatRange(s),
			formatThroughput(s.Throughput),
		)
	}

	return nil
}

// GenerateJSON writes result summaries as JSON to w.
func GenerateJSON(w io.Writer, results []harness.Result) error {
	summaries := make([]Summary, len(results))
	for i := range results {
		summaries[i] = Summarize(&results[i])
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(summaries)
}

func formatNs(ns float64) string {
	if ns < 1000 {
		return fmt.Sprintf("%.2fns", ns)
	}
	return time.Duration(ns).String()
}

func formatRange(s Summary) string {
	if s.Runs < 2 || s.Center == 0 {
		return "~"
	}
	spread := math.Max(s.Hi-s.Center, s.Center-s.Lo)
	return fmt.Sprintf("%.0f%%", 100*spread/s.Center)
}

func formatBytes(b int64) string {
	if b <= 0 {
		return "-"
	}
	return humanize.IBytes(uint64(b))
}

func formatThroughput(bps float64) string {
	if bps <= 0 {
		return "-"
	}
	return humanize.IBytes(uint64(bps)) + "/s"
}
