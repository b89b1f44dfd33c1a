// Package harness runs generated benchmarks, either as sub-benchmarks of a
// go test benchmark or standalone through testing.Benchmark.
package harness

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mhr3/memmembench/matrix"
)

// ErrFailed is returned by Runner.Run when at least one benchmark failed.
var ErrFailed = errors.New("benchmarks failed")

// Testing returns a Registrar that runs every benchmark as a sub-benchmark
// of b, reporting throughput over the corpus.
func Testing(b *testing.B) matrix.Registrar {
	return testingRegistrar{b}
}

type testingRegistrar struct {
	b *testing.B
}

func (r testingRegistrar) Register(name string, corpus []byte, body matrix.Body) {
	r.b.Run(name, func(b *testing.B) {
		b.SetBytes(int64(len(corpus)))
		body(b)
	})
}

// SetBenchtime sets the run time of each testing.Benchmark call, in the
// format of go test -benchtime ("1s", "100x").
func SetBenchtime(d string) error {
	testing.Init()
	if err := flag.Set("test.benchtime", d); err != nil {
		return fmt.Errorf("benchtime %q: %w", d, err)
	}
	return nil
}

// Result holds the measurements of one benchmark.
type Result struct {
	Name    string `json:"name"`
	Bytes   int64  `json:"bytes"`
	Runs    []Run  `json:"runs"`
	Failure string `json:"failure,omitempty"`
}

// Run is one testing.Benchmark measurement.
type Run struct {
	Iters   int     `json:"iters"`
	NsPerOp float64 `json:"ns_per_op"`
}

// Failed reports whether the benchmark failed its result check.
func (r *Result) Failed() bool { return r.Failure != "" }

// NsPerOp returns the ns/op of every run.
func (r *Result) NsPerOp() []float64 {
	out := make([]float64, len(r.Runs))
	for i, run := range r.Runs {
		out[i] = run.NsPerOp
	}
	return out
}

// Runner measures benchmarks outside go test.
type Runner struct {
	// Count is the number of measurements per benchmark.
	Count  int
	Logger *slog.Logger
	// Progress receives a progress bar. Nil disables it.
	Progress io.Writer
}

// NewRunner creates a Runner taking count measurements per benchmark.
func NewRunner(count int, logger *slog.Logger) *Runner {
	return &Runner{Count: max(count, 1), Logger: logger}
}

// Run measures every benchmark Count times, in order. A benchmark that
// fails is not measured again; the remaining ones still run, and Run
// returns ErrFailed along with all results.
func (r *Runner) Run(ctx context.Context, bms []matrix.Benchmark) ([]Result, error) {
	bar := r.progress(len(bms) * r.Count)
	defer bar.Finish()

	results := make([]Result, 0, len(bms))
	failed := 0
	for _, bm := range bms {
		res := Result{Name: bm.Name, Bytes: int64(len(bm.Corpus))}
		bar.Describe(bm.Name)

		for i := 0; i < r.Count; i++ {
			if err := ctx.Err(); err != nil {
				return results, err
			}

			start := time.Now()
			br, failure := measure(bm)
			if failure != "" {
				res.Failure = failure
				failed++
				r.Logger.ErrorContext(ctx, "benchmark failed",
					slog.String("name", bm.Name),
					slog.String("failure", failure),
				)
				bar.Add(r.Count - i)
				break
			}

			res.Runs = append(res.Runs, Run{
				Iters:   br.N,
				NsPerOp: float64(br.T.Nanoseconds()) / float64(br.N),
			})
			r.Logger.DebugContext(ctx, "benchmark measured",
				slog.String("name", bm.Name),
				slog.Int("run", i+1),
				slog.Int("iters", br.N),
				slog.Duration("elapsed", time.Since(start)),
			)
			bar.Add(1)
		}
		results = append(results, res)
	}

	if failed > 0 {
		return results, fmt.Errorf("%w: %d of %d", ErrFailed, failed, len(bms))
	}
	return results, nil
}

func (r *Runner) progress(total int) *progressbar.ProgressBar {
	w := r.Progress
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions64(int64(total),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetVisibility(r.Progress != nil),
		progressbar.OptionSetDescription("benchmarking"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// measure runs bm once through testing.Benchmark. It returns the failure
// message if the body called Fatalf or never ran.
func measure(bm matrix.Benchmark) (testing.BenchmarkResult, string) {
	var failure string
	br := testing.Benchmark(func(b *testing.B) {
		b.SetBytes(int64(len(bm.Corpus)))
		bm.Body(recordingTimer{B: b, failure: &failure})
	})
	if failure == "" && br.N == 0 {
		failure = "benchmark did not run"
	}
	return br, failure
}

// recordingTimer keeps the Fatalf message, which testing.Benchmark
// discards.
type recordingTimer struct {
	*testing.B
	failure *string
}

func (t recordingTimer) Fatalf(format string, args ...any) {
	*t.failure = fmt.Sprintf(format, args...)
	t.B.Fatalf(format, args...)
}
