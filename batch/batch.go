// Package batch decodes many GPMF buffers concurrently across a fixed
// worker pool, the way go-gsf's convert_gsf_list spreads a list of GSF
// files across a pond pool sized at 2*NumCPU.
package batch

import (
	"context"
	"runtime"

	"github.com/alitto/pond"
	"github.com/gpmf-go/gpmf/gpmf"
	"github.com/samber/lo"
)

// Input is one buffer to decode, tagged with a caller-supplied name (a
// source path, typically) carried through to its Result.
type Input struct {
	Name string
	Data []byte
}

// Result is one Input's decode outcome.
type Result struct {
	Name    string
	Session gpmf.Session
	Err     error
}

// Ok reports whether the session decoded without error.
func (r Result) Ok() bool {
	return r.Err == nil
}

// Run decodes every input against a pool of workers sized n (n <= 0 picks
// 2*runtime.NumCPU, mirroring go-gsf's fixed pool size). Results preserve
// the input order. ctx cancellation stops workers from picking up new
// items; already-submitted items still run to completion.
func Run(ctx context.Context, inputs []Input, opts gpmf.Options, n int) []Result {
	if n <= 0 {
		n = runtime.NumCPU() * 2
	}

	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))

	results := make([]Result, len(inputs))
	for i, in := range inputs {
		i, in := i, in
		pool.Submit(func() {
			session, err := gpmf.ParseSession(in.Data, opts)
			results[i] = Result{Name: in.Name, Session: session, Err: err}
		})
	}
	pool.StopAndWait()

	return results
}

// Successful filters Ok results.
func Successful(results []Result) []Result {
	return lo.Filter(results, func(r Result, _ int) bool { return r.Ok() })
}

// Failed filters non-Ok results.
func Failed(results []Result) []Result {
	return lo.Filter(results, func(r Result, _ int) bool { return !r.Ok() })
}

// TotalGPSPoints sums TotalGPSPoints() across every successful result.
func TotalGPSPoints(results []Result) int {
	return lo.SumBy(Successful(results), func(r Result) int { return r.Session.TotalGPSPoints() })
}
