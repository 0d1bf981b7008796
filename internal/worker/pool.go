// Package worker schedules independent units of work and joins them.
package worker

import (
	"context"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

// Job is one independently scheduled unit of work.
type Job[T any] struct {
	Name string
	Fn   func(ctx context.Context) T
}

// Outcome is what a Job produced. Panic is set when the job terminated
// abnormally, in which case Value is the zero value.
type Outcome[T any] struct {
	Name  string
	Value T
	Panic *panics.Recovered
}

// Run executes jobs concurrently and blocks until all of them return.
// At most size jobs run at once; size <= 0 starts one goroutine per job.
// Outcomes are returned in job order. A panicking job never affects the others.
func Run[T any](ctx context.Context, jobs []Job[T], size int) []Outcome[T] {
	outcomes := make([]Outcome[T], len(jobs))
	p := pool.New()
	if size > 0 {
		p = p.WithMaxGoroutines(size)
	}
	for i, job := range jobs {
		p.Go(func() {
			var pc panics.Catcher
			pc.Try(func() { outcomes[i].Value = job.Fn(ctx) })
			outcomes[i].Name = job.Name
			outcomes[i].Panic = pc.Recovered()
		})
	}
	p.Wait()
	return outcomes
}
