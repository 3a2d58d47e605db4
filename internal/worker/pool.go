// Package worker runs material recipes in parallel.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/0xsl1m/StaticChapel-sub001/internal/texture"
)

// Generator produces the texture set of one material.
// *material.Generator satisfies it.
type Generator interface {
	Generate(ctx context.Context, material string) (*texture.Set, error)
}

// Task names one material to generate.
type Task struct {
	Material string
}

// Result is the outcome of one task.
type Result struct {
	Task    Task
	Set     *texture.Set
	Err     error
	Elapsed time.Duration
}

// ProgressFunc is called after each task completes.
type ProgressFunc func(completed, total, failed int)

// ResultFunc receives each result as soon as it is available. Calls are
// serialized, so it may write to a shared sink without locking.
type ResultFunc func(Result)

// Config configures the worker pool.
type Config struct {
	Workers    int
	Generator  Generator
	OnProgress ProgressFunc
	OnResult   ResultFunc
}

// Pool runs recipe tasks on a fixed number of goroutines.
type Pool struct {
	workers    int
	generator  Generator
	onProgress ProgressFunc
	onResult   ResultFunc
}

// New creates a new worker pool.
func New(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Pool{
		workers:    workers,
		generator:  cfg.Generator,
		onProgress: cfg.OnProgress,
		onResult:   cfg.OnResult,
	}
}

// Run executes all tasks and returns their results in task order.
// It blocks until every task has finished or the context is cancelled;
// tasks that never started report the context error.
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	type indexed struct {
		i int
		r Result
	}

	taskCh := make(chan int, len(tasks))
	resultCh := make(chan indexed, len(tasks))

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range taskCh {
				resultCh <- indexed{i: i, r: p.run(ctx, tasks[i])}
			}
		}()
	}

	for i := range tasks {
		taskCh <- i
	}
	close(taskCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]Result, len(tasks))
	completed, failed := 0, 0
	for res := range resultCh {
		results[res.i] = res.r
		completed++
		if res.r.Err != nil {
			failed++
		}

		if p.onResult != nil {
			p.onResult(res.r)
		}
		if p.onProgress != nil {
			p.onProgress(completed, len(tasks), failed)
		}
	}

	return results
}

func (p *Pool) run(ctx context.Context, task Task) Result {
	if err := ctx.Err(); err != nil {
		return Result{Task: task, Err: err}
	}

	start := time.Now()
	set, err := p.generator.Generate(ctx, task.Material)
	return Result{
		Task:    task,
		Set:     set,
		Err:     err,
		Elapsed: time.Since(start),
	}
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
