package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// RepoProcessor is the per-repository work the pool dispatches. *Processor
// is the production implementation.
type RepoProcessor interface {
	Process(ctx context.Context, repo RepoID) Outcome
}

// Collector fans the processor out over the candidate list under a bounded
// worker pool. Each worker runs one repository end-to-end.
type Collector struct {
	processor   RepoProcessor
	concurrency int
}

func NewCollector(p RepoProcessor, concurrency int) (*Collector, error) {
	if p == nil {
		return nil, errors.New("processor is nil")
	}
	if concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be >= 1, got %d", concurrency)
	}
	return &Collector{processor: p, concurrency: concurrency}, nil
}

// Collect streams per-repository settlement outcomes.
//
// Channel semantics:
//   - In the normal (non-canceled) case, exactly one Outcome is sent per
//     identifier, in settlement order. Duplicates in the list settle twice.
//   - On context cancellation, scheduling stops promptly; fewer outcomes may
//     arrive.
//   - Both channels are always closed. The error channel carries at most the
//     cancellation cause; per-repository failures travel inside Outcomes.
func (c *Collector) Collect(ctx context.Context, repos []RepoID) (<-chan Outcome, <-chan error) {
	outCh := make(chan Outcome)
	errCh := make(chan error, 1)

	go func() {
		defer close(outCh)
		defer close(errCh)

		trySendErr := func(err error) {
			if err == nil {
				return
			}
			select {
			case errCh <- err:
			default:
			}
		}

		if ctx == nil {
			trySendErr(errors.New("context is nil"))
			return
		}
		if c == nil || c.processor == nil {
			trySendErr(errors.New("collector is not initialized (use NewCollector)"))
			return
		}

		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		// Limit active repositories (favor repo completion over breadth).
		sem := make(chan struct{}, c.concurrency)
		var wg sync.WaitGroup

	scheduleLoop:
		for _, repo := range repos {
			if runCtx.Err() != nil {
				break
			}

			select {
			case sem <- struct{}{}:
				// acquired
			case <-runCtx.Done():
				break scheduleLoop
			}

			wg.Add(1)
			go func(repo RepoID) {
				defer wg.Done()
				defer func() { <-sem }()

				out := c.processOne(runCtx, repo)
				select {
				case outCh <- out:
				case <-runCtx.Done():
				}
			}(repo)
		}

		wg.Wait()
		trySendErr(ctx.Err())
	}()

	return outCh, errCh
}

// processOne isolates a single repository's processing: a panic anywhere in
// the fetch or shaping path settles as a failed Outcome instead of taking the
// batch down.
func (c *Collector) processOne(ctx context.Context, repo RepoID) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Repo: repo, Err: fmt.Errorf("processing panicked: %v", r)}
		}
	}()
	return c.processor.Process(ctx, repo)
}
