package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"mediameta/internal/asset"
	"mediameta/internal/logging"
	"mediameta/internal/services"
)

// ErrUnknownJob is returned when Dispatch names a job with no lane.
var ErrUnknownJob = errors.New("unknown job")

// Handler processes one asset. It reports outcomes through logging only.
type Handler func(ctx context.Context, a asset.Asset, fileName string)

type lane struct {
	sem     *semaphore.Weighted
	handler Handler
}

// Dispatcher owns the lanes and tracks in-flight jobs.
type Dispatcher struct {
	mu     sync.RWMutex
	lanes  map[string]*lane
	wg     sync.WaitGroup
	logger *slog.Logger
}

func New(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		lanes:  make(map[string]*lane),
		logger: logging.NewComponentLogger(logger, "dispatcher"),
	}
}

// Register adds or replaces the lane for job. Limits below one are raised
// to one.
func (d *Dispatcher) Register(job string, limit int, handler Handler) {
	if limit < 1 {
		limit = 1
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lanes[job] = &lane{
		sem:     semaphore.NewWeighted(int64(limit)),
		handler: handler,
	}
}

// Jobs lists the registered job names in sorted order.
func (d *Dispatcher) Jobs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.lanes))
	for name := range d.lanes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch schedules job for a. It returns once the job has a slot in its
// lane, or with ctx's error if ctx ends first.
func (d *Dispatcher) Dispatch(ctx context.Context, job string, a asset.Asset, fileName string) error {
	d.mu.RLock()
	l := d.lanes[job]
	d.mu.RUnlock()
	if l == nil {
		return fmt.Errorf("%w: %q", ErrUnknownJob, job)
	}
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	jobCtx := services.WithJob(ctx, job)
	jobCtx = services.WithRequestID(jobCtx, uuid.NewString())
	jobCtx = services.WithAssetID(jobCtx, a.ID)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer l.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				logging.ErrorWithContext(logging.WithContext(jobCtx, d.logger), "job handler panicked", "dispatch_panic",
					logging.String("panic", fmt.Sprint(r)),
				)
			}
		}()
		l.handler(jobCtx, a, fileName)
	}()
	return nil
}

// Wait blocks until every dispatched job has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
