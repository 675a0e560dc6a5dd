package vastcap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Future is the pending result of an AsyncClient call.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func goFuture[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.val, f.err = fn()
	}()
	return f
}

func failedFuture[T any](err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Await waits for the result. It returns ctx.Err() if ctx ends first;
// the underlying call keeps running until its own context ends.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

type sessionState int

const (
	sessionIdle sessionState = iota
	sessionOpen
	sessionClosed
)

// AsyncClient runs VastCap calls in the background over a shared session.
// Calls made before Open or after Close fail without touching the network.
type AsyncClient struct {
	core

	mu    sync.RWMutex
	state sessionState
	tr    transport
}

// NewAsync creates an AsyncClient. The session is not opened yet.
func NewAsync(cfg Config) (*AsyncClient, error) {
	cfg.defaults()
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("vastcap: empty API key")
	}
	return &AsyncClient{core: core{cfg: cfg, log: cfg.Logger}}, nil
}

// WithSession opens an AsyncClient, runs fn, and closes the session.
func WithSession(ctx context.Context, cfg Config, fn func(*AsyncClient) error) error {
	a, err := NewAsync(cfg)
	if err != nil {
		return err
	}
	if err := a.Open(ctx); err != nil {
		return err
	}
	return errors.Join(fn(a), a.Close())
}

// Open acquires the connection session. Opening an open session is a no-op.
func (a *AsyncClient) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.state {
	case sessionOpen:
		return nil
	case sessionClosed:
		return ErrSessionClosed
	}
	tr, err := newTransport(a.cfg)
	if err != nil {
		return err
	}
	a.tr = tr
	a.state = sessionOpen
	a.log.Debug("vastcap session opened")
	return nil
}

// Close releases the session. Only the first call has an effect.
func (a *AsyncClient) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == sessionOpen {
		a.tr.close()
		a.log.Debug("vastcap session closed")
	}
	a.state = sessionClosed
	return nil
}

// session returns the open transport or the usage error for the current state.
func (a *AsyncClient) session() (transport, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	switch a.state {
	case sessionOpen:
		return a.tr, nil
	case sessionClosed:
		return nil, ErrSessionClosed
	}
	return nil, ErrSessionNotInitialized
}

// CreateTask submits task in the background.
func (a *AsyncClient) CreateTask(ctx context.Context, task Task) *Future[string] {
	tr, err := a.session()
	if err != nil {
		return failedFuture[string](err)
	}
	return goFuture(func() (string, error) { return a.createTask(ctx, tr, task) })
}

// GetTaskResult fetches the state of a task in the background.
func (a *AsyncClient) GetTaskResult(ctx context.Context, taskID string) *Future[*TaskResult] {
	tr, err := a.session()
	if err != nil {
		return failedFuture[*TaskResult](err)
	}
	return goFuture(func() (*TaskResult, error) { return a.getTaskResult(ctx, tr, taskID) })
}

// GetBalance fetches the account balance in the background.
func (a *AsyncClient) GetBalance(ctx context.Context) *Future[float64] {
	tr, err := a.session()
	if err != nil {
		return failedFuture[float64](err)
	}
	return goFuture(func() (float64, error) { return a.getBalance(ctx, tr) })
}

// Solve runs the create-and-poll loop in the background.
func (a *AsyncClient) Solve(ctx context.Context, task Task, opts ...SolveOption) *Future[*TaskSolution] {
	tr, err := a.session()
	if err != nil {
		return failedFuture[*TaskSolution](err)
	}
	return goFuture(func() (*TaskSolution, error) { return a.solve(ctx, tr, task, opts) })
}

// SolveAll solves tasks concurrently, at most Config.MaxConcurrent at a time.
// Solutions keep the order of tasks. The first failure cancels the rest.
func (a *AsyncClient) SolveAll(ctx context.Context, tasks []Task, opts ...SolveOption) *Future[[]*TaskSolution] {
	tr, err := a.session()
	if err != nil {
		return failedFuture[[]*TaskSolution](err)
	}
	return goFuture(func() ([]*TaskSolution, error) {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(a.cfg.MaxConcurrent)

		out := make([]*TaskSolution, len(tasks))
		for i, task := range tasks {
			g.Go(func() error {
				sol, err := a.solve(gctx, tr, task, opts)
				if err != nil {
					return fmt.Errorf("task %d: %w", i, err)
				}
				out[i] = sol
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		a.log.Info("captcha batch solved", slog.Int("tasks", len(tasks)))
		return out, nil
	})
}
