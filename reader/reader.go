// File: reader/reader.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Reader owns the worker pool, the buffer pool and the completion path
// for exact-length reads.

package reader

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/posixread/api"
	"github.com/momentics/posixread/control"
	"github.com/momentics/posixread/internal/concurrency"
	"github.com/momentics/posixread/internal/transport"
	"github.com/momentics/posixread/pool"
	"github.com/rs/zerolog"
)

// Loop runs completion callbacks on the goroutine that drives it. Pass one
// to WithCompleter to receive callbacks on a goroutine of your choosing.
type Loop = concurrency.Loop

// NewLoop creates an idle completion loop.
func NewLoop() *Loop { return concurrency.NewLoop() }

// request is the per-read state carried from submission to completion.
type request struct {
	fd      int
	size    int
	buf     []byte
	outcome api.Outcome
	started time.Time

	reported bool // done was called
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger used for request tracing and worker panics.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Reader) { r.log = log }
}

// WithWorkers sets the size of the internal worker pool. Zero or less
// selects runtime.NumCPU(). Ignored when WithExecutor is given.
func WithWorkers(n int) Option {
	return func(r *Reader) { r.workers = n }
}

// WithExecutor runs read jobs on exec. The Reader does not close it.
func WithExecutor(exec api.Executor) Option {
	return func(r *Reader) { r.exec = exec }
}

// WithBytePool sets the allocator for request buffers.
func WithBytePool(p api.BytePool) Option {
	return func(r *Reader) { r.pool = p }
}

// WithCompleter delivers ReadFunc callbacks through c instead of the
// Reader's own loop goroutine.
func WithCompleter(c api.Completer) Option {
	return func(r *Reader) { r.completer = c }
}

// WithMetrics records counters into m.
func WithMetrics(m *control.MetricsRegistry) Option {
	return func(r *Reader) { r.metrics = m }
}

// Reader schedules exact-length reads on a bounded worker pool.
type Reader struct {
	log       zerolog.Logger
	workers   int
	exec      api.Executor
	ownExec   bool
	pool      api.BytePool
	completer api.Completer
	loop      *concurrency.Loop // non-nil when the Reader drives its own completions
	metrics   *control.MetricsRegistry
	probes    *control.DebugProbes

	mu        sync.Mutex // orders closed against inflight.Add
	inflight  sync.WaitGroup
	closed    atomic.Bool
	closeOnce sync.Once
}

// New builds a Reader. Without options it uses runtime.NumCPU() workers,
// a pooled allocator and a private completion goroutine.
func New(opts ...Option) *Reader {
	r := &Reader{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	if r.exec == nil {
		r.exec = concurrency.NewExecutor(r.workers, r.log)
		r.ownExec = true
	}
	if r.pool == nil {
		r.pool = pool.NewBytePool(0)
	}
	if r.metrics == nil {
		r.metrics = control.NewMetricsRegistry()
	}
	if r.completer == nil {
		r.loop = concurrency.NewLoop()
		r.completer = r.loop
		go func() { _ = r.loop.Run(context.Background()) }()
	}

	r.metrics.Set("workers", r.exec.NumWorkers())
	r.metrics.Set("closed", false)

	r.probes = control.NewDebugProbes()
	r.probes.RegisterProbe("reader.metrics", func() any { return r.metrics.GetSnapshot() })
	r.probes.RegisterProbe("reader.workers", func() any { return r.exec.NumWorkers() })
	r.probes.RegisterProbe("reader.closed", func() any { return r.closed.Load() })
	if s, ok := r.exec.(interface{ Stats() map[string]int64 }); ok {
		r.probes.RegisterProbe("reader.executor", func() any { return s.Stats() })
	}
	return r
}

// FromConfig builds a Reader from loaded configuration.
func FromConfig(cfg *control.Config, log zerolog.Logger, opts ...Option) *Reader {
	base := []Option{
		WithLogger(log),
		WithWorkers(cfg.Executor.Workers),
		WithBytePool(pool.NewBytePool(cfg.Pool.MaxPooledSize)),
	}
	return New(append(base, opts...)...)
}

// Read starts reading exactly size bytes from h. Usage errors are returned
// directly; every other outcome arrives through the Future.
func (r *Reader) Read(h api.Handle, size int) (*Future, error) {
	if err := validate(h, size); err != nil {
		return nil, err
	}
	f := newFuture()
	if err := r.start(h, size, f.complete); err != nil {
		return nil, err
	}
	return f, nil
}

// ReadFunc starts reading exactly size bytes from h and calls fn exactly
// once with either a non-nil error or a buffer of length size. A buffer
// passed to fn belongs to the caller.
func (r *Reader) ReadFunc(h api.Handle, size int, fn func(err error, buf []byte)) error {
	if err := validate(h, size); err != nil {
		return err
	}
	if fn == nil {
		return api.NewUsageError(api.MsgNotAFunction)
	}
	return r.start(h, size, func(res api.Result[[]byte]) {
		r.deliver(func() { fn(res.Err, res.Value) })
	})
}

// ReadSync reads exactly size bytes from h on the calling goroutine.
func (r *Reader) ReadSync(h api.Handle, size int) ([]byte, error) {
	if err := validate(h, size); err != nil {
		return nil, err
	}
	if r.closed.Load() {
		return nil, api.ErrReaderClosed
	}
	r.metrics.Add("requests", 1)

	var res api.Result[[]byte]
	done := func(out api.Result[[]byte]) { res = out }
	fd, err := resolve(h)
	if err != nil {
		r.finish(&request{fd: -1, size: size}, err, done)
		return nil, res.Err
	}
	r.run(&request{fd: fd, size: size, started: time.Now()}, done)
	return res.Value, res.Err
}

// start registers the request as in flight, resolves h and hands the job
// to the executor. BadStream outcomes complete immediately and never touch
// the buffer pool.
func (r *Reader) start(h api.Handle, size int, done func(api.Result[[]byte])) error {
	r.mu.Lock()
	if r.closed.Load() {
		r.mu.Unlock()
		return api.ErrReaderClosed
	}
	r.inflight.Add(1)
	r.mu.Unlock()

	r.metrics.Add("requests", 1)

	fd, err := resolve(h)
	if err != nil {
		r.finish(&request{fd: -1, size: size}, err, done)
		r.inflight.Done()
		return nil
	}

	req := &request{fd: fd, size: size, started: time.Now()}
	err = r.exec.Submit(func() {
		defer r.inflight.Done()
		defer r.recoverJob(req, done)
		r.run(req, done)
	})
	if err != nil {
		r.inflight.Done()
		return fmt.Errorf("%w: %v", api.ErrReaderClosed, err)
	}
	return nil
}

// recoverJob completes req with a SystemError if the job panicked before
// reporting, then re-raises the panic for the executor to account for.
func (r *Reader) recoverJob(req *request, done func(api.Result[[]byte])) {
	p := recover()
	if p == nil {
		return
	}
	if !req.reported {
		r.finish(req, api.NewSystemError("worker", fmt.Errorf("panic: %v", p)), done)
	}
	panic(p)
}

// run performs the blocking read for req and reports it through done.
func (r *Reader) run(req *request, done func(api.Result[[]byte])) {
	buf, err := r.acquire(req.size)
	if err != nil {
		r.finish(req, err, done)
		return
	}
	req.buf = buf
	err = transport.Exec(req.fd, req.buf)
	r.finish(req, err, done)
}

// acquire takes a request buffer from the pool. An allocation that panics
// or comes back short is a malloc SystemError.
func (r *Reader) acquire(n int) (buf []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			buf, err = nil, api.NewSystemError("malloc", fmt.Errorf("%v", p))
		}
	}()
	buf = r.pool.Acquire(n)
	if len(buf) != n {
		if buf != nil {
			r.pool.Release(buf)
		}
		return nil, api.NewSystemError("malloc", fmt.Errorf("got %d of %d bytes", len(buf), n))
	}
	return buf, nil
}

// finish classifies the outcome, settles buffer ownership and reports.
func (r *Reader) finish(req *request, err error, done func(api.Result[[]byte])) {
	req.outcome = api.Classify(err)

	var res api.Result[[]byte]
	if err != nil {
		if buf := req.buf; buf != nil {
			req.buf = nil
			r.pool.Release(buf)
		}
		res.Err = err
	} else {
		res.Value = req.buf
		r.metrics.Add("bytes_read", int64(req.size))
	}
	r.metrics.Add("outcome_"+req.outcome.String(), 1)

	ev := r.log.Debug().Int("fd", req.fd).Int("size", req.size).Stringer("outcome", req.outcome)
	if !req.started.IsZero() {
		ev = ev.Dur("elapsed", time.Since(req.started))
	}
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("read finished")

	req.reported = true
	done(res)
}

// deliver hands cb to the completer, running it inline if the completer
// refuses it so that every request still completes exactly once.
func (r *Reader) deliver(cb func()) {
	if err := r.completer.Post(cb); err != nil {
		r.log.Warn().Err(err).Msg("completer rejected callback, running inline")
		cb()
	}
}

// Close stops accepting reads. Reads already submitted run to completion
// and their callbacks are still delivered. Close does not block.
func (r *Reader) Close() {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed.Store(true)
		r.mu.Unlock()
		r.metrics.Set("closed", true)

		if r.ownExec {
			r.exec.Close()
		}
		if r.loop != nil {
			go func() {
				r.inflight.Wait()
				r.loop.Stop()
			}()
		}
		r.log.Debug().Msg("reader closed")
	})
}

// Stats returns a snapshot of the Reader's counters.
func (r *Reader) Stats() map[string]any {
	out := r.metrics.GetSnapshot()
	out["goroutines"] = runtime.NumGoroutine()
	if s, ok := r.exec.(interface{ Stats() map[string]int64 }); ok {
		out["executor"] = s.Stats()
	}
	return out
}

// DumpState returns the values of all registered debug probes.
func (r *Reader) DumpState() map[string]any {
	return r.probes.DumpState()
}

// RegisterProbe adds a named debug probe reported by DumpState.
func (r *Reader) RegisterProbe(name string, fn func() any) {
	r.probes.RegisterProbe(name, fn)
}
