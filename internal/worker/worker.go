// Package worker implements the per-index background execution context
// (C6): a single goroutine that owns the frozen index state and serializes
// scoring requests through request/reply channels, with a lazy, cancellable
// spawn and a drain-before-teardown dispose protocol.
package worker

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"bm25index/internal/bm25err"
	"bm25index/internal/engine"
	"bm25index/internal/meta"
	"bm25index/internal/tokenize"
)

// Timeout budgets for the spawn handshake, overall spawn, a single reply,
// and the shutdown acknowledgement. These are the "reasonable defaults"
// named in the specification, not tunables.
const (
	spawnTimeout       = 10 * time.Second
	handshakeTimeout   = 5 * time.Second
	replyTimeout       = 30 * time.Second
	shutdownAckTimeout = 5 * time.Second
)

type lifecycle int32

const (
	notSpawned lifecycle = iota
	spawning
	running
	disposing
	disposed
)

// ScoreFunc performs the actual BM25 scoring against the frozen index
// state. The worker does not know how scoring works; it only schedules it.
type ScoreFunc func(query string, limit int, filter map[string]meta.Value, stopWords tokenize.StopSet) ([]engine.Result, error)

type request struct {
	reply     chan response
	query     string
	limit     int
	filter    map[string]meta.Value
	stopWords tokenize.StopSet
}

type response struct {
	results []engine.Result
	err     error
}

type shutdownMsg struct {
	ack chan struct{}
}

type spawnFuture struct {
	done chan struct{}
}

// Runtime is the handle-owned worker lifecycle described by the
// specification: NotSpawned -> Spawning -> Running -> Disposing -> Disposed.
type Runtime struct {
	score  ScoreFunc
	logger *slog.Logger

	mu         sync.Mutex
	state      lifecycle
	spawnFut   *spawnFuture
	reqCh      chan request
	shutdownCh chan shutdownMsg

	disposeOnce sync.Once
	disposeCh   chan struct{} // closed exactly once: the broadcast dispose signal
	inflight    sync.WaitGroup // submitted Search calls still deciding cancel-vs-reply
	busy        sync.WaitGroup // requests the worker has accepted but not finished scoring
}

// New builds a Runtime around score. It does not spawn the worker
// goroutine; that happens lazily on the first Search.
func New(score ScoreFunc, logger *slog.Logger) *Runtime {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runtime{
		score:     score,
		logger:    logger,
		state:     notSpawned,
		disposeCh: make(chan struct{}),
	}
}

// Search submits a scoring request to the worker, lazily spawning it on
// first use, and waits for its reply, racing the dispose signal, the
// supplied context, and the 30s reply timeout.
func (r *Runtime) Search(ctx context.Context, query string, limit int, filter map[string]meta.Value, stopWords tokenize.StopSet) ([]engine.Result, error) {
	r.mu.Lock()
	if r.state == disposed || r.state == disposing {
		r.mu.Unlock()
		return nil, bm25err.New(bm25err.Disposed, "index is disposed")
	}
	r.inflight.Add(1)
	r.mu.Unlock()
	defer r.inflight.Done()

	if err := r.ensureSpawned(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	reqCh := r.reqCh
	r.mu.Unlock()

	reply := make(chan response, 1)
	req := request{reply: reply, query: query, limit: limit, filter: filter, stopWords: stopWords}

	r.logger.Debug("search enqueued", "limit", limit)

	select {
	case reqCh <- req:
	case <-r.disposeCh:
		// req never reached the worker, so nothing will ever send on
		// reply; safe to close immediately.
		close(reply)
		r.logger.Warn("search cancelled by dispose", "stage", "enqueue")
		return nil, bm25err.New(bm25err.Cancelled, "search cancelled by dispose")
	case <-ctx.Done():
		close(reply)
		return nil, ctx.Err()
	}

	timer := time.NewTimer(replyTimeout)
	defer timer.Stop()

	select {
	case res := <-reply:
		// The worker only ever sends once on a buffered(1) channel it owns;
		// having received, we know it is safe to close.
		close(reply)
		if res.err != nil {
			// Typed errors from scoring (InvalidLimit, UnknownField) keep
			// their own kind; anything else is carried as InternalError.
			if _, ok := res.err.(*bm25err.Error); ok {
				return nil, res.err
			}
			return nil, bm25err.Wrap(bm25err.InternalError, "scoring failed", res.err)
		}
		r.logger.Debug("search completed", "results", len(res.results))
		return res.results, nil
	case <-r.disposeCh:
		r.logger.Warn("search cancelled by dispose", "stage", "reply")
		// req is already in the worker's hands; it will still send on
		// reply once it gets to it, so closing must wait for that send
		// rather than race it.
		abandonReply(reply)
		return nil, bm25err.New(bm25err.Cancelled, "search cancelled by dispose")
	case <-ctx.Done():
		abandonReply(reply)
		return nil, ctx.Err()
	case <-timer.C:
		r.logger.Warn("search reply timed out")
		abandonReply(reply)
		return nil, bm25err.New(bm25err.WorkerTimeout, "search reply timed out")
	}
}

// abandonReply drains the single reply a worker will still send for a
// request the caller has already given up on, then closes the channel.
// This keeps the "caller always closes reply" contract without racing the
// worker's in-flight send (sending on an already-closed channel panics).
func abandonReply(reply chan response) {
	go func() {
		<-reply
		close(reply)
	}()
}

func (r *Runtime) ensureSpawned(ctx context.Context) error {
	r.mu.Lock()
	switch r.state {
	case disposed, disposing:
		r.mu.Unlock()
		return bm25err.New(bm25err.Disposed, "index is disposed")
	case running:
		r.mu.Unlock()
		return nil
	case spawning:
		fut := r.spawnFut
		r.mu.Unlock()
		return r.awaitSpawn(ctx, fut)
	}

	fut := &spawnFuture{done: make(chan struct{})}
	r.spawnFut = fut
	r.state = spawning
	r.mu.Unlock()

	initCh := make(chan chan request, 1)
	go r.runSpawn(initCh, fut)

	handshake := time.NewTimer(handshakeTimeout)
	defer handshake.Stop()
	select {
	case <-initCh:
	case <-r.disposeCh:
		return bm25err.New(bm25err.Cancelled, "spawn cancelled by dispose")
	case <-ctx.Done():
		return ctx.Err()
	case <-handshake.C:
		return bm25err.New(bm25err.WorkerTimeout, "worker handshake timed out")
	}

	return r.awaitSpawn(ctx, fut)
}

// runSpawn performs the handshake: it opens the request channel and hands
// its send end to the spawner over a one-shot, buffered init channel (the
// spawner consumes it in ensureSpawned, bounded by handshakeTimeout), then
// transitions the handle to Running and enters the request loop.
func (r *Runtime) runSpawn(initCh chan chan request, fut *spawnFuture) {
	reqCh := make(chan request)
	shutdownCh := make(chan shutdownMsg)

	initCh <- reqCh

	r.mu.Lock()
	cancelled := r.state != spawning
	if !cancelled {
		r.reqCh = reqCh
		r.shutdownCh = shutdownCh
		r.state = running
	}
	r.mu.Unlock()
	if cancelled {
		return
	}

	close(fut.done)
	r.loop(reqCh, shutdownCh)
}

func (r *Runtime) awaitSpawn(ctx context.Context, fut *spawnFuture) error {
	timer := time.NewTimer(spawnTimeout)
	defer timer.Stop()

	select {
	case <-fut.done:
		return nil
	case <-r.disposeCh:
		return bm25err.New(bm25err.Cancelled, "spawn cancelled by dispose")
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return bm25err.New(bm25err.WorkerTimeout, "worker spawn timed out")
	}
}

// loop is the single-consumer request processor: requests are served in
// submission order, one at a time, against the immutable index state
// captured by r.score.
func (r *Runtime) loop(reqCh chan request, shutdownCh chan shutdownMsg) {
	for {
		select {
		case req := <-reqCh:
			r.busy.Add(1)
			results, err := r.score(req.query, req.limit, req.filter, req.stopWords)
			req.reply <- response{results: results, err: err}
			r.busy.Done()
		case msg := <-shutdownCh:
			close(reqCh)
			msg.ack <- struct{}{}
			return
		}
	}
}

// Dispose triggers the broadcast dispose signal exactly once, waits for
// every already-submitted request to resolve (with a result or with
// Cancelled), and then tears down the worker via the shutdown handshake.
// It is idempotent: a second call returns immediately.
func (r *Runtime) Dispose(context.Context) error {
	r.disposeOnce.Do(func() {
		r.mu.Lock()
		wasSpawned := r.state != notSpawned
		r.state = disposing
		r.mu.Unlock()

		close(r.disposeCh)
		r.inflight.Wait() // every submitted Search call has decided cancel-vs-reply
		r.busy.Wait()     // the worker itself has finished anything it already accepted

		if wasSpawned {
			r.shutdown()
		}

		r.mu.Lock()
		r.state = disposed
		r.mu.Unlock()
		r.logger.Info("worker disposed")
	})
	return nil
}

func (r *Runtime) shutdown() {
	r.mu.Lock()
	reqCh := r.reqCh
	shutdownCh := r.shutdownCh
	r.mu.Unlock()
	if reqCh == nil {
		// The worker never reached Running (dispose raced the handshake);
		// its spawn goroutine finds the state no longer Spawning and exits
		// without entering the request loop.
		return
	}

	ack := make(chan struct{}, 1)
	select {
	case shutdownCh <- shutdownMsg{ack: ack}:
	case <-time.After(shutdownAckTimeout):
		// shutdownCh is unbuffered, so this timeout means the worker never
		// received the message; nothing will ever send on ack.
		r.logger.Warn("worker shutdown request timed out")
		close(ack)
		return
	}

	select {
	case <-ack:
		close(ack)
	case <-time.After(shutdownAckTimeout):
		r.logger.Warn("worker shutdown ack timed out")
		// The worker already has msg and will still send its ack shortly
		// (it does so immediately after this handoff); drain it before
		// closing rather than racing its send.
		abandonAck(ack)
	}
}

// abandonAck mirrors abandonReply for the shutdown handshake's one-shot
// ack channel: it waits for the worker's already-committed send, then
// closes, never closing while a send might still race it.
func abandonAck(ack chan struct{}) {
	go func() {
		<-ack
		close(ack)
	}()
}
