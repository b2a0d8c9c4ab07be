package sync

import (
	"context"
	"errors"
	"sort"
	"strings"
	stdsync "sync"
	"time"

	"github.com/merchpoint/pos/internal/common"
	"github.com/merchpoint/pos/internal/logging"
	"github.com/merchpoint/pos/internal/pos/remote"
	"github.com/merchpoint/pos/internal/pos/repositories/metadata"
	"github.com/merchpoint/pos/internal/pos/repositories/products"
	"github.com/merchpoint/pos/internal/pos/repositories/sales"
	"github.com/merchpoint/pos/internal/pos/repositories/settings"
)

const (
	defaultRetryDelay     = 5 * time.Second
	defaultInterTaskDelay = 500 * time.Millisecond
)

// Options configure an Engine. Sales, Products, Settings, Metadata, Remote
// and Logger are required; the rest default sensibly.
type Options struct {
	Sales    sales.Repository
	Products products.Repository
	Settings settings.Repository
	Metadata metadata.Repository
	Remote   remote.Client
	Logger   logging.Logger

	// Status receives every state change. A new publisher is created when nil.
	Status *StatusPublisher

	// Now supplies timestamps (lastSyncTime). Defaults to time.Now.
	Now func() time.Time

	// RetryDelay is the fixed delay before a transiently failed task type is
	// re-enqueued. The original behavior is retained deliberately: no backoff
	// growth and no give-up ceiling.
	RetryDelay time.Duration

	// InterTaskDelay spaces consecutive drain steps to avoid hammering the
	// remote backends.
	InterTaskDelay time.Duration

	// DemoMode, when it reports true, makes the engine publish an all-synced
	// status and perform zero remote calls regardless of dirty-flags.
	DemoMode func() bool
}

// Engine owns the sync queue and its serial drain loop. At most one remote
// call is in flight at any time, which removes the need for locking around
// the local store: the drain goroutine is the only writer while it runs.
type Engine struct {
	sales    sales.Repository
	products products.Repository
	settings settings.Repository
	meta     metadata.Repository
	remote   remote.Client
	log      logging.Logger
	status   *StatusPublisher

	now            func() time.Time
	retryDelay     time.Duration
	interTaskDelay time.Duration
	demo           func() bool

	mu           stdsync.Mutex
	queue        []task
	draining     bool
	online       bool
	retryPending int
}

// New constructs an engine with injected dependencies. Nothing runs until
// the network monitor (or a test) flips it online.
func New(opts Options) *Engine {
	e := &Engine{
		sales:          opts.Sales,
		products:       opts.Products,
		settings:       opts.Settings,
		meta:           opts.Metadata,
		remote:         opts.Remote,
		log:            opts.Logger,
		status:         opts.Status,
		now:            opts.Now,
		retryDelay:     opts.RetryDelay,
		interTaskDelay: opts.InterTaskDelay,
		demo:           opts.DemoMode,
	}
	if e.status == nil {
		e.status = NewStatusPublisher()
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.retryDelay <= 0 {
		e.retryDelay = defaultRetryDelay
	}
	if e.interTaskDelay < 0 {
		e.interTaskDelay = defaultInterTaskDelay
	}
	if e.demo == nil {
		e.demo = func() bool { return false }
	}
	return e
}

// Status returns the publisher so callers can subscribe or read the current
// state.
func (e *Engine) Status() *StatusPublisher { return e.status }

// Online reports the current connectivity flag.
func (e *Engine) Online() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.online
}

// Enqueue adds a task of the given type unless one is already queued, then
// starts the drain loop if the engine is online and idle. Offline enqueues
// are kept: the went-online handler will drain them.
func (e *Engine) Enqueue(ctx context.Context, t TaskType) {
	if e.demo() {
		return
	}

	e.mu.Lock()
	if e.queued(t) {
		e.mu.Unlock()
		return
	}
	e.queue = append(e.queue, task{Type: t, EnqueuedAt: e.now()})
	sort.SliceStable(e.queue, func(i, j int) bool { return e.queue[i].Type < e.queue[j].Type })
	e.mu.Unlock()

	if e.tryStartDrain() {
		go e.drainLoop(ctx)
	}
}

// queued reports whether a task of type t is in the queue. Caller holds e.mu.
func (e *Engine) queued(t TaskType) bool {
	for _, item := range e.queue {
		if item.Type == t {
			return true
		}
	}
	return false
}

// QueueLen returns the current queue depth.
func (e *Engine) QueueLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// SetOnline applies a connectivity transition. Going online recomputes
// pending counts from the persisted dirty-flags, enqueues a task per dirty
// category and starts the drain loop. Going offline stops new remote calls;
// an in-flight call finishes or fails naturally and stays queued via the
// normal transient path.
func (e *Engine) SetOnline(ctx context.Context, online bool) {
	e.mu.Lock()
	if e.online == online {
		e.mu.Unlock()
		return
	}
	e.online = online
	e.mu.Unlock()

	e.status.Apply(Patch{Online: ptr(online)})
	e.log.Info(ctx, "connectivity changed", "online", online)

	if !online {
		return
	}

	e.RecomputePending(ctx)
	if e.demo() {
		return
	}
	e.enqueueDirty(ctx)
	if e.tryStartDrain() {
		go e.drainLoop(ctx)
	}
}

// TriggerSync is the manual entry point. It fails fast when offline,
// otherwise recomputes pending state, enqueues dirty categories and drains
// synchronously.
func (e *Engine) TriggerSync(ctx context.Context) error {
	if e.demo() {
		e.RecomputePending(ctx)
		return nil
	}
	if !e.Online() {
		return common.ErrOffline
	}

	e.RecomputePending(ctx)
	e.enqueueDirty(ctx)
	if e.tryStartDrain() {
		e.drainLoop(ctx)
	}
	return nil
}

// RecomputePending re-reads the persisted dirty-flags and republishes the
// pending fields. In demo mode it short-circuits to an all-clear report.
func (e *Engine) RecomputePending(ctx context.Context) {
	if e.demo() {
		e.status.Apply(Patch{
			PendingSales:    ptr(0),
			PendingProducts: ptr(false),
			PendingSettings: ptr(false),
		})
		return
	}

	patch := Patch{}

	if n, err := e.sales.CountUnsynced(ctx); err != nil {
		e.log.Error(ctx, "failed to count unsynced sales", "error", err)
	} else {
		patch.PendingSales = ptr(n)
	}

	if dirty, err := e.products.HasUnsynced(ctx); err != nil {
		e.log.Error(ctx, "failed to check product sync state", "error", err)
	} else {
		patch.PendingProducts = ptr(dirty)
	}

	if s, err := e.settings.Get(ctx); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// no settings yet means nothing to sync
			patch.PendingSettings = ptr(false)
		} else {
			e.log.Error(ctx, "failed to load settings", "error", err)
		}
	} else {
		patch.PendingSettings = ptr(s.PendingSync)
	}

	e.status.Apply(patch)
}

// enqueueDirty adds one task per category that has persisted dirty state.
func (e *Engine) enqueueDirty(ctx context.Context) {
	if n, err := e.sales.CountUnsynced(ctx); err == nil && n > 0 {
		e.enqueueLocked(TaskSales)
	}
	if dirty, err := e.products.HasUnsynced(ctx); err == nil && dirty {
		e.enqueueLocked(TaskProducts)
	}
	if s, err := e.settings.Get(ctx); err == nil && s.PendingSync {
		e.enqueueLocked(TaskSettings)
	}
}

// enqueueLocked inserts without starting a drain. Dedup and re-sort apply as
// in Enqueue.
func (e *Engine) enqueueLocked(t TaskType) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.queued(t) {
		return
	}
	e.queue = append(e.queue, task{Type: t, EnqueuedAt: e.now()})
	sort.SliceStable(e.queue, func(i, j int) bool { return e.queue[i].Type < e.queue[j].Type })
}

// tryStartDrain claims the drain loop. Only one loop runs at a time.
func (e *Engine) tryStartDrain() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draining || !e.online || len(e.queue) == 0 {
		return false
	}
	e.draining = true
	return true
}

// drainLoop serially processes queued tasks in ascending priority order
// until the queue empties or the engine goes offline. The caller must have
// claimed the loop via tryStartDrain.
func (e *Engine) drainLoop(ctx context.Context) {
	e.status.Apply(Patch{Syncing: ptr(true)})

	failed := false
	clean := false

	for {
		if e.demo() {
			e.mu.Lock()
			e.queue = nil
			e.draining = false
			e.mu.Unlock()
			break
		}

		e.mu.Lock()
		if !e.online || len(e.queue) == 0 {
			// releasing the loop and checking the queue must happen in one
			// critical section; otherwise an Enqueue landing between the
			// two would see draining still set, decline to start a loop,
			// and strand its task until the next unrelated wakeup
			e.draining = false
			clean = e.online && len(e.queue) == 0 && !failed && e.retryPending == 0
			e.mu.Unlock()
			break
		}
		next := e.queue[0]
		e.queue = e.queue[1:]
		remaining := len(e.queue)
		e.mu.Unlock()

		err := e.dispatch(ctx, next.Type)
		if err != nil {
			failed = true
			e.status.Apply(Patch{Err: ptr(err.Error())})
			if isPermanent(err) {
				// a misconfiguration never resolves by retrying; drop the
				// task and wait for the operator
				e.log.Error(ctx, "sync failed permanently", "type", next.Type.String(), "error", err)
			} else {
				e.log.Warn(ctx, "sync failed, will retry", "type", next.Type.String(),
					"delay", e.retryDelay, "error", err)
				e.scheduleRetry(ctx, next.Type)
			}
			continue
		}

		e.log.Info(ctx, "sync task completed", "type", next.Type.String())
		if remaining > 0 && e.interTaskDelay > 0 {
			time.Sleep(e.interTaskDelay)
		}
	}

	if clean {
		e.status.Apply(Patch{LastSync: ptr(e.now()), Err: ptr("")})
	}
	e.status.Apply(Patch{Syncing: ptr(false)})

	// observers see an accurate picture even after partial failures
	e.RecomputePending(ctx)
}

// scheduleRetry re-enqueues the task type after the fixed retry delay, but
// only if still online at expiry. When offline at expiry the re-enqueue is
// skipped: the went-online handler rebuilds the queue from dirty-flags.
// The re-enqueue runs under the ctx that scheduled it, keeping log/trace
// values from the original drain attached to the retry.
func (e *Engine) scheduleRetry(ctx context.Context, t TaskType) {
	e.mu.Lock()
	e.retryPending++
	e.mu.Unlock()

	time.AfterFunc(e.retryDelay, func() {
		e.mu.Lock()
		e.retryPending--
		online := e.online
		e.mu.Unlock()

		if !online {
			return
		}
		e.Enqueue(ctx, t)
	})
}

// isPermanent classifies an error. Configuration errors carry "not found"
// (locally via common.ErrNotConfigured, remotely via the error body
// contract) and are never retried; everything else is transient.
func isPermanent(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
