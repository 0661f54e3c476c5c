package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/griesmnr/flash-cards/internal/collections"
	"github.com/griesmnr/flash-cards/internal/deck"
	"github.com/griesmnr/flash-cards/internal/models"
	"github.com/griesmnr/flash-cards/internal/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Controller owns one viewer State and applies actions to it one at a time on
// the goroutine running Run. Fetch effects run on their own goroutines and
// report back through the same queue, so the latest selection always wins.
type Controller struct {
	src      collections.Source
	log      *zap.Logger
	shuffle  func([]models.Card) []models.Card
	timeout  time.Duration
	onChange func(State)

	reqs chan request
	done chan struct{}

	mu         sync.RWMutex
	snap       State
	changed    chan struct{} // closed and replaced on every publish
	lastActive atomic.Int64

	// Owned by the Run goroutine.
	state       State
	cancelFetch context.CancelFunc
	fetches     sync.WaitGroup
}

type request struct {
	action Action
	reply  chan result
}

type result struct {
	state State
	err   error
}

type Option func(*Controller)

func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithShuffle replaces the deck shuffle, mainly for deterministic tests.
func WithShuffle(fn func([]models.Card) []models.Card) Option {
	return func(c *Controller) { c.shuffle = fn }
}

// WithFetchTimeout bounds each collection fetch. Zero means no bound.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithOnChange registers a callback invoked on the Run goroutine after every
// applied action. It must not call Do.
func WithOnChange(fn func(State)) Option {
	return func(c *Controller) { c.onChange = fn }
}

func NewController(src collections.Source, opts ...Option) *Controller {
	c := &Controller{
		src:     src,
		log:     zap.NewNop(),
		shuffle: deck.Shuffle[models.Card],
		reqs:    make(chan request),
		done:    make(chan struct{}),
		changed: make(chan struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	c.state.Epoch = uuid.NewString()
	c.snap = c.state
	c.Touch()
	return c
}

// Run processes actions until ctx is cancelled, then cancels in-flight
// fetches and waits for them.
func (c *Controller) Run(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		c.fetches.Wait()
		close(c.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case r := <-c.reqs:
			st, err := c.apply(loopCtx, r.action)
			if r.reply != nil {
				r.reply <- result{state: st, err: err}
			}
		}
	}
}

// Start lists the source's collections and loads them, which in turn
// requests the first collection.
func (c *Controller) Start(ctx context.Context) error {
	ids, err := c.src.List(ctx)
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	_, err = c.Do(ctx, LoadCollections{IDs: ids})
	return err
}

// Do applies a and returns the resulting state. Fetches requested by a have
// not completed when Do returns; watch WithOnChange or Snapshot for them.
func (c *Controller) Do(ctx context.Context, a Action) (State, error) {
	c.Touch()
	reply := make(chan result, 1)
	select {
	case c.reqs <- request{action: a, reply: reply}:
	case <-c.done:
		return c.Snapshot(), models.ErrSessionClosed
	case <-ctx.Done():
		return c.Snapshot(), ctx.Err()
	}
	// Accepted requests are always answered.
	r := <-reply
	return r.state, r.err
}

// Snapshot returns the most recently committed state.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Wait blocks until the committed state satisfies cond and returns it.
func (c *Controller) Wait(ctx context.Context, cond func(State) bool) (State, error) {
	for {
		c.mu.RLock()
		snap, changed := c.snap, c.changed
		c.mu.RUnlock()
		if cond(snap) {
			return snap, nil
		}
		select {
		case <-changed:
		case <-c.done:
			return c.Snapshot(), models.ErrSessionClosed
		case <-ctx.Done():
			return snap, ctx.Err()
		}
	}
}

// Settled waits until no selection is loading.
func (c *Controller) Settled(ctx context.Context) (State, error) {
	return c.Wait(ctx, func(s State) bool { return !s.Loading() })
}

// Touch marks the controller as in use without applying an action.
func (c *Controller) Touch() {
	c.lastActive.Store(time.Now().UnixNano())
}

// LastActive is when Do or Touch was last called.
func (c *Controller) LastActive() time.Time {
	return time.Unix(0, c.lastActive.Load())
}

// Done is closed once Run has returned.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

func (c *Controller) apply(ctx context.Context, a Action) (State, error) {
	next, fetch, err := Reduce(c.state, a)
	if err != nil {
		c.log.Debug("action rejected", zap.String("action", actionName(a)), zap.Error(err))
		return c.state, err
	}

	// Superseded fetch results leave the state untouched and are not published.
	switch a := a.(type) {
	case DeckFailed:
		c.log.Warn("collection data unavailable",
			zap.String("collection", a.ID),
			zap.Bool("superseded", a.Seq != c.state.Seq),
			zap.Error(a.Err))
		if a.Seq != c.state.Seq {
			return c.state, nil
		}
	case DeckLoaded:
		if a.Seq != c.state.Seq {
			c.log.Debug("dropping superseded deck", zap.String("collection", a.ID), zap.Uint64("seq", a.Seq))
			return c.state, nil
		}
	}

	next.Rev = c.state.Rev + 1
	c.state = next
	c.mu.Lock()
	c.snap = next
	close(c.changed)
	c.changed = make(chan struct{})
	c.mu.Unlock()
	if c.onChange != nil {
		c.onChange(next)
	}

	if fetch != nil {
		c.startFetch(ctx, *fetch)
	}
	return next, nil
}

func (c *Controller) startFetch(ctx context.Context, f Fetch) {
	if c.cancelFetch != nil {
		c.cancelFetch()
	}
	fctx, cancel := context.WithCancel(ctx)
	c.cancelFetch = cancel

	c.fetches.Add(1)
	go func() {
		defer c.fetches.Done()
		res := c.fetch(fctx, f)
		// A cancelled fetch was superseded or the controller is stopping;
		// its result would be discarded either way.
		select {
		case c.reqs <- request{action: res}:
		case <-fctx.Done():
		}
	}()
}

func (c *Controller) fetch(ctx context.Context, f Fetch) Action {
	ctx, span := tracing.StartSpan(ctx, "viewer.fetch",
		trace.WithAttributes(attribute.String("collection", f.Collection)))
	defer span.End()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cards, err := c.src.Fetch(ctx, f.Collection)
	if err != nil {
		if !errors.Is(err, models.ErrCollectionUnavailable) {
			err = fmt.Errorf("%w: %s: %w", models.ErrCollectionUnavailable, f.Collection, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return DeckFailed{ID: f.Collection, Seq: f.Seq, Err: err}
	}
	span.SetAttributes(attribute.Int("cards", len(cards)))
	return DeckLoaded{ID: f.Collection, Seq: f.Seq, Cards: c.shuffle(cards)}
}

func actionName(a Action) string {
	if a == nil {
		return "nil"
	}
	return a.actionName()
}
