package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/griesmnr/flash-cards/internal/collections"
	"github.com/griesmnr/flash-cards/internal/viewer"

	"go.uber.org/zap"
)

// Sessions keeps one viewer controller per browser session. Each controller
// runs its own event loop until the session is evicted or the server stops.
type Sessions struct {
	mu   sync.RWMutex
	byID map[string]*session

	ctx      context.Context
	src      collections.Source
	log      *zap.Logger
	timeout  time.Duration
	onChange func(sessionID string, st viewer.State)
	wg       sync.WaitGroup
}

type session struct {
	ctrl   *viewer.Controller
	cancel context.CancelFunc
	// ready is closed once Start has returned; err is its result.
	ready chan struct{}
	err   error
}

type SessionOptions struct {
	Logger       *zap.Logger
	FetchTimeout time.Duration
	// OnChange is called from the session's event loop after every applied
	// action. It must not block.
	OnChange func(sessionID string, st viewer.State)
}

// NewSessions creates a session registry whose controllers live at most as
// long as ctx.
func NewSessions(ctx context.Context, src collections.Source, opts SessionOptions) *Sessions {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Sessions{
		byID:     map[string]*session{},
		ctx:      ctx,
		src:      src,
		log:      opts.Logger,
		timeout:  opts.FetchTimeout,
		onChange: opts.OnChange,
	}
}

// Get returns the controller for id, creating and starting it on first use.
// Concurrent first calls share one controller and all wait for its start.
func (s *Sessions) Get(ctx context.Context, id string) (*viewer.Controller, error) {
	s.mu.RLock()
	sess, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		s.mu.Lock()
		if sess, ok = s.byID[id]; !ok {
			sess = s.spawn(id)
			s.byID[id] = sess
		}
		s.mu.Unlock()
	}

	select {
	case <-sess.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if sess.err != nil {
		return nil, sess.err
	}
	sess.ctrl.Touch()
	return sess.ctrl, nil
}

// Lookup returns an existing controller without creating one.
func (s *Sessions) Lookup(id string) (*viewer.Controller, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return sess.ctrl, true
}

func (s *Sessions) spawn(id string) *session {
	opts := []viewer.Option{
		viewer.WithLogger(s.log.With(zap.String("session", id))),
		viewer.WithFetchTimeout(s.timeout),
	}
	if s.onChange != nil {
		opts = append(opts, viewer.WithOnChange(func(st viewer.State) { s.onChange(id, st) }))
	}
	ctrl := viewer.NewController(s.src, opts...)

	ctx, cancel := context.WithCancel(s.ctx)
	sess := &session{ctrl: ctrl, cancel: cancel, ready: make(chan struct{})}
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		ctrl.Run(ctx)
	}()
	// Start runs on the session's context so an impatient first caller
	// cannot abort it for the callers waiting behind it.
	go func() {
		defer s.wg.Done()
		defer close(sess.ready)
		if sess.err = ctrl.Start(ctx); sess.err != nil {
			s.log.Warn("viewer session failed to start", zap.String("session", id), zap.Error(sess.err))
			s.remove(id, sess)
			return
		}
		s.log.Debug("viewer session started", zap.String("session", id))
	}()
	return sess
}

// remove drops sess if it is still the entry for id, and stops it.
func (s *Sessions) remove(id string, sess *session) {
	s.mu.Lock()
	if s.byID[id] == sess {
		delete(s.byID, id)
	}
	s.mu.Unlock()
	sess.cancel()
}

// Evict stops sessions idle for longer than ttl and returns how many it
// stopped.
func (s *Sessions) Evict(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	s.mu.Lock()
	var stale []*session
	for id, sess := range s.byID {
		if sess.ctrl.LastActive().Before(cutoff) {
			stale = append(stale, sess)
			delete(s.byID, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		sess.cancel()
	}
	return len(stale)
}

// Len is the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Close stops every session and waits for their event loops to exit.
func (s *Sessions) Close() {
	s.mu.Lock()
	for id, sess := range s.byID {
		sess.cancel()
		delete(s.byID, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// RunEvictor evicts idle sessions every interval until ctx is done.
func (s *Sessions) RunEvictor(ctx context.Context, ttl, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Evict(ttl); n > 0 {
				s.log.Info("evicted idle viewer sessions", zap.Int("count", n), zap.Int("remaining", s.Len()))
			}
		}
	}
}
