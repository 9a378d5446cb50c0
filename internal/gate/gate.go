// Package gate runs an action after a fixed delay and keeps its result until
// the caller collects it. Every begun action completes exactly once.
package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"invoicedesk/internal/cache"
)

// DefaultDelay is the pause shown before export and send proceed.
const DefaultDelay = 3 * time.Second

// ErrUnknownToken is returned for tokens that were never issued or whose
// result has expired.
var ErrUnknownToken = errors.New("unknown action token")

type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Action produces the gated artifact. It runs once, after the delay.
type Action func() (any, error)

// Ticket is handed back by Begin.
type Ticket struct {
	Token   string        `json:"token"`
	ReadyIn time.Duration `json:"-"`
}

type Result struct {
	Token   string
	Kind    string
	Status  Status
	Value   any
	Err     error
	ReadyAt time.Time
}

// Observer is told about every completed action.
type Observer func(kind string, status Status)

type pending struct {
	kind    string
	fn      Action
	timer   *time.Timer
	readyAt time.Time
	running bool
	done    chan struct{}
}

type Gate struct {
	delay    time.Duration
	ttl      time.Duration
	logger   *zap.Logger
	results  cache.Cache[string, Result]
	newToken func() string
	observe  Observer

	mu      sync.Mutex
	pending map[string]*pending
}

type Option func(*Gate)

// WithTokens overrides token generation.
func WithTokens(fn func() string) Option {
	return func(g *Gate) { g.newToken = fn }
}

func WithObserver(fn Observer) Option {
	return func(g *Gate) { g.observe = fn }
}

// WithResults sets where finished results are kept.
func WithResults(c cache.Cache[string, Result]) Option {
	return func(g *Gate) { g.results = c }
}

// New builds a gate. ttl bounds how long a finished result stays collectable.
func New(delay, ttl time.Duration, logger *zap.Logger, opts ...Option) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Gate{
		delay:    delay,
		ttl:      ttl,
		logger:   logger,
		results:  cache.NewTTLCache[string, Result](),
		newToken: uuid.NewString,
		pending:  make(map[string]*pending),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Delay reports the configured pause.
func (g *Gate) Delay() time.Duration { return g.delay }

// Begin schedules fn and returns its token immediately. The caller should
// pass a closure over a snapshot, not over live state.
func (g *Gate) Begin(kind string, fn Action) Ticket {
	token := g.newToken()
	p := &pending{
		kind:    kind,
		fn:      fn,
		readyAt: time.Now().Add(g.delay),
		done:    make(chan struct{}),
	}

	g.mu.Lock()
	g.pending[token] = p
	p.timer = time.AfterFunc(g.delay, func() { g.Complete(token) })
	g.mu.Unlock()

	g.logger.Debug("gated action started", zap.String("token", token), zap.String("kind", kind), zap.Duration("delay", g.delay))
	return Ticket{Token: token, ReadyIn: g.delay}
}

// Complete runs the action for token now. It reports false when the token is
// unknown or already started, so the action never runs twice. The token
// stays pending until its result is stored.
func (g *Gate) Complete(token string) bool {
	g.mu.Lock()
	p, ok := g.pending[token]
	if !ok || p.running {
		g.mu.Unlock()
		return false
	}
	p.running = true
	p.timer.Stop()
	g.mu.Unlock()

	res := Result{Token: token, Kind: p.kind}
	res.Value, res.Err = run(p.fn)
	res.ReadyAt = time.Now()
	res.Status = StatusReady
	if res.Err != nil {
		res.Status = StatusFailed
		g.logger.Warn("gated action failed", zap.String("token", token), zap.String("kind", p.kind), zap.Error(res.Err))
	}
	g.results.Set(token, res, g.ttl)

	g.mu.Lock()
	delete(g.pending, token)
	g.mu.Unlock()
	close(p.done)

	if g.observe != nil {
		g.observe(p.kind, res.Status)
	}
	return true
}

func run(fn Action) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gated action panicked: %v", r)
		}
	}()
	return fn()
}

// Result returns the current state for token. Pending actions report
// StatusPending with their expected ready time.
func (g *Gate) Result(token string) (Result, bool) {
	g.mu.Lock()
	p, ok := g.pending[token]
	g.mu.Unlock()
	if ok {
		return Result{Token: token, Kind: p.kind, Status: StatusPending, ReadyAt: p.readyAt}, true
	}
	return g.results.Get(token)
}

// Wait blocks until token completes or ctx ends.
func (g *Gate) Wait(ctx context.Context, token string) (Result, error) {
	g.mu.Lock()
	p, ok := g.pending[token]
	g.mu.Unlock()
	if ok {
		select {
		case <-p.done:
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
	res, found := g.results.Get(token)
	if !found {
		return Result{}, ErrUnknownToken
	}
	return res, nil
}

// Close completes every pending action immediately and waits for actions
// that are already running.
func (g *Gate) Close() {
	g.mu.Lock()
	tokens := make([]string, 0, len(g.pending))
	waits := make([]chan struct{}, 0, len(g.pending))
	for t, p := range g.pending {
		tokens = append(tokens, t)
		waits = append(waits, p.done)
	}
	g.mu.Unlock()
	for _, t := range tokens {
		g.Complete(t)
	}
	for _, done := range waits {
		<-done
	}
}
