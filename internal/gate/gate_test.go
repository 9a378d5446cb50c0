package gate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGate_CompletesAfterDelay(t *testing.T) {
	g := New(20*time.Millisecond, time.Minute, zap.NewNop())
	ticket := g.Begin("export", func() (any, error) { return "pdf", nil })

	if ticket.ReadyIn != 20*time.Millisecond {
		t.Fatalf("unexpected ReadyIn %v", ticket.ReadyIn)
	}
	if res, ok := g.Result(ticket.Token); !ok || res.Status != StatusPending {
		t.Fatalf("expected pending, got %+v %v", res, ok)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	res, err := g.Wait(ctx, ticket.Token)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if res.Status != StatusReady || res.Value != "pdf" || res.Kind != "export" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestGate_CompleteFiresOnce(t *testing.T) {
	var calls int32
	g := New(time.Hour, time.Minute, nil)
	ticket := g.Begin("send", func() (any, error) {
		atomic.AddInt32(&calls, 1)
		return nil, nil
	})

	var wg sync.WaitGroup
	var wins int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Complete(ticket.Token) {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	if calls != 1 || wins != 1 {
		t.Fatalf("expected exactly one run, got calls=%d wins=%d", calls, wins)
	}
	if g.Complete(ticket.Token) {
		t.Fatalf("second complete should report false")
	}
}

func TestGate_FailedAction(t *testing.T) {
	boom := errors.New("boom")
	g := New(time.Hour, time.Minute, nil)
	ticket := g.Begin("export", func() (any, error) { return nil, boom })
	g.Complete(ticket.Token)

	res, ok := g.Result(ticket.Token)
	if !ok || res.Status != StatusFailed || !errors.Is(res.Err, boom) {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestGate_PanicBecomesFailure(t *testing.T) {
	g := New(time.Hour, time.Minute, nil)
	ticket := g.Begin("export", func() (any, error) { panic("bad raster") })
	if !g.Complete(ticket.Token) {
		t.Fatalf("expected completion")
	}
	res, _ := g.Result(ticket.Token)
	if res.Status != StatusFailed || res.Err == nil {
		t.Fatalf("panic should surface as failure, got %+v", res)
	}
}

func TestGate_ObserverAndLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	var seen []Status
	g := New(time.Hour, time.Minute, zap.New(core),
		WithTokens(func() string { return "tok-1" }),
		WithObserver(func(kind string, s Status) { seen = append(seen, s) }),
	)
	ticket := g.Begin("send", func() (any, error) { return "mailto:x", nil })
	if ticket.Token != "tok-1" {
		t.Fatalf("unexpected token %q", ticket.Token)
	}
	g.Complete(ticket.Token)

	if len(seen) != 1 || seen[0] != StatusReady {
		t.Fatalf("unexpected observations %v", seen)
	}
	if logs.FilterMessage("gated action started").Len() != 1 {
		t.Fatalf("expected start log")
	}
}

func TestGate_WaitUnknownToken(t *testing.T) {
	g := New(time.Hour, time.Minute, nil)
	if _, err := g.Wait(context.Background(), "nope"); !errors.Is(err, ErrUnknownToken) {
		t.Fatalf("expected ErrUnknownToken, got %v", err)
	}
}

func TestGate_WaitHonoursContext(t *testing.T) {
	g := New(time.Hour, time.Minute, nil)
	ticket := g.Begin("export", func() (any, error) { return nil, nil })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Wait(ctx, ticket.Token); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	g.Close()
}

func TestGate_CloseCompletesPending(t *testing.T) {
	var calls int32
	g := New(time.Hour, time.Minute, nil)
	for i := 0; i < 3; i++ {
		g.Begin("export", func() (any, error) {
			atomic.AddInt32(&calls, 1)
			return nil, nil
		})
	}
	g.Close()
	if calls != 3 {
		t.Fatalf("expected 3 runs, got %d", calls)
	}
}

func TestGate_RunningActionStaysPending(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	g := New(time.Millisecond, time.Minute, nil)
	ticket := g.Begin("export", func() (any, error) {
		close(started)
		<-release
		return "pdf", nil
	})

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatalf("action never started")
	}

	res, ok := g.Result(ticket.Token)
	if !ok || res.Status != StatusPending {
		t.Fatalf("running action must report pending, got %+v %v", res, ok)
	}
	if g.Complete(ticket.Token) {
		t.Fatalf("running action must not start again")
	}

	waited := make(chan Result, 1)
	go func() {
		r, err := g.Wait(context.Background(), ticket.Token)
		if err != nil {
			t.Errorf("wait: %v", err)
		}
		waited <- r
	}()

	close(release)
	select {
	case r := <-waited:
		if r.Status != StatusReady || r.Value != "pdf" {
			t.Fatalf("unexpected result %+v", r)
		}
	case <-time.After(time.Second):
		t.Fatalf("wait did not return")
	}
}
