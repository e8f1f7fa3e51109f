package sidecar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime"
	"sync"
	"testing"
	"time"

	"spaceduck/internal/events"
)

type recordSink struct {
	mu      sync.Mutex
	signals []string
}

func (s *recordSink) Emit(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signals = append(s.signals, name)
}

func (s *recordSink) Signals() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.signals...)
}

func TestWaitReady_ServerUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if !WaitReady(context.Background(), srv.URL, 10*time.Millisecond, time.Second) {
		t.Error("any HTTP response must count as ready")
	}
}

func TestWaitReady_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	start := time.Now()
	if WaitReady(context.Background(), url, 10*time.Millisecond, 100*time.Millisecond) {
		t.Fatal("expected not ready for closed server")
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("returned before max wait: %s", elapsed)
	}
}

func TestWaitReady_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if WaitReady(ctx, "http://127.0.0.1:1", 10*time.Millisecond, time.Minute) {
		t.Error("expected false for cancelled context")
	}
}

func TestWaiter_EmitsReadyAndOpens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	sink := &recordSink{}
	var opened string
	w := Waiter{
		URL:    srv.URL,
		Poll:   10 * time.Millisecond,
		Max:    time.Second,
		OpenUI: true,
		Sink:   sink,
		Open: func(input string) error {
			opened = input
			return nil
		},
	}

	if !w.Run(context.Background()) {
		t.Fatal("expected ready")
	}
	if got := sink.Signals(); len(got) != 1 || got[0] != events.SidecarReady {
		t.Errorf("expected sidecar-ready, got %v", got)
	}
	if opened != srv.URL {
		t.Errorf("expected %s opened, got %q", srv.URL, opened)
	}
}

func TestProcess_EmitsTerminated(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	sink := &recordSink{}
	p := Process{Path: "sh", Args: []string{"-c", "echo hello; echo oops 1>&2; exit 3"}, Sink: sink}

	h, err := p.Start(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit")
	}

	if h.Err() == nil {
		t.Error("expected exit error for status 3")
	}
	if got := sink.Signals(); len(got) != 1 || got[0] != events.SidecarTerminated {
		t.Errorf("expected sidecar-terminated, got %v", got)
	}
}

func TestProcess_StopKills(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sleep")
	}

	h, err := Process{Path: "sleep", Args: []string{"30"}}.Start(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done := make(chan struct{})
	go func() {
		h.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestProcess_EmptyPath(t *testing.T) {
	if _, err := (Process{}).Start(context.Background()); err == nil {
		t.Error("expected error for empty path")
	}
}
