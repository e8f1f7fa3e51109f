package trigger

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeListener struct {
	enables atomic.Int32
	pumps   atomic.Int32
	closed  atomic.Bool
	results chan PumpResult
}

func (l *fakeListener) Enable() { l.enables.Add(1) }

func (l *fakeListener) Pump(time.Duration) (PumpResult, error) {
	l.pumps.Add(1)
	select {
	case res := <-l.results:
		return res, nil
	case <-time.After(time.Millisecond):
		return PumpTimedOut, nil
	}
}

func (l *fakeListener) Close() { l.closed.Store(true) }

type fakeInstaller struct {
	mu        sync.Mutex
	failFirst int
	calls     int
	listeners []*fakeListener
	installed chan *fakeListener
}

func newFakeInstaller(failFirst int) *fakeInstaller {
	return &fakeInstaller{failFirst: failFirst, installed: make(chan *fakeListener, 16)}
}

func (i *fakeInstaller) Install(h Handler) (Listener, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.calls++
	if i.calls <= i.failFirst {
		return nil, ErrTapCreate
	}
	l := &fakeListener{results: make(chan PumpResult, 1)}
	i.listeners = append(i.listeners, l)
	i.installed <- l
	return l, nil
}

func (i *fakeInstaller) Calls() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.calls
}

type recordSleep struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *recordSleep) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.waits = append(s.waits, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *recordSleep) Waits() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.waits...)
}

func startSupervisor(t *testing.T, inst Installer, opts ...SupervisorOption) (*Supervisor, context.CancelFunc, <-chan error) {
	t.Helper()
	handler := func(Event) Outcome { return OutcomeIgnored }
	s := NewSupervisor(inst, handler, append([]SupervisorOption{WithThreadLock(false)}, opts...)...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	return s, cancel, done
}

func waitInstalled(t *testing.T, inst *fakeInstaller) *fakeListener {
	t.Helper()
	select {
	case l := <-inst.installed:
		return l
	case <-time.After(2 * time.Second):
		t.Fatal("listener was not installed")
	}
	return nil
}

func TestSupervisor_ScenarioD_RetriesWithBackoff(t *testing.T) {
	inst := newFakeInstaller(3)
	sleeper := &recordSleep{}
	s, cancel, done := startSupervisor(t, inst, WithSleep(sleeper.sleep), WithBackoff(2*time.Second))

	l := waitInstalled(t, inst)

	waits := sleeper.Waits()
	if len(waits) != 3 {
		t.Fatalf("expected 3 backoff waits, got %d", len(waits))
	}
	for _, w := range waits {
		if w != 2*time.Second {
			t.Errorf("expected 2s backoff, got %s", w)
		}
	}
	if inst.Calls() != 4 {
		t.Errorf("expected 4 install attempts, got %d", inst.Calls())
	}
	if !errors.Is(s.LastError(), ErrTapCreate) {
		t.Errorf("expected last error ErrTapCreate, got %v", s.LastError())
	}

	// Слушатель работает: кванты идут, после каждого включение
	deadline := time.Now().Add(time.Second)
	for l.pumps.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if !s.Healthy() {
		t.Error("expected supervisor to be healthy after successful install")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if !l.closed.Load() {
		t.Error("listener must be closed when the attempt ends")
	}
	if s.Failures() != 3 {
		t.Errorf("expected 3 failures, got %d", s.Failures())
	}
}

func TestSupervisor_ReenablesAfterEveryQuantum(t *testing.T) {
	inst := newFakeInstaller(0)
	_, cancel, done := startSupervisor(t, inst, WithQuantum(time.Millisecond))
	l := waitInstalled(t, inst)

	deadline := time.Now().Add(time.Second)
	for l.pumps.Load() < 5 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done

	// Одно включение при установке плюс одно после каждого кванта
	if got, pumps := l.enables.Load(), l.pumps.Load(); got != pumps+1 {
		t.Errorf("expected %d enables, got %d", pumps+1, got)
	}
}

func TestSupervisor_RunLoopFinishedReinstalls(t *testing.T) {
	inst := newFakeInstaller(0)
	sleeper := &recordSleep{}
	s, cancel, done := startSupervisor(t, inst, WithSleep(sleeper.sleep))

	first := waitInstalled(t, inst)
	first.results <- PumpFinished

	second := waitInstalled(t, inst)
	if second == first {
		t.Fatal("expected a fresh listener after run loop finished")
	}
	if !first.closed.Load() {
		t.Error("finished listener must be closed")
	}
	if !errors.Is(s.LastError(), ErrRunLoopFinished) {
		t.Errorf("expected ErrRunLoopFinished, got %v", s.LastError())
	}
	if len(sleeper.Waits()) != 1 {
		t.Errorf("expected one backoff wait, got %d", len(sleeper.Waits()))
	}

	cancel()
	<-done
}

func TestSupervisor_ReinstallSkipsBackoff(t *testing.T) {
	inst := newFakeInstaller(0)
	sleeper := &recordSleep{}
	s, cancel, done := startSupervisor(t, inst, WithSleep(sleeper.sleep))

	waitInstalled(t, inst)
	s.Reinstall()
	waitInstalled(t, inst)

	if len(sleeper.Waits()) != 0 {
		t.Errorf("reinstall must not wait, got %v", sleeper.Waits())
	}
	if s.Failures() != 0 {
		t.Errorf("reinstall is not a failure, got %d", s.Failures())
	}

	cancel()
	<-done
}

func TestSupervisor_HealthCallback(t *testing.T) {
	inst := newFakeInstaller(1)
	var mu sync.Mutex
	var states []bool
	onHealth := WithHealthChange(func(h bool) {
		mu.Lock()
		states = append(states, h)
		mu.Unlock()
	})

	_, cancel, done := startSupervisor(t, inst, WithSleep((&recordSleep{}).sleep), onHealth)
	waitInstalled(t, inst)
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(states) != 2 || !states[0] || states[1] {
		t.Errorf("expected [true false], got %v", states)
	}
}

func TestSupervisor_ReinstallDuringFailuresDoesNotTearDownNextListener(t *testing.T) {
	inst := newFakeInstaller(2)
	inBackoff := make(chan struct{}, 4)
	release := make(chan struct{})
	var once sync.Once
	sleep := func(ctx context.Context, _ time.Duration) error {
		first := false
		once.Do(func() { first = true })
		if first {
			inBackoff <- struct{}{}
			select {
			case <-release:
			case <-ctx.Done():
			}
		}
		return ctx.Err()
	}

	s, cancel, done := startSupervisor(t, inst, WithSleep(sleep), WithQuantum(time.Millisecond))

	select {
	case <-inBackoff:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not back off")
	}
	// Запрос переустановки приходит, пока установка не удаётся
	s.Reinstall()
	close(release)

	l := waitInstalled(t, inst)
	deadline := time.Now().Add(time.Second)
	for l.pumps.Load() < 10 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if l.closed.Load() {
		t.Error("listener installed after failures must keep running")
	}
	if got := inst.Calls(); got != 3 {
		t.Errorf("expected 3 install attempts, got %d", got)
	}

	cancel()
	<-done
}
