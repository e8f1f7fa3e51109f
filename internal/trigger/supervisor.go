package trigger

import (
	"context"
	"errors"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// DefaultBackoff - пауза между неудачными попытками установки.
	DefaultBackoff = 2 * time.Second
	// DefaultQuantum - сколько крутится цикл событий до принудительного включения.
	DefaultQuantum = 5 * time.Second
)

var (
	// ErrRunLoopFinished - цикл событий завершился полностью, порт считается испорченным.
	ErrRunLoopFinished = errors.New("цикл событий завершился неожиданно")
	// ErrReinstall - запрошена переустановка слушателя (сменились настройки).
	ErrReinstall = errors.New("запрошена переустановка слушателя")
)

// Handler вызывается синхронно в потоке слушателя для каждого события.
type Handler func(Event) Outcome

// PumpResult - итог одного кванта цикла событий.
type PumpResult int

const (
	PumpTimedOut PumpResult = iota // Квант истёк
	PumpHandled                    // Обработан источник
	PumpStopped                    // Цикл остановлен извне
	PumpFinished                   // В цикле не осталось источников
)

// Listener - один живой системный слушатель. Принадлежит одной попытке
// установки и никогда не используется повторно.
type Listener interface {
	// Enable включает слушатель (безопасно вызывать повторно).
	Enable()
	// Pump крутит цикл событий текущего потока не дольше quantum.
	Pump(quantum time.Duration) (PumpResult, error)
	// Close освобождает системные ресурсы.
	Close()
}

// Installer создаёт слушатель и регистрирует его в цикле событий текущего потока.
type Installer interface {
	Install(h Handler) (Listener, error)
}

// Supervisor держит слушатель живым всё время работы процесса.
type Supervisor struct {
	installer  Installer
	handler    Handler
	backoff    time.Duration
	quantum    time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
	lockThread bool
	onHealth   func(healthy bool)

	attempts  atomic.Int64
	failures  atomic.Int64
	healthy   atomic.Bool
	reinstall atomic.Bool

	mu      sync.Mutex
	lastErr error
}

// SupervisorOption настраивает Supervisor.
type SupervisorOption func(*Supervisor)

// WithBackoff задаёт паузу между попытками.
func WithBackoff(d time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		if d > 0 {
			s.backoff = d
		}
	}
}

// WithQuantum задаёт длительность одного кванта цикла событий.
func WithQuantum(d time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		if d > 0 {
			s.quantum = d
		}
	}
}

// WithSleep подменяет ожидание между попытками (для тестов).
func WithSleep(fn func(ctx context.Context, d time.Duration) error) SupervisorOption {
	return func(s *Supervisor) {
		s.sleep = fn
	}
}

// WithThreadLock управляет привязкой попытки к потоку ОС (по умолчанию включена).
func WithThreadLock(lock bool) SupervisorOption {
	return func(s *Supervisor) {
		s.lockThread = lock
	}
}

// WithHealthChange задаёт callback смены состояния слушателя.
func WithHealthChange(fn func(healthy bool)) SupervisorOption {
	return func(s *Supervisor) {
		s.onHealth = fn
	}
}

// NewSupervisor создаёт супервизор для installer и handler.
func NewSupervisor(installer Installer, handler Handler, opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		installer:  installer,
		handler:    handler,
		backoff:    DefaultBackoff,
		quantum:    DefaultQuantum,
		sleep:      sleepContext,
		lockThread: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run устанавливает слушатель и переустанавливает его после любых сбоев.
// Число попыток не ограничено: разрешение можно выдать позже.
// Возвращается только при отмене ctx.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		err := s.runOnce(ctx)
		if ctx.Err() != nil {
			s.setHealthy(false)
			return ctx.Err()
		}

		if errors.Is(err, ErrReinstall) {
			log.Printf("Переустановка слушателя по запросу")
			continue
		}
		if err == nil {
			err = ErrRunLoopFinished
		}

		s.failures.Add(1)
		s.setError(err)
		s.setHealthy(false)
		log.Printf("warn: слушатель остановлен: %v. Переустановка через %s", err, s.backoff)

		if err := s.sleep(ctx, s.backoff); err != nil {
			return err
		}
	}
}

// runOnce выполняет одну попытку: установка, включение и цикл с квантами.
func (s *Supervisor) runOnce(ctx context.Context) error {
	if s.lockThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	// Новая установка уже применяет текущие настройки
	s.reinstall.Store(false)

	s.attempts.Add(1)
	l, err := s.installer.Install(s.handler)
	if err != nil {
		return err
	}
	defer l.Close()

	l.Enable()
	s.setHealthy(true)
	log.Printf("Слушатель клавиши-триггера установлен")

	for {
		res, err := l.Pump(s.quantum)
		// Система может отключить слушатель молча, поэтому включаем после каждого кванта
		l.Enable()
		if err != nil {
			return err
		}
		if res == PumpFinished {
			return ErrRunLoopFinished
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if s.reinstall.CompareAndSwap(true, false) {
			return ErrReinstall
		}
	}
}

// Reinstall запрашивает новую установку слушателя на границе кванта.
func (s *Supervisor) Reinstall() {
	s.reinstall.Store(true)
}

// Attempts возвращает число попыток установки.
func (s *Supervisor) Attempts() int64 {
	return s.attempts.Load()
}

// Failures возвращает число неудачных попыток.
func (s *Supervisor) Failures() int64 {
	return s.failures.Load()
}

// Healthy возвращает true, пока установленный слушатель работает.
func (s *Supervisor) Healthy() bool {
	return s.healthy.Load()
}

// LastError возвращает причину последнего сбоя.
func (s *Supervisor) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Supervisor) setError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *Supervisor) setHealthy(healthy bool) {
	if s.healthy.Swap(healthy) != healthy && s.onHealth != nil {
		s.onHealth(healthy)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
