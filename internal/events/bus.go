// Package events - шина сигналов приложения.
//
// Доставка без гарантий: Emit никогда не блокирует отправителя, а
// переполненный подписчик теряет сигнал. Подписчики должны сами быть
// устойчивы к дублям и пропускам.
package events

import (
	"log"
	"sync"
	"sync/atomic"
)

// Сигналы, которые шлёт не триггер.
const (
	SidecarReady      = "sidecar-ready"
	SidecarTerminated = "sidecar-terminated"
	ListenerUp        = "trigger:available"
	ListenerDown      = "trigger:unavailable"
)

// Bus рассылает сигналы подписчикам.
type Bus struct {
	mu      sync.RWMutex
	subs    map[*Subscription]struct{}
	dropped atomic.Int64
}

// NewBus создаёт шину.
func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// Subscription - канал сигналов одного подписчика.
type Subscription struct {
	bus  *Bus
	ch   chan string
	once sync.Once
}

// Subscribe создаёт подписку с буфером buffer.
func (b *Bus) Subscribe(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	s := &Subscription{bus: b, ch: make(chan string, buffer)}

	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()
	return s
}

// C возвращает канал сигналов. Закрывается при Close.
func (s *Subscription) C() <-chan string {
	return s.ch
}

// Close отписывает и закрывает канал. Безопасно вызывать повторно.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s)
		close(s.ch)
		s.bus.mu.Unlock()
	})
}

// Emit отправляет сигнал всем подписчикам без ожидания.
func (b *Bus) Emit(name string) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for s := range b.subs {
		select {
		case s.ch <- name:
		default:
			b.dropped.Add(1)
			log.Printf("Сигнал %s потерян: подписчик не успевает", name)
		}
	}
}

// Handle вызывает fn для каждого сигнала в отдельной горутине подписки.
// Возвращает подписку, чтобы её можно было закрыть.
func (b *Bus) Handle(fn func(name string)) *Subscription {
	s := b.Subscribe(16)
	go func() {
		for name := range s.C() {
			fn(name)
		}
	}()
	return s
}

// Dropped возвращает число потерянных доставок.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}
