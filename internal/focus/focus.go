// Package focus отвечает на вопрос, в фокусе ли главное окно приложения.
//
// Любая ошибка определения фокуса означает "не в фокусе": путь триггера
// не должен падать или зависать из-за окна.
package focus

import (
	"log"
	"sync"
)

// Probe - запрос фокуса главного окна.
type Probe interface {
	Focused() bool
}

// Func адаптирует функцию к Probe.
type Func func() bool

// Focused вызывает функцию.
func (f Func) Focused() bool {
	return f()
}

// Tracker - собственный реестр окон приложения: окна сами сообщают о
// получении и потере фокуса.
type Tracker struct {
	mu      sync.RWMutex
	focused map[string]bool
}

// NewTracker создаёт пустой реестр.
func NewTracker() *Tracker {
	return &Tracker{focused: make(map[string]bool)}
}

// SetFocused обновляет флаг фокуса окна title.
func (t *Tracker) SetFocused(title string, focused bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.focused[title] = focused
}

// Focused возвращает флаг фокуса окна title. Неизвестное окно не в фокусе.
func (t *Tracker) Focused(title string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.focused[title]
}

// Probe возвращает Probe для окна title.
func (t *Tracker) Probe(title string) Probe {
	return Func(func() bool {
		return t.Focused(title)
	})
}

// Any возвращает Probe, который в фокусе, если в фокусе хотя бы один из probes.
func Any(probes ...Probe) Probe {
	return Func(func() bool {
		for _, p := range probes {
			if Safe(p).Focused() {
				return true
			}
		}
		return false
	})
}

// Safe оборачивает probe: nil и panic превращаются в false.
func Safe(p Probe) Probe {
	return Func(func() (ok bool) {
		if p == nil {
			return false
		}
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Ошибка определения фокуса: %v", r)
				ok = false
			}
		}()
		return p.Focused()
	})
}
