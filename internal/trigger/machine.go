package trigger

import (
	"log"
	"sync/atomic"
)

// Sink принимает сигналы диктовки. Доставка без гарантий, ошибок нет.
type Sink interface {
	Emit(name string)
}

// FocusProbe отвечает, в фокусе ли главное окно приложения.
type FocusProbe interface {
	Focused() bool
}

// Machine превращает фронты одного бита модификатора в пары сигналов start/stop.
type Machine struct {
	state     *State
	mask      atomic.Uint64
	probe     FocusProbe
	sink      Sink
	modeEntry func()
}

// MachineOption настраивает Machine.
type MachineOption func(*Machine)

// WithModeEntry задаёт действие при входе в глобальный режим
// (например, переместить плашку индикатора). Вызывается асинхронно.
func WithModeEntry(fn func()) MachineOption {
	return func(m *Machine) {
		m.modeEntry = fn
	}
}

// NewMachine создаёт машину состояний для бита mask.
func NewMachine(state *State, mask Flags, probe FocusProbe, sink Sink, opts ...MachineOption) *Machine {
	m := &Machine{
		state: state,
		probe: probe,
		sink:  sink,
	}
	m.mask.Store(uint64(mask))
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetMask меняет отслеживаемый бит. Действует со следующего события.
func (m *Machine) SetMask(mask Flags) {
	m.mask.Store(uint64(mask))
}

// Mask возвращает отслеживаемый бит.
func (m *Machine) Mask() Flags {
	return Flags(m.mask.Load())
}

// State возвращает состояние триггера.
func (m *Machine) State() *State {
	return m.state
}

// Handle обрабатывает одно событие слушателя. Исходное событие никогда не
// изменяется: слушатель работает только на чтение.
func (m *Machine) Handle(ev Event) Outcome {
	if ev.Type.Disabled() {
		log.Printf("warn: слушатель отключён системой (type=0x%X), включаем снова", uint32(ev.Type))
		return OutcomeDisabled
	}

	down := ev.Flags&m.Mask() != 0
	switch {
	case down && m.state.Press():
		m.onPress()
		return OutcomePressed
	case !down && m.state.Release():
		m.onRelease()
		return OutcomeReleased
	}
	return OutcomeIgnored
}

func (m *Machine) onPress() {
	// Фокус проверяется только здесь: режим не меняется до отпускания
	if m.focused() {
		m.state.Commit(ModeChat)
		m.emit(SignalStartChat)
		return
	}

	m.state.Commit(ModeGlobal)
	if m.modeEntry != nil {
		go m.runModeEntry()
	}
	m.emit(SignalStartGlobal)
}

func (m *Machine) onRelease() {
	switch m.state.TakeMode() {
	case ModeChat:
		m.emit(SignalStopChat)
	case ModeGlobal:
		m.emit(SignalStopGlobal)
	}
}

func (m *Machine) focused() (ok bool) {
	if m.probe == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Ошибка проверки фокуса: %v", r)
			ok = false
		}
	}()
	return m.probe.Focused()
}

func (m *Machine) runModeEntry() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Ошибка действия при входе в глобальный режим: %v", r)
		}
	}()
	m.modeEntry()
}

func (m *Machine) emit(name string) {
	if m.sink != nil {
		m.sink.Emit(name)
	}
}
