package trigger

import "sync/atomic"

// State хранит состояние клавиши-триггера на всё время жизни процесса.
//
// Колбэк слушателя работает в одном потоке, но поток меняется при
// переустановке, а статус читают и другие горутины (трей, проверки).
// Поэтому все поля атомарные. Инвариант в точках наблюдения:
// Mode() == ModeIdle тогда и только тогда, когда KeyDown() == false.
type State struct {
	keyIsDown  atomic.Bool
	activeMode atomic.Uint32
}

// NewState создаёт состояние в режиме Idle.
func NewState() *State {
	return &State{}
}

// KeyDown возвращает последнее подтверждённое положение клавиши.
func (s *State) KeyDown() bool {
	return s.keyIsDown.Load()
}

// Press фиксирует нижний фронт. Возвращает false, если клавиша уже была нажата.
func (s *State) Press() bool {
	return s.keyIsDown.CompareAndSwap(false, true)
}

// Release фиксирует верхний фронт. Возвращает false, если клавиша уже была отпущена.
func (s *State) Release() bool {
	return s.keyIsDown.CompareAndSwap(true, false)
}

// Commit запоминает режим, выбранный на нижнем фронте.
func (s *State) Commit(m Mode) {
	s.activeMode.Store(uint32(m))
}

// TakeMode читает текущий режим и сбрасывает его в Idle одной операцией.
func (s *State) TakeMode() Mode {
	return Mode(s.activeMode.Swap(uint32(ModeIdle)))
}

// Mode возвращает текущий режим без сброса.
func (s *State) Mode() Mode {
	return Mode(s.activeMode.Load())
}

// Snapshot возвращает оба поля для диагностики.
func (s *State) Snapshot() (keyDown bool, mode Mode) {
	return s.keyIsDown.Load(), s.Mode()
}
