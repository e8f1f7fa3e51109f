package trigger

// Mode - режим диктовки, выбранный в момент нажатия.
type Mode uint32

const (
	ModeIdle   Mode = iota // Клавиша отпущена
	ModeChat               // Главное окно в фокусе
	ModeGlobal             // Фокус у другого приложения
)

// Сигналы, которые получает EventSink.
const (
	SignalStartChat   = "dictation:start-chat"
	SignalStartGlobal = "dictation:start-global"
	SignalStopChat    = "dictation:stop-chat"
	SignalStopGlobal  = "dictation:stop-global"
)

// String возвращает имя режима.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeChat:
		return "chat"
	case ModeGlobal:
		return "global"
	}
	return "unknown"
}

// StartSignal возвращает сигнал начала для режима или "" для Idle.
func (m Mode) StartSignal() string {
	switch m {
	case ModeChat:
		return SignalStartChat
	case ModeGlobal:
		return SignalStartGlobal
	}
	return ""
}

// StopSignal возвращает сигнал остановки для режима или "" для Idle.
func (m Mode) StopSignal() string {
	switch m {
	case ModeChat:
		return SignalStopChat
	case ModeGlobal:
		return SignalStopGlobal
	}
	return ""
}
