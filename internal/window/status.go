package window

import (
	"spaceduck/internal/i18n"
	"spaceduck/internal/trigger"
)

// ServerState - состояние фонового сервера диктовки.
type ServerState int

const (
	ServerStarting ServerState = iota
	ServerReady
	ServerStopped
)

// Status - то, что показывает главное окно.
type Status struct {
	Key       string
	Mode      trigger.Mode
	Available bool
	Server    ServerState
}

// Headline возвращает главную строку статуса.
func (s Status) Headline() string {
	if !s.Available {
		return i18n.T("window_unavailable")
	}
	switch s.Mode {
	case trigger.ModeChat:
		return i18n.T("window_chat")
	case trigger.ModeGlobal:
		return i18n.T("window_global")
	default:
		return i18n.Tf("window_idle", s.Key)
	}
}

// ServerLine возвращает строку о состоянии сервера.
func (s Status) ServerLine() string {
	switch s.Server {
	case ServerReady:
		return i18n.T("window_server_up")
	case ServerStopped:
		return i18n.T("window_server_down")
	default:
		return i18n.T("window_server_wait")
	}
}
