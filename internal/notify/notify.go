// Package notify предоставляет системные уведомления.
package notify

import (
	"sync/atomic"

	"github.com/gen2brain/beeep"

	"spaceduck/internal/events"
	"spaceduck/internal/i18n"
	"spaceduck/internal/trigger"
)

// Notifier отправляет системные уведомления.
type Notifier struct {
	enabled atomic.Bool
	send    func(title, message, icon string) error
}

// New создаёт новый Notifier.
func New(enabled bool) *Notifier {
	n := &Notifier{send: func(title, message, icon string) error {
		return beeep.Notify(title, message, icon)
	}}
	n.enabled.Store(enabled)
	return n
}

// SetEnabled включает/выключает уведомления.
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled.Store(enabled)
}

// Signal показывает уведомление для сигнала шины, если оно ему положено.
func (n *Notifier) Signal(name string) {
	switch name {
	case trigger.SignalStartChat:
		n.notify(i18n.T("notify_start_chat"), i18n.T("notify_start_hint"))
	case trigger.SignalStartGlobal:
		n.notify(i18n.T("notify_start_global"), i18n.T("notify_start_hint"))
	case events.ListenerDown:
		n.notify(i18n.T("notify_unavailable"), i18n.T("notify_unavailable_hint"))
	case events.SidecarTerminated:
		// Остановка сервера важнее настройки уведомлений
		n.force(i18n.T("notify_sidecar_terminated"), i18n.T("notify_sidecar_hint"))
	case events.SidecarReady:
		n.notify("", i18n.T("notify_ready"))
	}
}

func (n *Notifier) notify(title, message string) {
	if !n.enabled.Load() {
		return
	}
	n.force(title, message)
}

func (n *Notifier) force(title, message string) {
	appName := i18n.T("app_name")
	// Игнорируем ошибки уведомлений - они не критичны
	if title != "" {
		_ = n.send(appName+": "+title, message, "")
	} else {
		_ = n.send(appName, message, "")
	}
}
