// Package tray предоставляет системный трей с меню.
package tray

import (
	"sync/atomic"

	"github.com/getlantern/systray"

	"spaceduck/internal/i18n"
)

// State представляет состояние приложения для отображения в трее.
type State int

const (
	StateIdle State = iota
	StateChat
	StateGlobal
	StateUnavailable
)

// statusKey возвращает ключ перевода строки статуса.
func (s State) statusKey() string {
	switch s {
	case StateChat:
		return "tray_recording_chat"
	case StateGlobal:
		return "tray_recording_global"
	case StateUnavailable:
		return "tray_unavailable"
	default:
		return "tray_ready"
	}
}

// Callbacks содержит обработчики событий меню.
type Callbacks struct {
	// TriggerLabel возвращает подпись пункта выбора клавиши.
	TriggerLabel          func() string
	OnTriggerClick        func()
	OnOpenChat            func()
	OnNotificationsToggle func() bool
	OnLanguage            func(lang i18n.Language)
	OnQuit                func()
}

// Tray управляет иконкой в системном трее.
type Tray struct {
	callbacks     Callbacks
	notifyEnabled bool
	// state пишется из обработчика сигналов, читается из меню языка
	state atomic.Int32

	status     *systray.MenuItem
	triggerBtn *systray.MenuItem
	openBtn    *systray.MenuItem
	notifyOn   *systray.MenuItem
	langMenu   *systray.MenuItem
	langItems  map[i18n.Language]*systray.MenuItem
	quitBtn    *systray.MenuItem
}

// New создаёт новый Tray.
func New(callbacks Callbacks, notifyEnabled bool) *Tray {
	return &Tray{
		callbacks:     callbacks,
		notifyEnabled: notifyEnabled,
	}
}

// Run запускает системный трей. Блокирующая функция.
func (t *Tray) Run(onReady func()) {
	systray.Run(func() {
		t.onReady()
		if onReady != nil {
			onReady()
		}
	}, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(Icon(StateIdle))
	systray.SetTitle(i18n.T("app_name"))
	systray.SetTooltip(i18n.T("app_tooltip"))

	// Статус
	t.status = systray.AddMenuItem(i18n.T("tray_ready"), "")
	t.status.Disable()

	systray.AddSeparator()

	t.triggerBtn = systray.AddMenuItem(t.triggerLabel(), i18n.T("tray_trigger_key_hint"))
	t.openBtn = systray.AddMenuItem(i18n.T("tray_open_chat"), "")

	// Уведомления
	t.notifyOn = systray.AddMenuItemCheckbox(i18n.T("tray_notifications"), i18n.T("tray_notifications_hint"), t.notifyEnabled)

	// Язык интерфейса
	t.langMenu = systray.AddMenuItem(i18n.T("tray_language"), "")
	t.langItems = make(map[i18n.Language]*systray.MenuItem)
	for _, lang := range i18n.AvailableLanguages() {
		item := t.langMenu.AddSubMenuItemCheckbox(i18n.LanguageName(lang), "", lang == i18n.GetLanguage())
		t.langItems[lang] = item
		go t.handleLanguage(lang, item)
	}

	systray.AddSeparator()

	// Выход
	t.quitBtn = systray.AddMenuItem(i18n.T("tray_quit"), i18n.T("tray_quit_hint"))

	// Обработка событий меню
	go t.handleMenuEvents()
}

func (t *Tray) triggerLabel() string {
	if t.callbacks.TriggerLabel != nil {
		return t.callbacks.TriggerLabel()
	}
	return i18n.T("tray_trigger_key_hint")
}

func (t *Tray) handleMenuEvents() {
	for {
		select {
		case <-t.triggerBtn.ClickedCh:
			if t.callbacks.OnTriggerClick != nil {
				t.callbacks.OnTriggerClick()
			}
			t.triggerBtn.SetTitle(t.triggerLabel())

		case <-t.openBtn.ClickedCh:
			if t.callbacks.OnOpenChat != nil {
				t.callbacks.OnOpenChat()
			}

		// Уведомления
		case <-t.notifyOn.ClickedCh:
			if t.callbacks.OnNotificationsToggle != nil {
				enabled := t.callbacks.OnNotificationsToggle()
				if enabled {
					t.notifyOn.Check()
				} else {
					t.notifyOn.Uncheck()
				}
			}

		// Выход
		case <-t.quitBtn.ClickedCh:
			if t.callbacks.OnQuit != nil {
				t.callbacks.OnQuit()
			}
			systray.Quit()
			return
		}
	}
}

func (t *Tray) handleLanguage(lang i18n.Language, item *systray.MenuItem) {
	for range item.ClickedCh {
		i18n.SetLanguage(lang)
		for l, it := range t.langItems {
			if l == lang {
				it.Check()
			} else {
				it.Uncheck()
			}
		}
		if t.callbacks.OnLanguage != nil {
			t.callbacks.OnLanguage(lang)
		}
		t.RefreshUI()
	}
}

// SetState устанавливает состояние приложения и обновляет иконку.
func (t *Tray) SetState(state State) {
	t.state.Store(int32(state))
	systray.SetIcon(Icon(state))
	systray.SetTooltip(i18n.T("app_name") + " - " + i18n.T(state.statusKey()))
	if t.status != nil {
		t.status.SetTitle(i18n.T(state.statusKey()))
	}
}

// State возвращает текущее состояние.
func (t *Tray) State() State {
	return State(t.state.Load())
}

func (t *Tray) onExit() {
	// Cleanup при выходе
}

// Quit закрывает системный трей.
func (t *Tray) Quit() {
	systray.Quit()
}

// RefreshUI обновляет все тексты меню на текущем языке.
func (t *Tray) RefreshUI() {
	systray.SetTooltip(i18n.T("app_tooltip"))

	if t.status != nil {
		t.status.SetTitle(i18n.T(t.State().statusKey()))
	}
	if t.triggerBtn != nil {
		t.triggerBtn.SetTitle(t.triggerLabel())
		t.triggerBtn.SetTooltip(i18n.T("tray_trigger_key_hint"))
	}
	if t.openBtn != nil {
		t.openBtn.SetTitle(i18n.T("tray_open_chat"))
	}
	if t.notifyOn != nil {
		t.notifyOn.SetTitle(i18n.T("tray_notifications"))
		t.notifyOn.SetTooltip(i18n.T("tray_notifications_hint"))
	}
	if t.langMenu != nil {
		t.langMenu.SetTitle(i18n.T("tray_language"))
	}
	if t.quitBtn != nil {
		t.quitBtn.SetTitle(i18n.T("tray_quit"))
		t.quitBtn.SetTooltip(i18n.T("tray_quit_hint"))
	}
}
