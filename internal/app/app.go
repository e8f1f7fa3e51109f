// Package app содержит основную логику приложения.
package app

import (
	"context"
	"io"
	"log"
	"sync"

	"github.com/skratchdot/open-golang/open"

	"spaceduck/internal/bridge"
	"spaceduck/internal/config"
	"spaceduck/internal/dialog"
	"spaceduck/internal/events"
	"spaceduck/internal/focus"
	"spaceduck/internal/i18n"
	"spaceduck/internal/indicator"
	"spaceduck/internal/input"
	"spaceduck/internal/logging"
	"spaceduck/internal/notify"
	"spaceduck/internal/sidecar"
	"spaceduck/internal/tray"
	"spaceduck/internal/trigger"
	"spaceduck/internal/window"
)

// keySetter - установщик, которому можно сменить клавишу без пересоздания.
type keySetter interface {
	SetKey(key string)
}

// App представляет главное приложение.
type App struct {
	mu         sync.Mutex
	config     *config.Config
	logs       io.Closer
	bus        *events.Bus
	tracker    *focus.Tracker
	machine    *trigger.Machine
	installer  trigger.Installer
	supervisor *trigger.Supervisor
	hub        *bridge.Hub
	notifier   *notify.Notifier
	tray       *tray.Tray
	window     *window.Window
	indicator  *indicator.Window
	sidecar    *sidecar.Handle
	signals    *events.Subscription

	ctx    context.Context
	cancel context.CancelFunc
}

// New создаёт новое приложение.
func New() (*App, error) {
	cfg := config.New()

	logs, err := logging.Setup(cfg.Dir())
	if err != nil {
		log.Printf("Лог пишется только в stderr: %v", err)
	}

	// Инициализируем язык интерфейса из конфига
	if uiLang := cfg.UILanguage(); uiLang != "" {
		i18n.SetLanguage(i18n.Language(uiLang))
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		config:    cfg,
		logs:      logs,
		bus:       events.NewBus(),
		tracker:   focus.NewTracker(),
		notifier:  notify.New(cfg.NotificationsEnabled()),
		indicator: indicator.New(indicator.DefaultConfig()),
		ctx:       ctx,
		cancel:    cancel,
	}

	title := cfg.WindowTitle()
	probe := focus.Any(focus.KeyWindow(title), a.tracker.Probe(title))

	a.machine = trigger.NewMachine(
		trigger.NewState(),
		triggerMask(cfg.TriggerSource(), cfg.TriggerKey()),
		probe,
		a.bus,
		trigger.WithModeEntry(a.indicator.Reposition),
	)

	if cfg.TriggerSource() == config.SourceCombo {
		a.installer = trigger.NewComboInstaller(cfg.Hotkey(), a.machine)
	} else {
		a.installer = trigger.NewPlatformInstaller(cfg.TriggerKey(), a.machine)
	}

	a.supervisor = trigger.NewSupervisor(a.installer, a.machine.Handle,
		trigger.WithBackoff(cfg.Backoff()),
		trigger.WithQuantum(cfg.PumpQuantum()),
		trigger.WithHealthChange(func(healthy bool) {
			if healthy {
				a.bus.Emit(events.ListenerUp)
			} else {
				a.bus.Emit(events.ListenerDown)
			}
		}),
	)

	a.hub = bridge.NewHub(cfg.BridgeAddr(), input.NewPaster())

	a.window = window.New(title, a.tracker, a.openChat)
	a.window.Update(func(s *window.Status) {
		s.Key = a.triggerLabel()
	})

	a.tray = tray.New(tray.Callbacks{
		TriggerLabel:   a.trayTriggerLabel,
		OnTriggerClick: a.selectTrigger,
		OnOpenChat:     a.openChat,
		OnNotificationsToggle: func() bool {
			enabled := a.config.ToggleNotifications()
			a.notifier.SetEnabled(enabled)
			return enabled
		},
		OnLanguage: func(lang i18n.Language) {
			a.config.SetUILanguage(string(lang))
		},
		OnQuit: a.Close,
	}, cfg.NotificationsEnabled())

	a.signals = a.bus.Handle(a.onSignal)

	return a, nil
}

// triggerMask возвращает бит флагов для клавиши key. Источник combo сам
// выставляет этот бит, поэтому ему подходит любой известный.
func triggerMask(source, key string) trigger.Flags {
	if flag, ok := trigger.KeyFlag(key); ok {
		return flag
	}
	if source == config.SourceCombo {
		return trigger.FlagFn
	}
	log.Printf("warn: неизвестная клавиша-триггер %q", key)
	return 0
}

// Run запускает приложение. Блокирующая функция.
func (a *App) Run() {
	a.tray.Run(func() {
		// production: слушатель живёт до выхода процесса
		go a.supervisor.Run(context.Background())

		go a.hub.Run(a.ctx, a.bus)
		go func() {
			if err := a.hub.ListenAndServe(a.ctx); err != nil {
				log.Printf("Ошибка моста UI: %v", err)
			}
		}()

		go a.startSidecar()

		a.window.Show()
	})
}

func (a *App) startSidecar() {
	sc := a.config.Sidecar()

	if sc.Path != "" {
		h, err := sidecar.Process{Path: sc.Path, Args: sc.Args, Sink: a.bus}.Start(a.ctx)
		if err != nil {
			log.Printf("Ошибка запуска фонового процесса: %v", err)
			a.bus.Emit(events.SidecarTerminated)
			return
		}
		a.mu.Lock()
		a.sidecar = h
		a.mu.Unlock()
	} else {
		log.Printf("Фоновый процесс не задан, жду внешний сервер %s", sc.ServerURL)
	}

	sidecar.Waiter{
		URL:    sc.ServerURL,
		Poll:   sc.PollInterval.Std(),
		Max:    sc.MaxWait.Std(),
		OpenUI: sc.OpenUI,
		Sink:   a.bus,
	}.Run(a.ctx)
}

// onSignal обновляет трей, окна и уведомления по сигналам шины.
func (a *App) onSignal(name string) {
	log.Printf("Сигнал: %s", name)
	a.notifier.Signal(name)

	switch name {
	case trigger.SignalStartChat:
		a.tray.SetState(tray.StateChat)
		a.window.Update(func(s *window.Status) { s.Mode = trigger.ModeChat })
	case trigger.SignalStartGlobal:
		a.tray.SetState(tray.StateGlobal)
		a.window.Update(func(s *window.Status) { s.Mode = trigger.ModeGlobal })
		a.indicator.Show()
	case trigger.SignalStopChat, trigger.SignalStopGlobal:
		a.tray.SetState(tray.StateIdle)
		a.window.Update(func(s *window.Status) { s.Mode = trigger.ModeIdle })
		a.indicator.Hide()
	case events.ListenerDown:
		a.tray.SetState(tray.StateUnavailable)
		a.window.Update(func(s *window.Status) { s.Available = false })
	case events.ListenerUp:
		a.tray.SetState(trayState(a.machine.State().Mode()))
		a.window.Update(func(s *window.Status) { s.Available = true })
	case events.SidecarReady:
		a.window.Update(func(s *window.Status) { s.Server = window.ServerReady })
	case events.SidecarTerminated:
		a.window.Update(func(s *window.Status) { s.Server = window.ServerStopped })
	}
}

// trayState возвращает состояние трея для режима диктовки.
func trayState(m trigger.Mode) tray.State {
	switch m {
	case trigger.ModeChat:
		return tray.StateChat
	case trigger.ModeGlobal:
		return tray.StateGlobal
	default:
		return tray.StateIdle
	}
}

func (a *App) openChat() {
	url := a.config.Sidecar().ServerURL
	if err := open.Run(url); err != nil {
		log.Printf("Не удалось открыть %s: %v", url, err)
	}
}

func (a *App) triggerLabel() string {
	if a.config.TriggerSource() == config.SourceCombo {
		return a.config.Hotkey().String()
	}
	return dialog.TriggerKeyLabel(a.config.TriggerKey())
}

func (a *App) trayTriggerLabel() string {
	if a.config.TriggerSource() == config.SourceCombo {
		return i18n.Tf("tray_hotkey", a.triggerLabel())
	}
	return i18n.Tf("tray_trigger_key", a.triggerLabel())
}

// selectTrigger спрашивает новую клавишу и переустанавливает слушатель.
func (a *App) selectTrigger() {
	if a.config.TriggerSource() == config.SourceCombo {
		combo, ok := a.installer.(*trigger.ComboInstaller)
		if !ok {
			return
		}
		hk, err := dialog.SelectHotkey(a.config.Hotkey())
		if err != nil {
			log.Printf("Выбор комбинации отменён: %v", err)
			return
		}
		a.config.SetHotkey(hk)
		combo.SetCombo(hk)
	} else {
		key, err := dialog.SelectTriggerKey(a.config.TriggerKey(), config.TriggerKeys())
		if err != nil {
			log.Printf("Выбор клавиши отменён: %v", err)
			return
		}
		flag, ok := trigger.KeyFlag(key)
		if !ok {
			dialog.ShowError(key)
			return
		}
		a.config.SetTriggerKey(key)
		a.machine.SetMask(flag)
		if ks, ok := a.installer.(keySetter); ok {
			ks.SetKey(key)
		}
	}

	log.Printf("Клавиша-триггер: %s", a.triggerLabel())
	a.window.Update(func(s *window.Status) { s.Key = a.triggerLabel() })
	a.supervisor.Reinstall()
}

// Close освобождает ресурсы приложения.
func (a *App) Close() {
	a.cancel()

	a.mu.Lock()
	h := a.sidecar
	a.sidecar = nil
	a.mu.Unlock()
	if h != nil {
		h.Stop()
	}

	a.signals.Close()
	a.indicator.Hide()
	a.window.Hide()

	if a.logs != nil {
		a.logs.Close()
	}
}
