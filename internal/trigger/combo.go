package trigger

import (
	"fmt"
	"log"
	"sync"
	"time"

	"golang.design/x/hotkey"
	"golang.design/x/hotkey/mainthread"

	"spaceduck/internal/config"
)

// ComboInstaller использует обычную горячую клавишу (модификаторы + клавиша)
// вместо одиночного модификатора. Нажатие и отпускание комбинации
// становятся событиями смены флагов для Machine.
type ComboInstaller struct {
	mu    sync.Mutex
	combo config.HotkeyConfig
	mask  MaskSource
}

// NewComboInstaller создаёт установщик для комбинации combo.
func NewComboInstaller(combo config.HotkeyConfig, mask MaskSource) *ComboInstaller {
	return &ComboInstaller{combo: combo, mask: mask}
}

// SetCombo меняет комбинацию. Действует со следующей установки.
func (i *ComboInstaller) SetCombo(combo config.HotkeyConfig) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.combo = combo
}

// Install регистрирует горячую клавишу в системе.
func (i *ComboInstaller) Install(h Handler) (Listener, error) {
	i.mu.Lock()
	combo := i.combo
	i.mu.Unlock()

	// Конвертируем модификаторы
	mods := make([]hotkey.Modifier, 0, len(combo.Modifiers))
	for _, m := range combo.Modifiers {
		if mod, ok := modifierMap[m]; ok {
			mods = append(mods, mod)
		}
	}

	key, ok := keyMap[combo.Key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKey, combo.String())
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return nil, fmt.Errorf("регистрация %s: %w", combo.String(), err)
	}

	log.Printf("Горячая клавиша зарегистрирована: %s", combo.String())
	return &comboListener{
		hk:      hk,
		keydown: hk.Keydown(),
		keyup:   hk.Keyup(),
		mask:    i.mask,
		handler: h,
	}, nil
}

type comboListener struct {
	hk      *hotkey.Hotkey
	keydown <-chan hotkey.Event
	keyup   <-chan hotkey.Event
	mask    MaskSource
	handler Handler
}

// Enable ничего не делает: регистрация не отключается системой.
func (l *comboListener) Enable() {}

func (l *comboListener) Pump(quantum time.Duration) (PumpResult, error) {
	timer := time.NewTimer(quantum)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			return PumpTimedOut, nil
		case _, ok := <-l.keydown:
			if !ok {
				return PumpFinished, nil
			}
			l.handler(Event{Type: EventFlagsChanged, Flags: l.mask.Mask()})
		case _, ok := <-l.keyup:
			if !ok {
				return PumpFinished, nil
			}
			l.handler(Event{Type: EventFlagsChanged})
		}
	}
}

func (l *comboListener) Close() {
	// Отменяем регистрацию с таймаутом, чтобы не зависнуть на главном потоке
	done := make(chan struct{})
	go func() {
		if err := l.hk.Unregister(); err != nil {
			log.Printf("Ошибка отмены регистрации: %v", err)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		log.Printf("Hotkey unregister timeout")
	}
}

// RunOnMainThread запускает функцию в главном потоке (требование для macOS).
func RunOnMainThread(fn func()) {
	mainthread.Init(fn)
}

// modifierMap определён в platform-specific файлах:
// - combo_linux.go
// - combo_darwin.go
// - combo_windows.go

// keyMap маппинг config.Key -> hotkey.Key
var keyMap = map[config.Key]hotkey.Key{
	config.KeySpace:  hotkey.KeySpace,
	config.KeyReturn: hotkey.KeyReturn,
	config.KeyTab:    hotkey.KeyTab,
	config.KeyA:      hotkey.KeyA,
	config.KeyB:      hotkey.KeyB,
	config.KeyC:      hotkey.KeyC,
	config.KeyD:      hotkey.KeyD,
	config.KeyE:      hotkey.KeyE,
	config.KeyF:      hotkey.KeyF,
	config.KeyG:      hotkey.KeyG,
	config.KeyH:      hotkey.KeyH,
	config.KeyI:      hotkey.KeyI,
	config.KeyJ:      hotkey.KeyJ,
	config.KeyK:      hotkey.KeyK,
	config.KeyL:      hotkey.KeyL,
	config.KeyM:      hotkey.KeyM,
	config.KeyN:      hotkey.KeyN,
	config.KeyO:      hotkey.KeyO,
	config.KeyP:      hotkey.KeyP,
	config.KeyQ:      hotkey.KeyQ,
	config.KeyR:      hotkey.KeyR,
	config.KeyS:      hotkey.KeyS,
	config.KeyT:      hotkey.KeyT,
	config.KeyU:      hotkey.KeyU,
	config.KeyV:      hotkey.KeyV,
	config.KeyW:      hotkey.KeyW,
	config.KeyX:      hotkey.KeyX,
	config.KeyY:      hotkey.KeyY,
	config.KeyZ:      hotkey.KeyZ,
	config.KeyF1:     hotkey.KeyF1,
	config.KeyF2:     hotkey.KeyF2,
	config.KeyF3:     hotkey.KeyF3,
	config.KeyF4:     hotkey.KeyF4,
	config.KeyF5:     hotkey.KeyF5,
	config.KeyF6:     hotkey.KeyF6,
	config.KeyF7:     hotkey.KeyF7,
	config.KeyF8:     hotkey.KeyF8,
	config.KeyF9:     hotkey.KeyF9,
	config.KeyF10:    hotkey.KeyF10,
	config.KeyF11:    hotkey.KeyF11,
	config.KeyF12:    hotkey.KeyF12,
}
