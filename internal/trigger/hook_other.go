//go:build !darwin

package trigger

import (
	"fmt"
	"strings"
	"sync"
	"time"

	hook "github.com/robotn/gohook"
)

// hookKeys - имена клавиш gohook для каждой клавиши-триггера (левая и правая).
var hookKeys = map[string][]string{
	"ctrl":  {"ctrl", "rctrl"},
	"shift": {"shift", "rshift"},
	"alt":   {"alt", "ralt"},
	"super": {"cmd", "rcmd"},
}

// HookInstaller слушает сырые события клавиатуры через gohook и превращает
// нажатие/отпускание клавиши-триггера в события смены флагов.
// Слушатель сообщает бит своей клавиши, а не текущую маску Machine: до
// переустановки старый hook не должен запускать диктовку по новой маске.
type HookInstaller struct {
	mu  sync.Mutex
	key string
}

// NewHookInstaller создаёт установщик для клавиши key.
func NewHookInstaller(key string) *HookInstaller {
	return &HookInstaller{key: key}
}

// SetKey меняет клавишу-триггер. Действует со следующей установки.
func (i *HookInstaller) SetKey(key string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.key = key
}

// Install запускает hook. Одновременно живёт только один hook на процесс.
func (i *HookInstaller) Install(h Handler) (Listener, error) {
	i.mu.Lock()
	key := strings.ToLower(i.key)
	i.mu.Unlock()

	flag, ok := KeyFlag(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKey, key)
	}

	codes := make(map[uint16]bool)
	for _, name := range hookKeys[key] {
		if code, ok := hook.Keycode[name]; ok {
			codes[code] = true
		}
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKey, key)
	}

	return &hookListener{
		events:  hook.Start(),
		codes:   codes,
		flag:    flag,
		handler: h,
	}, nil
}

type hookListener struct {
	events  chan hook.Event
	codes   map[uint16]bool
	flag    Flags
	handler Handler
	pressed map[uint16]bool
}

// Enable ничего не делает: gohook не отключается системой.
func (l *hookListener) Enable() {}

func (l *hookListener) Pump(quantum time.Duration) (PumpResult, error) {
	timer := time.NewTimer(quantum)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			return PumpTimedOut, nil
		case ev, ok := <-l.events:
			if !ok || ev.Kind == hook.HookDisabled {
				return PumpFinished, nil
			}
			l.dispatch(ev)
		}
	}
}

func (l *hookListener) dispatch(ev hook.Event) {
	if !l.codes[ev.Keycode] {
		return
	}
	if l.pressed == nil {
		l.pressed = make(map[uint16]bool)
	}

	switch ev.Kind {
	case hook.KeyHold:
		l.pressed[ev.Keycode] = true
	case hook.KeyUp:
		delete(l.pressed, ev.Keycode)
	default:
		return
	}

	var flags Flags
	if len(l.pressed) > 0 {
		flags = l.flag
	}
	l.handler(Event{Type: EventFlagsChanged, Flags: flags})
}

func (l *hookListener) Close() {
	hook.End()
}

// NewPlatformInstaller возвращает установщик по умолчанию для Linux и Windows.
func NewPlatformInstaller(key string, _ MaskSource) Installer {
	return NewHookInstaller(key)
}
