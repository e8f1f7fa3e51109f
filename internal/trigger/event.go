package trigger

import "strings"

// EventType - сырой тип события слушателя (значения CGEventType).
type EventType uint32

const (
	EventFlagsChanged EventType = 12

	// Служебные события: система отключила слушатель.
	EventTapDisabledByTimeout   EventType = 0xFFFFFFFE
	EventTapDisabledByUserInput EventType = 0xFFFFFFFF
)

// Disabled возвращает true для служебных событий отключения.
func (t EventType) Disabled() bool {
	return t == EventTapDisabledByTimeout || t == EventTapDisabledByUserInput
}

// Flags - битовая маска модификаторов (значения CGEventFlags).
type Flags uint64

const (
	FlagShift     Flags = 0x00020000
	FlagControl   Flags = 0x00040000
	FlagAlternate Flags = 0x00080000
	FlagCommand   Flags = 0x00100000
	FlagFn        Flags = 0x00800000 // kCGEventFlagMaskSecondaryFn
)

var keyFlags = map[string]Flags{
	"fn":    FlagFn,
	"ctrl":  FlagControl,
	"shift": FlagShift,
	"alt":   FlagAlternate,
	"super": FlagCommand,
}

// KeyFlag возвращает бит модификатора по имени клавиши из конфига.
func KeyFlag(name string) (Flags, bool) {
	f, ok := keyFlags[strings.ToLower(name)]
	return f, ok
}

// Event - одно событие, доставленное слушателем.
type Event struct {
	Type  EventType
	Flags Flags
}

// Outcome - результат обработки события машиной состояний.
type Outcome int

const (
	OutcomeIgnored  Outcome = iota // Нет фронта
	OutcomeDisabled                // Слушатель отключён системой, нужно включить
	OutcomePressed                 // Нижний фронт
	OutcomeReleased                // Верхний фронт
)
