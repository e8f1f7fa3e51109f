package trigger

import "errors"

var (
	// ErrTapCreate - система не дала создать слушатель (обычно нет разрешения).
	ErrTapCreate = errors.New("не удалось создать слушатель событий. Выдано ли разрешение Accessibility / Input Monitoring?")
	// ErrSourceCreate - не удалось зарегистрировать слушатель в цикле событий.
	ErrSourceCreate = errors.New("не удалось создать источник run loop")
	// ErrUnsupportedKey - клавиша-триггер недоступна на этой платформе.
	ErrUnsupportedKey = errors.New("клавиша-триггер не поддерживается")
)

// MaskSource отдаёт бит, который слушатель выставляет для синтетических событий.
// Machine реализует этот интерфейс.
type MaskSource interface {
	Mask() Flags
}
