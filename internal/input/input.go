// Package input предоставляет ввод текста в активное поле.
package input

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/go-vgo/robotgo"
)

// Typer вводит текст в активное поле ввода.
type Typer interface {
	// Type вводит текст в текущее активное поле.
	Type(text string) error
}

// Paster вставляет текст через буфер обмена, а если не вышло - печатает его.
type Paster struct {
	writeClipboard func(text string) error
	tapPaste       func() error
	fallback       Typer
	// settle - пауза, чтобы буфер обмена обновился до нажатия вставки
	settle time.Duration
}

// NewPaster создаёт Paster для текущей платформы.
func NewPaster() *Paster {
	return &Paster{
		writeClipboard: writeClipboard,
		tapPaste:       tapPaste,
		fallback:       newTyper(),
		settle:         50 * time.Millisecond,
	}
}

// Paste вставляет text в активное приложение.
func (p *Paster) Paste(text string) error {
	if text == "" {
		return nil
	}

	if err := p.viaClipboard(text); err != nil {
		log.Printf("Вставка через буфер обмена не удалась: %v, печатаю текст", err)
		if err := p.fallback.Type(text); err != nil {
			return fmt.Errorf("ввод текста: %w", err)
		}
	}
	return nil
}

func (p *Paster) viaClipboard(text string) error {
	if err := p.writeClipboard(text); err != nil {
		return fmt.Errorf("буфер обмена: %w", err)
	}
	time.Sleep(p.settle)
	if err := p.tapPaste(); err != nil {
		return fmt.Errorf("нажатие вставки: %w", err)
	}
	return nil
}

// pasteModifier возвращает модификатор сочетания вставки.
func pasteModifier() string {
	if runtime.GOOS == "darwin" {
		return "cmd"
	}
	return "ctrl"
}

func tapPaste() error {
	return robotgo.KeyTap("v", pasteModifier())
}

type robotgoTyper struct{}

func (robotgoTyper) Type(text string) error {
	robotgo.TypeStr(text)
	return nil
}
