// Package logging дублирует стандартный лог в файл рядом с конфигурацией.
//
// Приложение живёт в трее без консоли, а единственная диагностика отказа
// слушателя (например, нет разрешения Accessibility) - это лог.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// FileName - имя файла лога.
const FileName = "spaceduck.log"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup настраивает формат лога и пишет его в stderr и в dir/spaceduck.log.
// Если файл открыть нельзя, остаётся только stderr, ошибка возвращается для лога.
func Setup(dir string) (io.Closer, error) {
	log.SetFlags(log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stderr)

	if dir == "" {
		return nopCloser{}, nil
	}

	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nopCloser{}, err
	}

	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return f, nil
}
