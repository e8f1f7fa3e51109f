//go:build !linux

package indicator

import (
	"image"
	"log"
)

// moveWindow only records the target: gio has no window position option here.
func moveWindow(title string, at image.Point) error {
	log.Printf("Индикатор %q: позиция %d,%d", title, at.X, at.Y)
	return nil
}
