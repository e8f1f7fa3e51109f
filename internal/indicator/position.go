package indicator

import (
	"fmt"
	"image"
	"log"
	"time"

	"github.com/go-vgo/robotgo"
)

// Positioner переносит окно индикатора на дисплей под указателем.
type Positioner struct {
	title string
	size  image.Point
	// settle - пауза, чтобы окно успело появиться
	settle time.Duration

	locate func() (image.Point, []image.Rectangle)
	move   func(title string, at image.Point) error
}

// NewPositioner создаёт Positioner для окна с заголовком title.
func NewPositioner(title string, size image.Point) *Positioner {
	return &Positioner{
		title:  title,
		size:   size,
		settle: 100 * time.Millisecond,
		locate: screenLayout,
		move:   moveWindow,
	}
}

// Reposition переносит окно в фоне и сразу возвращает управление.
// Ошибки только логируются.
func (p *Positioner) Reposition() {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Ошибка позиционирования индикатора: %v", r)
			}
		}()

		time.Sleep(p.settle)
		if err := p.apply(); err != nil {
			log.Printf("Индикатор не перемещён: %v", err)
		}
	}()
}

func (p *Positioner) apply() error {
	pointer, displays := p.locate()
	at, ok := Placement(pointer, displays, p.size)
	if !ok {
		return fmt.Errorf("дисплеи не найдены")
	}
	return p.move(p.title, at)
}

// screenLayout возвращает положение указателя и границы дисплеев.
func screenLayout() (image.Point, []image.Rectangle) {
	x, y := robotgo.Location()

	n := robotgo.DisplaysNum()
	displays := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		dx, dy, dw, dh := robotgo.GetDisplayBounds(i)
		displays = append(displays, image.Rect(dx, dy, dx+dw, dy+dh))
	}
	return image.Pt(x, y), displays
}
