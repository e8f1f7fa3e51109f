package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"log"
	"sync"
)

var (
	iconsOnce sync.Once
	icons     map[State][]byte
)

var iconColors = map[State]color.RGBA{
	StateIdle:        {128, 128, 128, 255}, // Серый
	StateChat:        {60, 140, 230, 255},  // Синий
	StateGlobal:      {220, 50, 50, 255},   // Красный
	StateUnavailable: {230, 160, 50, 255},  // Оранжевый
}

// Icon возвращает PNG иконки для состояния.
func Icon(state State) []byte {
	iconsOnce.Do(func() {
		icons = make(map[State][]byte, len(iconColors))
		for s, c := range iconColors {
			data, err := renderIcon(c)
			if err != nil {
				log.Printf("Ошибка генерации иконки: %v", err)
				continue
			}
			icons[s] = data
		}
	})
	return icons[state]
}

// renderIcon рисует микрофон (круг с ножкой) цветом c.
func renderIcon(c color.RGBA) ([]byte, error) {
	const size = 64
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	centerX, centerY := size/2, size/2-4
	radius := 20.0

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x - centerX)
			dy := float64(y - centerY)
			if dx*dx+dy*dy <= radius*radius {
				img.Set(x, y, c)
			}
		}
	}

	// Ножка микрофона
	for y := centerY + int(radius); y < centerY+int(radius)+10; y++ {
		for x := centerX - 3; x <= centerX+3; x++ {
			if y < size {
				img.Set(x, y, c)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
