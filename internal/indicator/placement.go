package indicator

import "image"

// bottomMargin - отступ индикатора от нижнего края дисплея (над доком/панелью задач).
const bottomMargin = 80

// Placement возвращает левый верхний угол окна размера size: по центру
// дисплея, на котором находится указатель, у его нижнего края.
// Если указатель вне всех дисплеев, используется первый (основной).
// false означает, что дисплеи неизвестны.
func Placement(pointer image.Point, displays []image.Rectangle, size image.Point) (image.Point, bool) {
	if len(displays) == 0 {
		return image.Point{}, false
	}

	d := displays[0]
	for _, r := range displays {
		if pointer.In(r) {
			d = r
			break
		}
	}

	x := d.Min.X + (d.Dx()-size.X)/2
	y := d.Max.Y - size.Y - bottomMargin

	// Окно больше дисплея: прижимаем к левому верхнему углу
	if x < d.Min.X {
		x = d.Min.X
	}
	if y < d.Min.Y {
		y = d.Min.Y
	}
	return image.Pt(x, y), true
}
