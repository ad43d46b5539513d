package systems

import (
	"nuggets-server/internal/domain"
)

// HasLineOfSight проверяет прямую видимость между двумя точками на живой карте.
//
// Та же строка или столбец: все промежуточные клетки должны быть прозрачны.
// Иначе выполняются оба прохода (по X и по Y). На каждом шаге берется точка
// на отрезке (дробная часть отбрасывается к нулю) и ее сосед на соседней
// строке/столбце. Взгляд блокирует только пара, где обе клетки непрозрачны.
func HasLineOfSight(live []byte, w, h int, from, to domain.Position) bool {
	if from == to {
		return true
	}

	dx := to.X - from.X
	dy := to.Y - from.Y

	switch {
	case dy == 0:
		step := sign(dx)
		for x := from.X + step; x != to.X; x += step {
			if !transparentAt(live, w, h, x, from.Y) {
				return false
			}
		}
		return true
	case dx == 0:
		step := sign(dy)
		for y := from.Y + step; y != to.Y; y += step {
			if !transparentAt(live, w, h, from.X, y) {
				return false
			}
		}
		return true
	}

	// Проход по X: для каждого промежуточного столбца - строка на отрезке
	stepX := sign(dx)
	for i := stepX; i != dx; i += stepX {
		x := from.X + i
		y := from.Y + i*dy/dx
		if blockedPair(live, w, h, x, y, x, y+1) {
			return false
		}
	}

	// Проход по Y: для каждой промежуточной строки - столбец на отрезке
	stepY := sign(dy)
	for i := stepY; i != dy; i += stepY {
		y := from.Y + i
		x := from.X + i*dx/dy
		if blockedPair(live, w, h, x, y, x+1, y) {
			return false
		}
	}

	return true
}

// blockedPair - обе клетки пары непрозрачны.
// Клетка за пределами карты не может доказать блокировку.
func blockedPair(live []byte, w, h, x1, y1, x2, y2 int) bool {
	return opaqueAt(live, w, h, x1, y1) && opaqueAt(live, w, h, x2, y2)
}

func opaqueAt(live []byte, w, h, x, y int) bool {
	if x < 0 || y < 0 || x >= w || y >= h {
		return false
	}
	return !domain.IsTransparent(live[y*w+x])
}

// transparentAt - для прямых линий. Промежуточные клетки всегда на карте.
func transparentAt(live []byte, w, h, x, y int) bool {
	if x < 0 || y < 0 || x >= w || y >= h {
		return true
	}
	return domain.IsTransparent(live[y*w+x])
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
