package domain

// Shift возвращает новую позицию со смещением, текущая не меняется
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}
