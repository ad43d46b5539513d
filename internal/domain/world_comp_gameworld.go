package domain

func (g *Grid) GetIndex(x, y int) int {
	return y*g.Width + x
}

// PosOf обратное преобразование индекса в координаты
func (g *Grid) PosOf(idx int) Position {
	return Position{X: idx % g.Width, Y: idx / g.Width}
}

// InBounds проверяет, лежит ли точка на карте
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At возвращает символ клетки. За пределами карты - сплошная скала.
func (g *Grid) At(x, y int) byte {
	if !g.InBounds(x, y) {
		return TileSolid
	}
	return g.Cells[g.GetIndex(x, y)]
}

// Size - количество клеток
func (g *Grid) Size() int {
	return g.Width * g.Height
}

// Clone возвращает независимую копию буфера клеток.
// Используется для снимка без игроков и живой карты: никаких общих ссылок.
func (g *Grid) Clone() []byte {
	out := make([]byte, len(g.Cells))
	copy(out, g.Cells)
	return out
}

// RoomFloorIndexes возвращает индексы всех клеток пола комнат в buf
func (g *Grid) RoomFloorIndexes(buf []byte) []int {
	var out []int
	for i, c := range buf {
		if c == TileFloor {
			out = append(out, i)
		}
	}
	return out
}
