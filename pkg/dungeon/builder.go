package dungeon

import "nuggets-server/internal/domain"

// RoomBuilder предоставляет fluent API для сборки простых карт:
// одна прямоугольная комната со стенами по периметру.
type RoomBuilder struct {
	width  int
	height int
	cells  []byte
}

// NewRoom создает комнату w x h (включая стены)
func NewRoom(w, h int) *RoomBuilder {
	b := &RoomBuilder{width: w, height: h, cells: make([]byte, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.cells[y*w+x] = borderSymbol(x, y, w, h)
		}
	}
	return b
}

func borderSymbol(x, y, w, h int) byte {
	isCornerX := x == 0 || x == w-1
	isCornerY := y == 0 || y == h-1
	switch {
	case isCornerX && isCornerY:
		return domain.TileCorner
	case isCornerY:
		return domain.TileWallH
	case isCornerX:
		return domain.TileWallV
	default:
		return domain.TileFloor
	}
}

// WithWall ставит стену внутри комнаты
func (b *RoomBuilder) WithWall(x, y int) *RoomBuilder {
	return b.set(x, y, domain.TileWallV)
}

// WithPassage прокладывает проход
func (b *RoomBuilder) WithPassage(x, y int) *RoomBuilder {
	return b.set(x, y, domain.TilePassage)
}

// WithRock заполняет клетку скалой
func (b *RoomBuilder) WithRock(x, y int) *RoomBuilder {
	return b.set(x, y, domain.TileSolid)
}

func (b *RoomBuilder) set(x, y int, c byte) *RoomBuilder {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y*b.width+x] = c
	}
	return b
}

// Build возвращает готовую сетку. Повторный вызов дает независимую копию.
func (b *RoomBuilder) Build() *domain.Grid {
	cells := make([]byte, len(b.cells))
	copy(cells, b.cells)
	return domain.NewGrid(b.width, b.height, cells)
}

// String - карта построчно, в формате файла
func (b *RoomBuilder) String() string {
	return Format(domain.NewGrid(b.width, b.height, b.cells))
}
