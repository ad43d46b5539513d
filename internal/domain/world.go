package domain

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Grid - неизменяемая после загрузки карта местности.
// В ней нет ни золота, ни игроков: только пол, проходы, стены и скала.
type Grid struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Cells  []byte `json:"-"` // Ключ: Y * Width + X
}

// NewGrid создает сетку из готового буфера.
// Буфер не копируется, вызывающий передает владение.
func NewGrid(width, height int, cells []byte) *Grid {
	return &Grid{Width: width, Height: height, Cells: cells}
}
