package dungeon

import (
	"fmt"
	"math/rand"

	"nuggets-server/internal/domain"
)

// Константы генерации по умолчанию
const (
	MapWidth  = 60
	MapHeight = 24
	MaxRooms  = 8
	MinSize   = 5 // Включая стены
	MaxSize   = 14

	placeAttempts = 50 // Попыток на одну комнату
)

// GenOptions - параметры генератора карт
type GenOptions struct {
	Width    int
	Height   int
	MaxRooms int
	Seed     int64
}

func DefaultGenOptions() GenOptions {
	return GenOptions{Width: MapWidth, Height: MapHeight, MaxRooms: MaxRooms}
}

// Rect - комната вместе со стенами
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Intersects учитывает зазор в одну клетку, чтобы стены комнат не слипались
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W && r.X+r.W >= other.X &&
		r.Y <= other.Y+other.H && r.Y+r.H >= other.Y
}

// Generate строит карту: комнаты в скале, соединенные проходами '#'.
// Одинаковые опции дают одинаковую карту.
func Generate(opts GenOptions) (*domain.Grid, error) {
	if opts.Width < MinSize+2 || opts.Height < MinSize+2 {
		return nil, fmt.Errorf("%w: map %dx%d is too small", domain.ErrInvalidConfig, opts.Width, opts.Height)
	}
	if opts.MaxRooms < 1 {
		return nil, fmt.Errorf("%w: need at least one room", domain.ErrInvalidConfig)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	w, h := opts.Width, opts.Height

	// 1. Заполняем скалой
	cells := make([]byte, w*h)
	for i := range cells {
		cells[i] = domain.TileSolid
	}

	// 2. Генерируем комнаты
	var rooms []Rect
	for attempt := 0; attempt < opts.MaxRooms*placeAttempts && len(rooms) < opts.MaxRooms; attempt++ {
		rw := randRange(rng, MinSize, min(MaxSize, w-2))
		rh := randRange(rng, MinSize, min(MaxSize/2+1, h-2))
		room := Rect{
			X: randRange(rng, 1, w-rw-1),
			Y: randRange(rng, 1, h-rh-1),
			W: rw,
			H: rh,
		}

		failed := false
		for _, other := range rooms {
			if room.Intersects(other) {
				failed = true
				break
			}
		}
		if failed {
			continue
		}

		createRoom(cells, w, room)
		rooms = append(rooms, room)
	}

	// 3. Соединяем каждую комнату с предыдущей
	for i := 1; i < len(rooms); i++ {
		prevX, prevY := rooms[i-1].Center()
		currX, currY := rooms[i].Center()

		if rng.Intn(2) == 0 {
			createHCorridor(cells, w, prevX, currX, prevY)
			createVCorridor(cells, w, prevY, currY, currX)
		} else {
			createVCorridor(cells, w, prevY, currY, prevX)
			createHCorridor(cells, w, prevX, currX, currY)
		}
	}

	return domain.NewGrid(w, h, cells), nil
}

// --- Вспомогательные функции ---

func createRoom(cells []byte, width int, room Rect) {
	for y := 0; y < room.H; y++ {
		for x := 0; x < room.W; x++ {
			cells[(room.Y+y)*width+room.X+x] = borderSymbol(x, y, room.W, room.H)
		}
	}
}

// dig прокладывает проход через скалу и стены. Пол комнат не трогаем.
func dig(cells []byte, width, x, y int) {
	i := y*width + x
	if cells[i] != domain.TileFloor {
		cells[i] = domain.TilePassage
	}
}

func createHCorridor(cells []byte, width, x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		dig(cells, width, x, y)
	}
}

func createVCorridor(cells []byte, width, y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		dig(cells, width, x, y)
	}
}

func randRange(rng *rand.Rand, min, max int) int {
	if max < min {
		return min
	}
	return rng.Intn(max-min+1) + min
}
