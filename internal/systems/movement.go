package systems

import (
	"nuggets-server/internal/domain"
)

// MovementResult содержит результат расчета шага.
type MovementResult struct {
	Target   domain.Position
	TargetID int  // Индекс клетки назначения, -1 вне карты
	IsWall   bool // Клетка непроходима (или занята игроком в простом режиме)
	Occupant byte // Буква игрока на клетке, 0 если пусто
	HasGold  bool
}

// CalculateMove - чистая функция: что будет, если шагнуть из from на (dx, dy).
// Мир не изменяется.
func CalculateMove(live []byte, w, h int, from domain.Position, dx, dy int, plain bool) MovementResult {
	target := from.Shift(dx, dy)
	res := MovementResult{Target: target, TargetID: -1}

	if target.X < 0 || target.Y < 0 || target.X >= w || target.Y >= h {
		res.IsWall = true
		return res
	}

	res.TargetID = target.Y*w + target.X
	c := live[res.TargetID]

	switch {
	case !domain.IsWalkable(c):
		res.IsWall = true
	case domain.IsLetter(c):
		res.Occupant = c
		if plain {
			res.IsWall = true
		}
	case c == domain.TileGold:
		res.HasGold = true
	}
	return res
}
