package engine

import (
	"fmt"
	"math/rand"

	"nuggets-server/internal/domain"
	"nuggets-server/internal/systems"
	"nuggets-server/pkg/api"

	"github.com/sirupsen/logrus"
)

// World - единственное состояние партии. Принадлежит одной горутине цикла.
type World struct {
	Grid *domain.Grid // Рельеф, не меняется

	unoccupied []byte // Рельеф + золото
	live       []byte // unoccupied + буквы игроков

	Gold    *systems.GoldLedger
	Players *Registry

	Seed  int64
	Plain bool

	over bool
	log  *logrus.Entry
}

// --- ЖИЗНЕННЫЙ ЦИКЛ ---

// Join добавляет игрока: следующая буква, случайная свободная клетка пола, начальная память.
func (w *World) Join(addr domain.Addr, name string) (*domain.Player, error) {
	if w.over {
		return nil, domain.ErrGameOver
	}
	if _, ok := w.Players.Lookup(addr); ok || w.Players.IsSpectator(addr) {
		return nil, domain.ErrAlreadyJoined
	}
	letter, err := w.Players.NextLetter()
	if err != nil {
		return nil, err
	}
	name = domain.SanitizeName(name)
	if name == "" {
		return nil, domain.ErrEmptyName
	}

	free := w.Grid.RoomFloorIndexes(w.live)
	if len(free) == 0 {
		return nil, domain.ErrNoRoom
	}
	// Свое зерно на каждого игрока, чтобы одинаковые сиды расходились
	rng := rand.New(rand.NewSource(w.Seed + int64(letter-'A')))
	idx := free[rng.Intn(len(free))]

	p := domain.NewPlayer(letter, name, addr, w.Grid.Size())
	p.Pos = w.Grid.PosOf(idx)
	w.live[idx] = letter
	w.Players.Add(p)
	w.Refresh(p)

	w.log.WithFields(logrus.Fields{
		"letter": string(letter),
		"name":   name,
		"addr":   addr,
		"pos":    p.Pos,
	}).Info("Player joined")
	return p, nil
}

// Spectate делает addr зрителем. Возвращает вытесненного зрителя ("" если не было).
func (w *World) Spectate(addr domain.Addr) (domain.Addr, error) {
	if w.over {
		return "", domain.ErrGameOver
	}
	if _, ok := w.Players.Lookup(addr); ok {
		return "", domain.ErrAlreadyJoined
	}
	prev, had := w.Players.SetSpectator(addr)
	if !had || prev == addr {
		prev = ""
	}

	w.log.WithFields(logrus.Fields{"addr": addr, "evicted": prev}).Info("Spectator attached")
	return prev, nil
}

// Leave убирает зрителя или игрока. Возвращает true, если это был зритель.
// Игрок теряет адрес, буква остается за ним. Вне простого режима его золото
// остается кучей на клетке, в простом режиме оно уходит из игры.
func (w *World) Leave(addr domain.Addr) (bool, error) {
	if w.Players.IsSpectator(addr) {
		w.Players.ClearSpectator()
		w.log.WithField("addr", addr).Info("Spectator left")
		return true, nil
	}

	p, ok := w.Players.Deactivate(addr)
	if !ok {
		return false, fmt.Errorf("leave %s: %w", addr, domain.ErrUnknownPlayer)
	}

	idx := w.Grid.GetIndex(p.Pos.X, p.Pos.Y)
	dropped := 0
	switch {
	case !w.Plain && p.Gold > 0:
		if err := w.Gold.Drop(idx, p.Gold); err != nil {
			return false, fmt.Errorf("leave %s: %w", addr, err)
		}
		dropped = p.Gold
		p.Gold = 0
		w.unoccupied[idx] = domain.TileGold
		w.live[idx] = domain.TileGold
	case w.Plain && p.Gold > 0:
		w.Gold.Forfeit(p.Gold)
		w.live[idx] = w.unoccupied[idx]
	default:
		w.live[idx] = w.unoccupied[idx]
	}

	w.log.WithFields(logrus.Fields{
		"letter":  string(p.Letter),
		"dropped": dropped,
		"purse":   p.Gold,
	}).Info("Player left")
	return false, nil
}

// --- ДВИЖЕНИЕ ---

// AttemptMove - один шаг. false, если шаг невозможен (мир не меняется).
func (w *World) AttemptMove(p *domain.Player, dx, dy int) bool {
	p.JustCollected = 0
	return w.step(p, dx, dy)
}

// Run повторяет шаг, пока он удается и в игре есть золото.
// JustCollected накапливается за весь забег. Возвращает число шагов.
func (w *World) Run(p *domain.Player, dx, dy int) int {
	p.JustCollected = 0
	steps := 0
	for w.Gold.Remaining() > 0 && w.step(p, dx, dy) {
		steps++
	}
	return steps
}

func (w *World) step(p *domain.Player, dx, dy int) bool {
	if w.over || !p.Active {
		return false
	}

	res := systems.CalculateMove(w.live, w.Grid.Width, w.Grid.Height, p.Pos, dx, dy, w.Plain)
	if res.IsWall {
		return false
	}

	from := w.Grid.GetIndex(p.Pos.X, p.Pos.Y)
	to := res.TargetID

	// Чужая буква: проверяем до любых изменений
	var occupant *domain.Player
	if res.Occupant != 0 {
		occupant = w.Players.ByLetter(res.Occupant)
		if occupant == nil || !occupant.Active {
			w.log.WithFields(logrus.Fields{
				"letter": string(res.Occupant),
				"target": res.Target,
				"error":  domain.ErrUnknownPlayer,
			}).Error("Letter on map without an active player")
			return false
		}
	}

	if res.HasGold {
		amount, err := w.Gold.Collect(to)
		if err != nil {
			w.log.WithError(err).WithField("target", res.Target).Error("Gold symbol without a pile")
			return false
		}
		w.unoccupied[to] = w.Grid.Cells[to]
		p.Gold += amount
		p.JustCollected += amount
	}

	if occupant != nil {
		// Захват: меняемся местами, забираем кошелек
		occupant.Pos = p.Pos
		w.live[from] = occupant.Letter
		stolen := occupant.Gold
		occupant.Gold = 0
		p.Gold += stolen
		p.JustCollected += stolen

		w.log.WithFields(logrus.Fields{
			"mover":    string(p.Letter),
			"occupant": string(occupant.Letter),
			"stolen":   stolen,
		}).Debug("Players swapped")
	} else {
		w.live[from] = w.unoccupied[from]
	}

	w.live[to] = p.Letter
	p.Pos = res.Target

	w.Refresh(p)
	if occupant != nil {
		w.Refresh(occupant)
	}
	return true
}

// --- ВИДИМОСТЬ ---

// Refresh пересчитывает видимость игрока и вливает ее в память
func (w *World) Refresh(p *domain.Player) {
	visible := systems.ComputeVisible(w.live, w.Grid.Width, w.Grid.Height, p.Pos)
	systems.MergeMemory(p.Memory, visible, w.Grid.Cells)
}

// PlayerView - копия памяти игрока, своя клетка отмечена '@'
func (w *World) PlayerView(p *domain.Player) []byte {
	view := make([]byte, len(p.Memory))
	copy(view, p.Memory)
	view[w.Grid.GetIndex(p.Pos.X, p.Pos.Y)] = domain.TileSelf
	return view
}

// FullView - вся живая карта (для зрителя)
func (w *World) FullView() []byte {
	view := make([]byte, len(w.live))
	copy(view, w.live)
	return view
}

// --- СОСТОЯНИЕ ---

func (w *World) Player(addr domain.Addr) (*domain.Player, bool) {
	return w.Players.Lookup(addr)
}

func (w *World) IsSpectator(addr domain.Addr) bool {
	return w.Players.IsSpectator(addr)
}

// Dimensions - строки и столбцы, в порядке сообщения GRID
func (w *World) Dimensions() (rows, cols int) {
	return w.Grid.Height, w.Grid.Width
}

func (w *World) Remaining() int {
	return w.Gold.Remaining()
}

func (w *World) IsOver() bool {
	return w.over
}

// Finish фиксирует конец партии. Повторный вызов возвращает ErrGameOver.
func (w *World) Finish() error {
	if w.over {
		return domain.ErrGameOver
	}
	w.over = true
	w.log.WithField("players", w.Players.Assigned()).Info("Game over")
	return nil
}

// Scoreboard - все игроки партии по алфавиту
func (w *World) Scoreboard() []api.ScoreEntry {
	all := w.Players.All()
	out := make([]api.ScoreEntry, 0, len(all))
	for _, p := range all {
		out = append(out, api.ScoreEntry{Letter: p.Letter, Gold: p.Gold, Name: p.Name})
	}
	return out
}

// Live и Unoccupied - копии буферов для отладки и тестов
func (w *World) Live() []byte { return w.FullView() }

func (w *World) Unoccupied() []byte {
	out := make([]byte, len(w.unoccupied))
	copy(out, w.unoccupied)
	return out
}

// CheckConservation сверяет золото: кучи + кошельки активных игроков == total.
// Золото, ушедшее из игры в простом режиме, из total уже вычтено.
func (w *World) CheckConservation() error {
	held := 0
	for _, p := range w.Players.Active() {
		held += p.Gold
	}
	if w.Gold.Remaining()+held != w.Gold.Total() {
		return fmt.Errorf("gold drift: piles %d + purses %d != total %d", w.Gold.Remaining(), held, w.Gold.Total())
	}
	return nil
}
