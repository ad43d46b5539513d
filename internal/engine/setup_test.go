package engine

import (
	"os"
	"strings"
	"testing"

	"nuggets-server/internal/domain"
	"nuggets-server/internal/systems"
	"nuggets-server/pkg/dungeon"
	"nuggets-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// captureSender запоминает все исходящие сообщения
type captureSender struct {
	msgs map[domain.Addr][]string
}

func newCaptureSender() *captureSender {
	return &captureSender{msgs: make(map[domain.Addr][]string)}
}

func (c *captureSender) Send(addr domain.Addr, text string) error {
	c.msgs[addr] = append(c.msgs[addr], text)
	return nil
}

func (c *captureSender) last(addr domain.Addr) string {
	m := c.msgs[addr]
	if len(m) == 0 {
		return ""
	}
	return m[len(m)-1]
}

func (c *captureSender) reset() {
	c.msgs = make(map[domain.Addr][]string)
}

// newTestWorld собирает мир и заменяет случайную раскладку на заданные кучи.
// total - все золото партии (кучи + будущие кошельки).
func newTestWorld(t *testing.T, grid *domain.Grid, plain bool, total int, piles map[domain.Position]int) *World {
	t.Helper()
	cfg := Config{GoldTotal: 1, MinPiles: 1, MaxPiles: 1, Seed: 7, Plain: plain}
	w, err := NewWorld(grid, cfg)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}

	w.unoccupied = grid.Clone()
	w.live = grid.Clone()
	w.Gold = systems.NewGoldLedger(total)
	for pos, amount := range piles {
		idx := grid.GetIndex(pos.X, pos.Y)
		if err := w.Gold.Drop(idx, amount); err != nil {
			t.Fatal(err)
		}
		w.unoccupied[idx] = domain.TileGold
		w.live[idx] = domain.TileGold
	}
	return w
}

// joinAt добавляет игрока и переставляет его на заданную клетку
func joinAt(t *testing.T, w *World, addr domain.Addr, name string, pos domain.Position, purse int) *domain.Player {
	t.Helper()
	p, err := w.Join(addr, name)
	if err != nil {
		t.Fatalf("Join(%s): %v", addr, err)
	}
	old := w.Grid.GetIndex(p.Pos.X, p.Pos.Y)
	w.live[old] = w.unoccupied[old]
	w.live[w.Grid.GetIndex(pos.X, pos.Y)] = p.Letter
	p.Pos = pos
	p.Gold = purse
	w.Refresh(p)
	return p
}

var stepKeys = map[[2]int]string{
	{-1, 0}: "h", {1, 0}: "l", {0, 1}: "j", {0, -1}: "k",
	{-1, -1}: "y", {1, -1}: "u", {-1, 1}: "b", {1, 1}: "n",
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

// room - прямоугольная комната для тестов
func room(w, h int) *domain.Grid {
	return dungeon.NewRoom(w, h).Build()
}

func rows(view []byte, width int) string {
	var b strings.Builder
	for i := 0; i < len(view); i += width {
		b.Write(view[i : i+width])
		b.WriteByte('\n')
	}
	return b.String()
}
