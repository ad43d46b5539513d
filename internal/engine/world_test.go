package engine

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"nuggets-server/internal/domain"
	"nuggets-server/pkg/dungeon"
)

func TestNewWorld_GoldLaidOut(t *testing.T) {
	grid := room(12, 8)
	for seed := int64(1); seed <= 10; seed++ {
		w, err := NewWorld(grid, Config{GoldTotal: 250, MinPiles: 10, MaxPiles: 30, Seed: seed})
		if err != nil {
			t.Fatal(err)
		}
		piles := w.Gold.Piles()
		if len(piles) < 10 || len(piles) > 30 {
			t.Errorf("seed %d: %d piles", seed, len(piles))
		}
		stars := bytes.Count(w.Live(), []byte{domain.TileGold})
		if stars != len(piles) || bytes.Count(w.Unoccupied(), []byte{domain.TileGold}) != len(piles) {
			t.Errorf("seed %d: %d '*' on the map for %d piles", seed, stars, len(piles))
		}
		if bytes.ContainsRune(grid.Cells, '*') {
			t.Fatal("terrain grid must stay free of gold")
		}
		if err := w.CheckConservation(); err != nil {
			t.Error(err)
		}
	}
}

func TestNewWorld_InvalidConfig(t *testing.T) {
	_, err := NewWorld(room(5, 5), Config{GoldTotal: 10, MinPiles: 3, MaxPiles: 2, Seed: 1})
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestJoin_LettersAndExhaustion(t *testing.T) {
	w := newTestWorld(t, room(12, 5), false, 1, map[domain.Position]int{{X: 10, Y: 3}: 1})

	for i := 0; i < domain.MaxPlayers; i++ {
		p, err := w.Join(domain.Addr(fmt.Sprintf("udp:p%d", i)), fmt.Sprintf("player%d", i))
		if err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
		if want := byte('A' + i); p.Letter != want {
			t.Fatalf("join %d: letter %c, want %c", i, p.Letter, want)
		}
		if c := w.live[w.Grid.GetIndex(p.Pos.X, p.Pos.Y)]; c != p.Letter {
			t.Fatalf("join %d: live map shows %q at the player's cell", i, c)
		}
	}

	_, err := w.Join("udp:late", "late")
	if !errors.Is(err, domain.ErrGameFull) {
		t.Fatalf("27th join: expected ErrGameFull, got %v", err)
	}
	if _, ok := w.Player("udp:late"); ok {
		t.Error("27th join must not create a player")
	}
	if w.Players.Assigned() != domain.MaxPlayers {
		t.Errorf("assigned = %d", w.Players.Assigned())
	}
}

func TestJoin_LettersNeverRecycled(t *testing.T) {
	w := newTestWorld(t, room(8, 5), false, 1, map[domain.Position]int{{X: 6, Y: 3}: 1})

	if _, err := w.Join("udp:a", "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Join("udp:b", "b"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Leave("udp:b"); err != nil {
		t.Fatal(err)
	}
	p, err := w.Join("udp:b", "b again")
	if err != nil {
		t.Fatal(err)
	}
	if p.Letter != 'C' {
		t.Errorf("rejoin got %c, want C", p.Letter)
	}
}

func TestJoin_Rejections(t *testing.T) {
	w := newTestWorld(t, room(6, 4), false, 1, map[domain.Position]int{{X: 4, Y: 2}: 1})

	if _, err := w.Join("udp:a", " \t "); !errors.Is(err, domain.ErrEmptyName) {
		t.Errorf("blank name: %v", err)
	}
	if _, err := w.Join("udp:a", "Alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Join("udp:a", "Alice"); !errors.Is(err, domain.ErrAlreadyJoined) {
		t.Errorf("second join: %v", err)
	}
}

func TestJoin_NoRoom(t *testing.T) {
	// Внутри 2 клетки: одна под золотом, одна под первым игроком
	grid := dungeon.NewRoom(4, 3).Build()
	w := newTestWorld(t, grid, false, 1, map[domain.Position]int{{X: 1, Y: 1}: 1})

	if _, err := w.Join("udp:a", "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Join("udp:b", "b"); !errors.Is(err, domain.ErrNoRoom) {
		t.Errorf("expected ErrNoRoom, got %v", err)
	}
}

func TestJoin_DeterministicPlacement(t *testing.T) {
	grid := room(15, 10)
	cfg := Config{GoldTotal: 20, MinPiles: 2, MaxPiles: 5, Seed: 99}

	place := func() []domain.Position {
		w, err := NewWorld(grid, cfg)
		if err != nil {
			t.Fatal(err)
		}
		var out []domain.Position
		for i := 0; i < 3; i++ {
			p, err := w.Join(domain.Addr(fmt.Sprintf("udp:%d", i)), "x")
			if err != nil {
				t.Fatal(err)
			}
			out = append(out, p.Pos)
		}
		return out
	}

	first, second := place(), place()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("player %d: %v vs %v with the same seed", i, first[i], second[i])
		}
	}
}

func TestAttemptMove_WallRejected(t *testing.T) {
	w := newTestWorld(t, room(5, 5), false, 1, map[domain.Position]int{{X: 3, Y: 3}: 1})
	p := joinAt(t, w, "udp:a", "a", domain.Position{X: 1, Y: 1}, 0)

	before := w.Live()
	for _, d := range [][2]int{{-1, 0}, {0, -1}, {-1, -1}} {
		if w.AttemptMove(p, d[0], d[1]) {
			t.Errorf("move %v into the wall succeeded", d)
		}
	}
	if p.Pos != (domain.Position{X: 1, Y: 1}) {
		t.Errorf("position changed to %v", p.Pos)
	}
	if !bytes.Equal(before, w.Live()) {
		t.Error("live map changed after rejected moves")
	}
}

func TestAttemptMove_PassageWalkable(t *testing.T) {
	grid := dungeon.NewRoom(6, 3).WithPassage(3, 1).Build()
	w := newTestWorld(t, grid, false, 1, map[domain.Position]int{{X: 4, Y: 1}: 1})
	p := joinAt(t, w, "udp:a", "a", domain.Position{X: 2, Y: 1}, 0)

	if !w.AttemptMove(p, 1, 0) {
		t.Fatal("step onto the passage failed")
	}
	if !w.AttemptMove(p, -1, 0) {
		t.Fatal("step back off the passage failed")
	}
	if c := w.live[grid.GetIndex(3, 1)]; c != domain.TilePassage {
		t.Errorf("vacated passage shows %q", c)
	}
}

func TestAttemptMove_CollectsGold(t *testing.T) {
	w := newTestWorld(t, room(6, 3), false, 9, map[domain.Position]int{{X: 2, Y: 1}: 4, {X: 4, Y: 1}: 5})
	p := joinAt(t, w, "udp:a", "a", domain.Position{X: 1, Y: 1}, 0)

	if !w.AttemptMove(p, 1, 0) {
		t.Fatal("move failed")
	}
	if p.Gold != 4 || p.JustCollected != 4 || w.Remaining() != 5 {
		t.Errorf("purse %d, just %d, remaining %d", p.Gold, p.JustCollected, w.Remaining())
	}
	if c := w.unoccupied[w.Grid.GetIndex(2, 1)]; c != domain.TileFloor {
		t.Errorf("collected cell in snapshot = %q", c)
	}

	// Следующий шаг по пустому полу обнуляет JustCollected
	if !w.AttemptMove(p, 1, 0) {
		t.Fatal("second move failed")
	}
	if p.JustCollected != 0 {
		t.Errorf("just collected = %d after an empty step", p.JustCollected)
	}
	if err := w.CheckConservation(); err != nil {
		t.Error(err)
	}
}

func TestAttemptMove_CaptureSwap(t *testing.T) {
	tests := []struct {
		name  string
		plain bool
	}{
		{"capture", false},
		{"plain rejects", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, room(6, 3), tt.plain, 8, map[domain.Position]int{{X: 4, Y: 1}: 1})
			a := joinAt(t, w, "udp:a", "a", domain.Position{X: 1, Y: 1}, 3)
			b := joinAt(t, w, "udp:b", "b", domain.Position{X: 2, Y: 1}, 4)

			moved := w.AttemptMove(a, 1, 0)

			if tt.plain {
				if moved {
					t.Fatal("plain mode allowed stepping onto a player")
				}
				if a.Pos.X != 1 || b.Pos.X != 2 || a.Gold != 3 || b.Gold != 4 {
					t.Errorf("state changed: a=%v/%d b=%v/%d", a.Pos, a.Gold, b.Pos, b.Gold)
				}
				return
			}

			if !moved {
				t.Fatal("capture move failed")
			}
			if a.Pos != (domain.Position{X: 2, Y: 1}) || b.Pos != (domain.Position{X: 1, Y: 1}) {
				t.Errorf("positions a=%v b=%v", a.Pos, b.Pos)
			}
			if a.Gold != 7 || b.Gold != 0 || a.JustCollected != 4 {
				t.Errorf("purses a=%d (just %d) b=%d", a.Gold, a.JustCollected, b.Gold)
			}
			if w.live[w.Grid.GetIndex(1, 1)] != 'B' || w.live[w.Grid.GetIndex(2, 1)] != 'A' {
				t.Errorf("live map:\n%s", rows(w.Live(), w.Grid.Width))
			}
			if err := w.CheckConservation(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestRun_UntilBlocked(t *testing.T) {
	w := newTestWorld(t, room(8, 4), false, 5, map[domain.Position]int{{X: 4, Y: 1}: 2, {X: 6, Y: 2}: 3})
	p := joinAt(t, w, "udp:a", "a", domain.Position{X: 1, Y: 1}, 0)

	if steps := w.Run(p, 1, 0); steps != 5 {
		t.Errorf("steps = %d, want 5", steps)
	}
	if p.Pos != (domain.Position{X: 6, Y: 1}) {
		t.Errorf("stopped at %v", p.Pos)
	}
	if p.JustCollected != 2 || p.Gold != 2 {
		t.Errorf("purse %d, just %d", p.Gold, p.JustCollected)
	}
	if steps := w.Run(p, 1, 0); steps != 0 {
		t.Errorf("second run made %d steps", steps)
	}
}

func TestRun_StopsWhenGoldRunsOut(t *testing.T) {
	w := newTestWorld(t, room(8, 3), false, 1, map[domain.Position]int{{X: 3, Y: 1}: 1})
	p := joinAt(t, w, "udp:a", "a", domain.Position{X: 1, Y: 1}, 0)

	if steps := w.Run(p, 1, 0); steps != 2 {
		t.Errorf("steps = %d, want 2", steps)
	}
	if w.Remaining() != 0 {
		t.Errorf("remaining = %d", w.Remaining())
	}
}

func TestLeave(t *testing.T) {
	tests := []struct {
		name          string
		plain         bool
		purse         int
		wantCell      byte
		wantRemaining int
		wantScore     int
	}{
		{"drop purse", false, 5, domain.TileGold, 6, 0},
		{"empty purse", false, 0, domain.TileFloor, 1, 0},
		{"plain loses gold", true, 5, domain.TileFloor, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, room(6, 4), tt.plain, 1+tt.purse, map[domain.Position]int{{X: 4, Y: 2}: 1})
			joinAt(t, w, "udp:a", "Alice", domain.Position{X: 2, Y: 1}, tt.purse)

			spectator, err := w.Leave("udp:a")
			if err != nil || spectator {
				t.Fatalf("Leave = %v, %v", spectator, err)
			}

			idx := w.Grid.GetIndex(2, 1)
			if w.live[idx] != tt.wantCell || w.unoccupied[idx] != tt.wantCell {
				t.Errorf("cell live=%q unoccupied=%q, want %q", w.live[idx], w.unoccupied[idx], tt.wantCell)
			}
			if w.Remaining() != tt.wantRemaining {
				t.Errorf("remaining = %d, want %d", w.Remaining(), tt.wantRemaining)
			}
			if score := w.Scoreboard(); len(score) != 1 || score[0].Gold != tt.wantScore {
				t.Errorf("scoreboard = %+v", score)
			}
			if err := w.CheckConservation(); err != nil {
				t.Error(err)
			}
			if _, err := w.Leave("udp:a"); !errors.Is(err, domain.ErrUnknownPlayer) {
				t.Errorf("second leave: %v", err)
			}
		})
	}
}

func TestSpectate(t *testing.T) {
	w := newTestWorld(t, room(5, 4), false, 1, map[domain.Position]int{{X: 3, Y: 2}: 1})

	if prev, err := w.Spectate("udp:s1"); err != nil || prev != "" {
		t.Fatalf("first spectator: %q, %v", prev, err)
	}
	if prev, err := w.Spectate("udp:s2"); err != nil || prev != "udp:s1" {
		t.Fatalf("second spectator: %q, %v", prev, err)
	}
	if w.IsSpectator("udp:s1") || !w.IsSpectator("udp:s2") {
		t.Error("spectator slot not replaced")
	}

	joinAt(t, w, "udp:a", "a", domain.Position{X: 1, Y: 1}, 0)
	if _, err := w.Spectate("udp:a"); !errors.Is(err, domain.ErrAlreadyJoined) {
		t.Errorf("player spectating: %v", err)
	}

	if was, err := w.Leave("udp:s2"); err != nil || !was {
		t.Errorf("spectator leave = %v, %v", was, err)
	}
	if _, ok := w.Players.Spectator(); ok {
		t.Error("spectator slot should be empty")
	}
}

func TestMemory_StaleGoldDecays(t *testing.T) {
	// Левая и правая комнаты, между ними стена
	grid := dungeon.NewRoom(7, 4).WithWall(3, 1).WithWall(3, 2).Build()
	w := newTestWorld(t, grid, false, 2, map[domain.Position]int{{X: 5, Y: 1}: 1, {X: 2, Y: 2}: 1})
	p := joinAt(t, w, "udp:a", "a", domain.Position{X: 1, Y: 1}, 0)

	hidden := grid.GetIndex(5, 1)
	seen := grid.GetIndex(2, 2)
	p.Memory[hidden] = domain.TileGold
	p.Memory[grid.GetIndex(4, 2)] = 'Q'

	w.Refresh(p)

	if p.Memory[hidden] != domain.TileFloor {
		t.Errorf("hidden gold remembered as %q", p.Memory[hidden])
	}
	if p.Memory[grid.GetIndex(4, 2)] != domain.TileFloor {
		t.Errorf("hidden letter remembered as %q", p.Memory[grid.GetIndex(4, 2)])
	}
	if p.Memory[seen] != domain.TileGold {
		t.Errorf("visible gold = %q", p.Memory[seen])
	}
}

func TestPlayerView_SelfMarker(t *testing.T) {
	w := newTestWorld(t, room(5, 4), false, 1, map[domain.Position]int{{X: 3, Y: 2}: 1})
	p := joinAt(t, w, "udp:a", "a", domain.Position{X: 1, Y: 1}, 0)

	view := w.PlayerView(p)
	want := "+---+\n" +
		"|@..|\n" +
		"|..*|\n" +
		"+---+\n"
	if got := rows(view, 5); got != want {
		t.Errorf("view =\n%s\nwant\n%s", got, want)
	}
	if p.Memory[w.Grid.GetIndex(1, 1)] != 'A' {
		t.Error("memory itself must keep the letter, not the marker")
	}
}
