package systems

import (
	"testing"

	"nuggets-server/internal/domain"
)

func TestHasLineOfSight(t *testing.T) {
	live, w, h := parseRows(
		"+---------+",
		"|.........|",
		"|...|.....|",
		"|.........|",
		"+---------+",
	)

	tests := []struct {
		name     string
		from, to domain.Position
		want     bool
	}{
		{"self", domain.Position{X: 2, Y: 1}, domain.Position{X: 2, Y: 1}, true},
		{"neighbour", domain.Position{X: 2, Y: 1}, domain.Position{X: 3, Y: 1}, true},
		{"clear row", domain.Position{X: 1, Y: 1}, domain.Position{X: 9, Y: 1}, true},
		{"wall in row", domain.Position{X: 1, Y: 2}, domain.Position{X: 9, Y: 2}, false},
		{"wall itself visible", domain.Position{X: 1, Y: 2}, domain.Position{X: 4, Y: 2}, true},
		{"clear column", domain.Position{X: 2, Y: 1}, domain.Position{X: 2, Y: 3}, true},
		{"border wall visible", domain.Position{X: 2, Y: 1}, domain.Position{X: 2, Y: 4}, true},
		{"clear diagonal", domain.Position{X: 1, Y: 1}, domain.Position{X: 3, Y: 3}, true},
		{"beyond border", domain.Position{X: 2, Y: 2}, domain.Position{X: 2, Y: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasLineOfSight(live, w, h, tt.from, tt.to); got != tt.want {
				t.Errorf("HasLineOfSight(%v -> %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestHasLineOfSight_ThickWallBlocksDiagonal(t *testing.T) {
	live, w, h := parseRows(
		"+-------+",
		"|.......|",
		"|..---..|",
		"|..---..|",
		"|.......|",
		"+-------+",
	)

	from := domain.Position{X: 1, Y: 1}
	to := domain.Position{X: 7, Y: 4}
	if HasLineOfSight(live, w, h, from, to) {
		t.Error("expected the wall block to hide the far corner")
	}
	if !HasLineOfSight(live, w, h, from, domain.Position{X: 7, Y: 1}) {
		t.Error("expected the open top row to stay visible")
	}
}

func TestHasLineOfSight_PassagesAreOpaque(t *testing.T) {
	live, w, h := parseRows(
		"+-----+",
		"|.###.|",
		"+-----+",
	)

	if HasLineOfSight(live, w, h, domain.Position{X: 1, Y: 1}, domain.Position{X: 5, Y: 1}) {
		t.Error("passage cells should block a straight line")
	}
	if !HasLineOfSight(live, w, h, domain.Position{X: 1, Y: 1}, domain.Position{X: 2, Y: 1}) {
		t.Error("first passage cell should itself be visible")
	}
}

// Соседи за краем карты не должны читаться из буфера
func TestHasLineOfSight_EdgeNeighboursAreSafe(t *testing.T) {
	live, w, h := parseRows(
		"....",
		"....",
		"....",
	)

	for idx := range live {
		for jdx := range live {
			from := domain.Position{X: idx % w, Y: idx / w}
			to := domain.Position{X: jdx % w, Y: jdx / w}
			if !HasLineOfSight(live, w, h, from, to) {
				t.Fatalf("open field: %v should see %v", from, to)
			}
		}
	}
}

// Смещение на отрезке отбрасывает дробную часть к нулю, а не вниз
func TestHasLineOfSight_NegativeOffsetTruncates(t *testing.T) {
	live, w, h := parseRows(
		".......",
		".......",
		"...|...",
		"...|...",
		".......",
	)

	tests := []struct {
		name     string
		from, to domain.Position
		want     bool
	}{
		// x=3: y = 2 + (1*-2)/3 = 2, пара (3,2),(3,3) - обе стены
		{"up right past wall", domain.Position{X: 2, Y: 2}, domain.Position{X: 5, Y: 0}, false},
		{"up left past wall", domain.Position{X: 4, Y: 2}, domain.Position{X: 1, Y: 0}, false},
		{"up right clear", domain.Position{X: 4, Y: 2}, domain.Position{X: 6, Y: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasLineOfSight(live, w, h, tt.from, tt.to); got != tt.want {
				t.Errorf("HasLineOfSight(%v -> %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
