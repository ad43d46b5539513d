package engine

import (
	"errors"
	"testing"

	"nuggets-server/internal/domain"
)

func TestRegistry_Letters(t *testing.T) {
	r := NewRegistry()

	for i := 0; i < 3; i++ {
		letter, err := r.NextLetter()
		if err != nil {
			t.Fatal(err)
		}
		r.Add(domain.NewPlayer(letter, "p", domain.Addr(string(letter)), 4))
	}
	if r.Assigned() != 3 {
		t.Errorf("assigned = %d", r.Assigned())
	}

	if _, ok := r.Deactivate("B"); !ok {
		t.Fatal("deactivate B failed")
	}
	letter, _ := r.NextLetter()
	if letter != 'D' {
		t.Errorf("next letter = %c, want D", letter)
	}

	active := r.Active()
	if len(active) != 2 || active[0].Letter != 'A' || active[1].Letter != 'C' {
		t.Errorf("active = %v", active)
	}
	if all := r.All(); len(all) != 3 || all[1].Active {
		t.Errorf("all = %v", all)
	}
	if r.ByLetter('B') == nil || r.ByLetter('#') != nil {
		t.Error("ByLetter lookup")
	}
}

func TestRegistry_Full(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < domain.MaxPlayers; i++ {
		letter, err := r.NextLetter()
		if err != nil {
			t.Fatalf("letter %d: %v", i, err)
		}
		r.Add(domain.NewPlayer(letter, "p", domain.Addr(string(letter)), 1))
	}
	if _, err := r.NextLetter(); !errors.Is(err, domain.ErrGameFull) {
		t.Errorf("expected ErrGameFull, got %v", err)
	}
}

func TestRegistry_Spectator(t *testing.T) {
	r := NewRegistry()
	if _, had := r.SetSpectator("s1"); had {
		t.Error("no previous spectator expected")
	}
	prev, had := r.SetSpectator("s2")
	if !had || prev != "s1" {
		t.Errorf("prev = %q, %v", prev, had)
	}
	r.ClearSpectator()
	if _, ok := r.Spectator(); ok || r.IsSpectator("s2") {
		t.Error("spectator not cleared")
	}
}
