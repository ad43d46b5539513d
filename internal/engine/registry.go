package engine

import (
	"nuggets-server/internal/domain"
)

// Registry хранит игроков и зрителя.
// Буквы выдаются по порядку и не возвращаются до конца партии.
type Registry struct {
	byAddr   map[domain.Addr]*domain.Player
	byLetter [domain.MaxPlayers]*domain.Player
	assigned uint32 // Битовая маска выданных букв

	spectator    domain.Addr
	hasSpectator bool
}

func NewRegistry() *Registry {
	return &Registry{
		byAddr: make(map[domain.Addr]*domain.Player),
	}
}

// NextLetter возвращает следующую свободную букву, не занимая ее
func (r *Registry) NextLetter() (byte, error) {
	for i := 0; i < domain.MaxPlayers; i++ {
		if r.assigned&(1<<i) == 0 {
			return byte('A' + i), nil
		}
	}
	return 0, domain.ErrGameFull
}

// Add регистрирует игрока под его буквой
func (r *Registry) Add(p *domain.Player) {
	i := p.Letter - 'A'
	r.assigned |= 1 << i
	r.byLetter[i] = p
	r.byAddr[p.Addr] = p
}

// Deactivate снимает игрока с адреса. Буква остается занятой.
func (r *Registry) Deactivate(addr domain.Addr) (*domain.Player, bool) {
	p, ok := r.byAddr[addr]
	if !ok {
		return nil, false
	}
	delete(r.byAddr, addr)
	p.Active = false
	return p, true
}

// Lookup - активный игрок по адресу
func (r *Registry) Lookup(addr domain.Addr) (*domain.Player, bool) {
	p, ok := r.byAddr[addr]
	return p, ok
}

func (r *Registry) ByLetter(letter byte) *domain.Player {
	if !domain.IsLetter(letter) {
		return nil
	}
	return r.byLetter[letter-'A']
}

// Active - активные игроки по алфавиту
func (r *Registry) Active() []*domain.Player {
	out := make([]*domain.Player, 0, len(r.byAddr))
	for _, p := range r.byLetter {
		if p != nil && p.Active {
			out = append(out, p)
		}
	}
	return out
}

// All - все игроки партии по алфавиту, включая вышедших
func (r *Registry) All() []*domain.Player {
	var out []*domain.Player
	for _, p := range r.byLetter {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Assigned - сколько букв уже выдано
func (r *Registry) Assigned() int {
	n := 0
	for m := r.assigned; m != 0; m &= m - 1 {
		n++
	}
	return n
}

// SetSpectator ставит нового зрителя и возвращает предыдущего
func (r *Registry) SetSpectator(addr domain.Addr) (prev domain.Addr, had bool) {
	prev, had = r.spectator, r.hasSpectator
	r.spectator, r.hasSpectator = addr, true
	return prev, had
}

func (r *Registry) Spectator() (domain.Addr, bool) {
	return r.spectator, r.hasSpectator
}

func (r *Registry) IsSpectator(addr domain.Addr) bool {
	return r.hasSpectator && r.spectator == addr
}

func (r *Registry) ClearSpectator() {
	r.spectator, r.hasSpectator = "", false
}
