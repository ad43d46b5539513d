package engine

import (
	"nuggets-server/internal/domain"
	"nuggets-server/pkg/api"
)

// broadcast рассылает состояние после хода или выхода.
// Игрок получает свою память и свое золото, зритель - всю карту.
// Если золото кончилось, следом идет итоговая таблица и партия закрывается.
func (s *GameService) broadcast() {
	w := s.world
	_, cols := w.Dimensions()
	remaining := w.Remaining()

	for _, p := range w.Players.Active() {
		w.Refresh(p)
		s.send(p.Addr, api.FormatDisplay(w.PlayerView(p), cols))
		s.send(p.Addr, api.FormatGold(p.JustCollected, p.Gold, remaining))
		p.JustCollected = 0
	}

	spectator, hasSpectator := w.Players.Spectator()
	if hasSpectator {
		s.send(spectator, api.FormatDisplay(w.FullView(), cols))
		s.send(spectator, api.FormatGold(0, 0, remaining))
	}

	if remaining > 0 {
		return
	}

	summary := api.FormatGameOver(w.Scoreboard())
	for _, addr := range s.endpoints() {
		s.send(addr, summary)
	}
	if err := w.Finish(); err != nil {
		s.log.WithError(err).Warn("Game already finished")
	}
}

// endpoints - все подключенные адреса: активные игроки и зритель
func (s *GameService) endpoints() []domain.Addr {
	var out []domain.Addr
	for _, p := range s.world.Players.Active() {
		out = append(out, p.Addr)
	}
	if spectator, ok := s.world.Players.Spectator(); ok {
		out = append(out, spectator)
	}
	return out
}
