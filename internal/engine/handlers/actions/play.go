package actions

import (
	"errors"

	"nuggets-server/internal/domain"
	"nuggets-server/internal/engine/handlers"
	"nuggets-server/pkg/api"
)

// HandlePlay - PLAY <name>: регистрация игрока и стартовый набор сообщений
func HandlePlay(ctx handlers.Context, p api.PlayPayload) (handlers.Result, error) {
	player, err := ctx.World.Join(ctx.From, p.Name)
	switch {
	case errors.Is(err, domain.ErrGameFull):
		return handlers.Reply(api.FormatQuit(api.QuitGameFull)), nil
	case errors.Is(err, domain.ErrEmptyName):
		return handlers.Reply(api.FormatQuit(api.QuitEmptyName)), nil
	case errors.Is(err, domain.ErrNoRoom):
		return handlers.Reply(api.FormatQuit(api.QuitNoRoom)), nil
	case errors.Is(err, domain.ErrAlreadyJoined):
		return handlers.Reply(api.FormatError(api.ErrTextAlreadyIn)), nil
	case err != nil:
		return handlers.EmptyResult(), err
	}

	rows, cols := ctx.World.Dimensions()
	return handlers.Reply(
		api.FormatOK(player.Letter),
		api.FormatGrid(rows, cols),
		api.FormatGold(0, player.Gold, ctx.World.Remaining()),
		api.FormatDisplay(ctx.World.PlayerView(player), cols),
	), nil
}
