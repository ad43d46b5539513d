package actions

import (
	"errors"

	"nuggets-server/internal/domain"
	"nuggets-server/internal/engine/handlers"
	"nuggets-server/pkg/api"
)

// HandleSpectate - SPECTATE: новый зритель вытесняет старого
func HandleSpectate(ctx handlers.Context) (handlers.Result, error) {
	evicted, err := ctx.World.Spectate(ctx.From)
	if errors.Is(err, domain.ErrAlreadyJoined) {
		return handlers.Reply(api.FormatError(api.ErrTextAlreadyIn)), nil
	}
	if err != nil {
		return handlers.EmptyResult(), err
	}

	rows, cols := ctx.World.Dimensions()
	res := handlers.Reply(
		api.FormatGrid(rows, cols),
		api.FormatGold(0, 0, ctx.World.Remaining()),
		api.FormatDisplay(ctx.World.FullView(), cols),
	)
	res.Evicted = evicted
	return res, nil
}
