package actions

import (
	"nuggets-server/internal/domain"
	"nuggets-server/internal/engine/handlers"
	"nuggets-server/pkg/api"
)

// HandleKey - KEY <char>: шаг, бег или выход
func HandleKey(ctx handlers.Context, p api.KeyPayload) (handlers.Result, error) {
	action := domain.ParseKey(p.Key)

	if ctx.World.IsSpectator(ctx.From) {
		if action.Type != domain.ActionQuit {
			return handlers.Reply(api.FormatError(api.ErrTextSpectator)), nil
		}
		if _, err := ctx.World.Leave(ctx.From); err != nil {
			return handlers.EmptyResult(), err
		}
		return handlers.Reply(api.FormatQuit(api.QuitThanksWatching)), nil
	}

	player, ok := ctx.World.Player(ctx.From)
	if !ok {
		return handlers.Reply(api.FormatError(api.ErrTextNotInGame)), nil
	}

	switch action.Type {
	case domain.ActionQuit:
		if _, err := ctx.World.Leave(ctx.From); err != nil {
			return handlers.EmptyResult(), err
		}
		res := handlers.Reply(api.FormatQuit(api.QuitThanksPlaying))
		res.Broadcast = true
		return res, nil

	case domain.ActionStep:
		moved := ctx.World.AttemptMove(player, action.Dx, action.Dy)
		return handlers.Result{Broadcast: moved}, nil

	case domain.ActionRun:
		steps := ctx.World.Run(player, action.Dx, action.Dy)
		return handlers.Result{Broadcast: steps > 0}, nil
	}

	return handlers.Reply(api.FormatError(api.ErrTextUnknownKey)), nil
}
