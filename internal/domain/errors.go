package domain

import "errors"

var (
	ErrMapFormat     = errors.New("map format error")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrGameFull      = errors.New("game is full")
	ErrEmptyName     = errors.New("empty player name")
	ErrAlreadyJoined = errors.New("endpoint already joined")
	ErrNoRoom        = errors.New("no free floor left")
	ErrUnknownPlayer = errors.New("unknown player")
	ErrNoGoldPile    = errors.New("no gold pile at index")
	ErrGameOver      = errors.New("game is over")
)
