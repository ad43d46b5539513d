package api

import (
	"errors"
	"strings"
)

var (
	ErrUnknownKey = errors.New("unknown keystroke")
	ErrEmptyName  = errors.New("empty player name")
)

// ValidKeys - допустимые клавиши: шаги, бег, выход
const ValidKeys = "hjklyubnHJKLYUBNqQ"

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p PlayPayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (p KeyPayload) Validate() error {
	if p.Key == 0 || strings.IndexByte(ValidKeys, p.Key) < 0 {
		return ErrUnknownKey
	}
	return nil
}
