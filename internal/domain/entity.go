package domain

import (
	"strings"
	"unicode"
)

// Addr - непрозрачный идентификатор конечной точки (UDP адрес, WebSocket сессия).
type Addr string

// --- ИГРОК ---

type Player struct {
	// Идентификация
	Letter byte   `json:"letter"` // A..Z, выдается один раз
	Name   string `json:"name"`
	Addr   Addr   `json:"addr"`

	Pos Position `json:"pos"`

	// Кошелек
	Gold          int `json:"gold"`
	JustCollected int `json:"justCollected"` // Сбрасывается на каждом ходу

	// Memory - все, что игрок когда-либо видел. Пробел - "не видел".
	Memory []byte `json:"-"`

	// Active - false после выхода. Буква при этом не освобождается.
	Active bool `json:"active"`
}

// NewPlayer создает игрока с пустой памятью размера карты
func NewPlayer(letter byte, name string, addr Addr, cells int) *Player {
	memory := make([]byte, cells)
	for i := range memory {
		memory[i] = TileSolid
	}
	return &Player{
		Letter: letter,
		Name:   name,
		Addr:   addr,
		Memory: memory,
		Active: true,
	}
}

// SanitizeName заменяет непечатаемые символы на '_' и обрезает имя до MaxNameLength рун.
// Пустое (или из одних пробелов) имя возвращается как "".
func SanitizeName(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	var b strings.Builder
	count := 0
	for _, r := range raw {
		if count == MaxNameLength {
			break
		}
		if unicode.IsPrint(r) || r == '\t' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
		count++
	}
	return b.String()
}
