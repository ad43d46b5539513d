package api

import (
	"fmt"
	"strings"
)

// MaxMessageBytes - максимальный размер одного сообщения (одна датаграмма UDP)
const MaxMessageBytes = 65507

// --- КЛИЕНТ -> СЕРВЕР ---

// Глаголы входящих сообщений
const (
	VerbPlay     = "PLAY"
	VerbSpectate = "SPECTATE"
	VerbKey      = "KEY"
)

// ClientCommand это разобранное входящее сообщение: глагол и все, что после первого пробела.
type ClientCommand struct {
	// Action глагол сообщения (PLAY, SPECTATE, KEY).
	Action string

	// Payload остаток строки. Его структура зависит от Action.
	Payload string
}

// ParseCommand делит текст датаграммы на глагол и payload.
// Завершающий перевод строки отбрасывается.
func ParseCommand(text string) ClientCommand {
	text = strings.TrimRight(text, "\r\n")
	verb, rest, _ := strings.Cut(text, " ")
	return ClientCommand{Action: verb, Payload: rest}
}

// --- Payloads ---

// PlayPayload - PLAY <name>. Имя может содержать пробелы.
type PlayPayload struct {
	Name string
}

func (p *PlayPayload) UnmarshalText(text []byte) error {
	p.Name = string(text)
	return nil
}

// KeyPayload - KEY <char>
type KeyPayload struct {
	Key byte
}

func (p *KeyPayload) UnmarshalText(text []byte) error {
	if len(text) != 1 {
		return fmt.Errorf("%w: %q", ErrUnknownKey, text)
	}
	p.Key = text[0]
	return nil
}

// --- СЕРВЕР -> КЛИЕНТ ---

func FormatOK(letter byte) string {
	return fmt.Sprintf("OK %c", letter)
}

// FormatGrid - GRID <rows> <cols>
func FormatGrid(rows, cols int) string {
	return fmt.Sprintf("GRID %d %d", rows, cols)
}

// FormatGold - GOLD <justCollected> <totalHeld> <remaining>
func FormatGold(collected, purse, remaining int) string {
	return fmt.Sprintf("GOLD %d %d %d", collected, purse, remaining)
}

// FormatDisplay - DISPLAY и карта построчно, каждая строка с переводом строки
func FormatDisplay(cells []byte, width int) string {
	var b strings.Builder
	b.Grow(len("DISPLAY\n") + len(cells) + len(cells)/width)
	b.WriteString("DISPLAY\n")
	for start := 0; start < len(cells); start += width {
		b.Write(cells[start : start+width])
		b.WriteByte('\n')
	}
	return b.String()
}

func FormatError(text string) string {
	return "ERROR " + text
}

func FormatQuit(text string) string {
	return "QUIT " + text
}

// ScoreEntry - одна строка итоговой таблицы
type ScoreEntry struct {
	Letter byte
	Gold   int
	Name   string
}

// FormatGameOver - QUIT GAME OVER: и таблица. Порядок строк задает вызывающий (по букве).
func FormatGameOver(scores []ScoreEntry) string {
	var b strings.Builder
	b.WriteString("QUIT GAME OVER:\n")
	for _, s := range scores {
		fmt.Fprintf(&b, "%c %10d %s\n", s.Letter, s.Gold, s.Name)
	}
	return b.String()
}

// Тексты терминальных сообщений и ошибок
const (
	QuitGameFull       = "Game is full: no more players can join."
	QuitEmptyName      = "Sorry - you must provide player's name."
	QuitReplaced       = "You have been replaced by a new spectator."
	QuitThanksPlaying  = "Thanks for playing!"
	QuitThanksWatching = "Thanks for watching!"
	QuitNoRoom         = "Sorry - there is no room left on the map."
	ErrTextUnknownKey  = "unknown keystroke"
	ErrTextUnknownVerb = "unrecognized message"
	ErrTextNotInGame   = "you are not in the game"
	ErrTextSpectator   = "spectators cannot move"
	ErrTextAlreadyIn   = "you have already joined"
)
