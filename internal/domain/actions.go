package domain

// ActionType - Внутренний числовой идентификатор действия по нажатию клавиши
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionStep               // Один шаг
	ActionRun                // Бег до упора
	ActionQuit
)

// KeyAction - разобранное нажатие клавиши
type KeyAction struct {
	Type ActionType
	Dx   int
	Dy   int
}

type direction struct{ dx, dy int }

// Маппинг клавиш -> направление (строчные: шаг, заглавные: бег)
var keyDirections = map[byte]direction{
	'h': {-1, 0},
	'l': {1, 0},
	'j': {0, 1},
	'k': {0, -1},
	'y': {-1, -1},
	'u': {1, -1},
	'b': {-1, 1},
	'n': {1, 1},
}

// Маппинг для логов Domain -> String
var actionToString = map[ActionType]string{
	ActionStep: "STEP",
	ActionRun:  "RUN",
	ActionQuit: "QUIT",
}

// ParseKey конвертирует символ клавиши в действие.
// Регистр здесь значим: 'h' - шаг влево, 'H' - бег влево.
func ParseKey(key byte) KeyAction {
	if key == 'q' || key == 'Q' {
		return KeyAction{Type: ActionQuit}
	}
	if d, ok := keyDirections[key]; ok {
		return KeyAction{Type: ActionStep, Dx: d.dx, Dy: d.dy}
	}
	if key >= 'A' && key <= 'Z' {
		if d, ok := keyDirections[key-'A'+'a']; ok {
			return KeyAction{Type: ActionRun, Dx: d.dx, Dy: d.dy}
		}
	}
	return KeyAction{Type: ActionUnknown}
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// KeyFor - обратное преобразование: клавиша шага в направлении (dx, dy).
// Для нулевого направления возвращает 0.
func KeyFor(dx, dy int) byte {
	for key, d := range keyDirections {
		if d.dx == dx && d.dy == dy {
			return key
		}
	}
	return 0
}
