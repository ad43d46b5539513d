package domain

// Символы клеток (формат файла карты)
const (
	TileFloor   byte = '.' // Пол комнаты
	TilePassage byte = '#' // Проход между комнатами
	TileGold    byte = '*' // Куча золота
	TileSolid   byte = ' ' // Скала; в масках видимости - "не видно"
	TileWallH   byte = '-'
	TileWallV   byte = '|'
	TileCorner  byte = '+'
	TileSelf    byte = '@' // Только для отображения: сам игрок
)

// Ограничения игры
const (
	MaxPlayers    = 26
	MaxNameLength = 50
)

// Правила по умолчанию
const (
	DefaultGoldTotal = 250
	DefaultMinPiles  = 10
	DefaultMaxPiles  = 30
)

// IsLetter - клетка занята игроком
func IsLetter(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

// IsTransparent - сквозь клетку можно смотреть.
// Проходы '#' взгляд не пропускают, как и стены.
func IsTransparent(c byte) bool {
	return c == TileFloor || c == TileGold || IsLetter(c)
}

// IsWalkable - на клетку можно наступить
func IsWalkable(c byte) bool {
	return c == TileFloor || c == TilePassage || c == TileGold || IsLetter(c)
}

// IsCollectible - то, что память игрока не должна хранить устаревшим
func IsCollectible(c byte) bool {
	return c == TileGold || IsLetter(c)
}
