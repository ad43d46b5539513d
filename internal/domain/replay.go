package domain

// RecordedMessage - одно входящее сообщение в том порядке, в котором его обработал цикл
type RecordedMessage struct {
	Seq  int    `json:"seq"`
	From Addr   `json:"from"` // Кто прислал
	Text string `json:"text"` // Что прислал (как есть, до разбора)
}

// GameRecord - полная запись партии.
// Вместе с сидом и правилами этого достаточно, чтобы проиграть партию заново.
type GameRecord struct {
	SessionID string            `json:"sessionId"`
	Seed      int64             `json:"seed"`
	GoldTotal int               `json:"goldTotal"`
	MinPiles  int               `json:"minPiles"`
	MaxPiles  int               `json:"maxPiles"`
	Plain     bool              `json:"plain"`
	Timestamp int64             `json:"timestamp"`
	MapName   string            `json:"mapName"`
	Messages  []RecordedMessage `json:"messages"`
}
