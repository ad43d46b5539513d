package engine

import (
	"nuggets-server/internal/domain"
)

// GameRecorder копит входящие сообщения партии в domain.GameRecord
type GameRecorder struct {
	record *domain.GameRecord
}

func NewGameRecorder(record *domain.GameRecord) *GameRecorder {
	return &GameRecorder{record: record}
}

func (r *GameRecorder) Record(from domain.Addr, text string) {
	r.record.Messages = append(r.record.Messages, domain.RecordedMessage{
		Seq:  len(r.record.Messages),
		From: from,
		Text: text,
	})
}

func (r *GameRecorder) GameRecord() *domain.GameRecord {
	return r.record
}
