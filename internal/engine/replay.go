package engine

import (
	"fmt"

	"nuggets-server/internal/domain"
	"nuggets-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// RecordConfig - правила партии, сохраненные в записи
func RecordConfig(rec *domain.GameRecord) Config {
	return Config{
		GoldTotal: rec.GoldTotal,
		MinPiles:  rec.MinPiles,
		MaxPiles:  rec.MaxPiles,
		Seed:      rec.Seed,
		Plain:     rec.Plain,
	}
}

// Replay проигрывает запись на той же карте. Исходящие сообщения уходят в sender.
// Сид в записи всегда явный, поэтому раскладка и старты совпадают с оригиналом.
func Replay(grid *domain.Grid, rec *domain.GameRecord, sender Sender) (*GameService, error) {
	if rec.Seed == 0 {
		return nil, fmt.Errorf("%w: record %s has no seed", domain.ErrInvalidConfig, rec.SessionID)
	}
	world, err := NewWorld(grid, RecordConfig(rec))
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", rec.SessionID, err)
	}

	svc := NewService(world, sender)
	for _, msg := range rec.Messages {
		if svc.IsOver() {
			break
		}
		svc.HandleMessage(msg.From, msg.Text)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "replay",
		"session":   rec.SessionID,
		"messages":  len(rec.Messages),
		"remaining": world.Remaining(),
		"over":      world.IsOver(),
	}).Info("Replay finished")
	return svc, nil
}
