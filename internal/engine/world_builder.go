package engine

import (
	"fmt"
	"math/rand"

	"nuggets-server/internal/domain"
	"nuggets-server/internal/systems"
	"nuggets-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// NewWorld собирает мир из загруженной карты и правил:
// независимые буферы (без игроков и живой), раскладка золота по зерну.
func NewWorld(grid *domain.Grid, cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.ResolveSeed()
	w := &World{
		Grid:       grid,
		unoccupied: grid.Clone(),
		live:       grid.Clone(),
		Gold:       systems.NewGoldLedger(cfg.GoldTotal),
		Players:    NewRegistry(),
		Seed:       seed,
		Plain:      cfg.Plain,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "world",
			"seed":      seed,
		}),
	}

	rng := rand.New(rand.NewSource(seed))
	free := grid.RoomFloorIndexes(w.unoccupied)
	placed, err := w.Gold.Distribute(rng, cfg.GoldTotal, cfg.MinPiles, cfg.MaxPiles, free)
	if err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}
	for _, idx := range placed {
		w.unoccupied[idx] = domain.TileGold
		w.live[idx] = domain.TileGold
	}

	w.log.WithFields(logrus.Fields{
		"piles": len(placed),
		"gold":  cfg.GoldTotal,
		"plain": cfg.Plain,
	}).Info("World built")

	return w, nil
}
