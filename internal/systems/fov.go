package systems

import (
	"nuggets-server/internal/domain"
	"nuggets-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ComputeVisible возвращает маску видимости размера карты:
// для видимой клетки - ее символ на живой карте, для остальных - пробел.
func ComputeVisible(live []byte, w, h int, pos domain.Position) []byte {
	mask := make([]byte, len(live))

	visible := 0
	for idx := range live {
		target := domain.Position{X: idx % w, Y: idx / w}
		if HasLineOfSight(live, w, h, pos, target) {
			mask[idx] = live[idx]
			visible++
		} else {
			mask[idx] = domain.TileSolid
		}
	}

	if logger.Log.IsLevelEnabled(logrus.DebugLevel) {
		logger.Log.WithFields(logrus.Fields{
			"component":     "fov_system",
			"observer_pos":  pos,
			"visible_tiles": visible,
		}).Debug("FOV calculation complete.")
	}

	return mask
}
