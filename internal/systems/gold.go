package systems

import (
	"fmt"
	"math/rand"
	"sort"

	"nuggets-server/internal/domain"
)

// GoldLedger ведет учет несобранного золота: индекс клетки -> размер кучи.
// Буферы карты ledger не трогает, это делает мир.
type GoldLedger struct {
	total     int
	remaining int
	piles     map[int]int
}

func NewGoldLedger(total int) *GoldLedger {
	return &GoldLedger{
		total: total,
		piles: make(map[int]int),
	}
}

// Distribute раскладывает total золота по случайным кучам.
// Число куч равномерно в [minPiles, maxPiles], но не больше total и числа свободных клеток.
// Каждая куча получает минимум 1, остаток раздается по одной монете случайным кучам.
// Возвращает индексы клеток, на которые легли кучи.
func (l *GoldLedger) Distribute(rng *rand.Rand, total, minPiles, maxPiles int, freeCells []int) ([]int, error) {
	if total <= 0 {
		return nil, nil
	}
	if minPiles < 1 || maxPiles < minPiles {
		return nil, fmt.Errorf("%w: piles range [%d, %d]", domain.ErrInvalidConfig, minPiles, maxPiles)
	}
	if len(freeCells) == 0 {
		return nil, fmt.Errorf("distribute %d gold: %w", total, domain.ErrNoRoom)
	}

	count := minPiles + rng.Intn(maxPiles-minPiles+1)
	if count > total {
		count = total
	}
	if count > len(freeCells) {
		count = len(freeCells)
	}

	// 1. Минимум по одной монете
	amounts := make([]int, count)
	for i := range amounts {
		amounts[i] = 1
	}
	// 2. Остаток по одной монете
	for left := total - count; left > 0; left-- {
		amounts[rng.Intn(count)]++
	}

	// 3. Размещение на разных клетках (повтор при коллизии)
	placed := make([]int, 0, count)
	for _, amount := range amounts {
		for {
			idx := freeCells[rng.Intn(len(freeCells))]
			if _, taken := l.piles[idx]; taken {
				continue
			}
			l.piles[idx] = amount
			l.remaining += amount
			placed = append(placed, idx)
			break
		}
	}

	l.total = total
	return placed, nil
}

// Collect забирает кучу целиком
func (l *GoldLedger) Collect(idx int) (int, error) {
	amount, ok := l.piles[idx]
	if !ok {
		return 0, fmt.Errorf("collect at %d: %w", idx, domain.ErrNoGoldPile)
	}
	delete(l.piles, idx)
	l.remaining -= amount
	return amount, nil
}

// Drop возвращает золото в игру кучей на клетке. Существующая куча увеличивается.
func (l *GoldLedger) Drop(idx, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("drop %d gold at %d: amount must be positive", amount, idx)
	}
	l.piles[idx] += amount
	l.remaining += amount
	return nil
}

// Forfeit - золото покидает игру навсегда (выход в простом режиме)
func (l *GoldLedger) Forfeit(amount int) {
	l.total -= amount
}

func (l *GoldLedger) Remaining() int { return l.remaining }

func (l *GoldLedger) Total() int { return l.total }

func (l *GoldLedger) Amount(idx int) int { return l.piles[idx] }

// Piles возвращает индексы куч по возрастанию
func (l *GoldLedger) Piles() []int {
	out := make([]int, 0, len(l.piles))
	for idx := range l.piles {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
