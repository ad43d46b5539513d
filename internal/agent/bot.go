package agent

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"nuggets-server/internal/domain"
	"nuggets-server/internal/network"
	"nuggets-server/pkg/api"
	"nuggets-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// SchemeBot - схема адресов встроенных ботов
const SchemeBot = "bot"

const inboxSize = 64

// minRetry - нижняя граница паузы перед повтором хода без ответа
const minRetry = 50 * time.Millisecond

// steps - направления шага. Диагонали первыми: при равной длине пути они выгоднее.
var steps = []domain.Position{
	{X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1},
	{X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 0},
}

// Bot - "игрок-компьютер" (headless agent).
// Подключается к серверу так же, как обычный клиент: шлет PLAY и KEY через роутер
// и получает те же сообщения, что и сетевые игроки.
//
// Жизненный цикл:
//  1. Pool.Spawn -> регистрация адреса, получение личного канала (Inbox).
//  2. Run -> PLAY, затем ответ на каждый DISPLAY одним ходом.
//     Если DISPLAY не пришел за retry, ход повторяется по последней карте.
//  3. QUIT -> выход.
type Bot struct {
	Name  string
	Addr  domain.Addr
	Inbox chan string

	think time.Duration
	retry time.Duration
	rng   *rand.Rand

	lastDisplay string
	heading     domain.Position // Направление блуждания

	letter byte
	rows   int
	cols   int

	log *logrus.Entry
}

// Run - цикл жизни бота. Должен быть запущен в горутине.
func (b *Bot) Run(ctx context.Context, router *network.Router) error {
	b.log.Info("Bot joining")
	if err := b.deliver(ctx, router, api.VerbPlay+" "+b.Name); err != nil {
		return err
	}

	var retry <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-retry:
			// Ход потерялся или уперся в занятую клетку: пробуем снова
			retry = nil
			key := b.chooseKey(b.lastDisplay)
			if key == 0 {
				continue
			}
			b.log.WithField("key", string(key)).Debug("No display, resending")
			if err := b.sendKey(ctx, router, key); err != nil {
				return err
			}
			retry = time.After(b.retry)
		case msg, ok := <-b.Inbox:
			if !ok {
				return nil
			}
			done, key := b.react(msg)
			if done {
				b.log.WithField("reason", msg).Info("Bot left")
				return nil
			}
			if key == 0 {
				continue
			}
			if b.think > 0 {
				select {
				case <-time.After(b.think):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			if err := b.sendKey(ctx, router, key); err != nil {
				return err
			}
			retry = time.After(b.retry)
		}
	}
}

// react разбирает одно сообщение сервера. Возвращает клавишу для ответа (0 - не отвечать).
func (b *Bot) react(msg string) (done bool, key byte) {
	switch {
	case strings.HasPrefix(msg, "QUIT"):
		return true, 0
	case strings.HasPrefix(msg, "OK "):
		if len(msg) > 3 {
			b.letter = msg[3]
		}
	case strings.HasPrefix(msg, "GRID "):
		fields := strings.Fields(msg)
		if len(fields) == 3 {
			b.rows, _ = strconv.Atoi(fields[1])
			b.cols, _ = strconv.Atoi(fields[2])
		}
	case strings.HasPrefix(msg, "DISPLAY\n"):
		if b.letter == 0 {
			return false, 0
		}
		b.lastDisplay = strings.TrimPrefix(msg, "DISPLAY\n")
		return false, b.chooseKey(b.lastDisplay)
	}
	return false, 0
}

// chooseKey - мозг бота: кратчайший путь по известной карте к ближайшей куче,
// иначе блуждание. Выбираются только шаги на проходимые клетки DISPLAY.
func (b *Bot) chooseKey(display string) byte {
	if display == "" {
		return 0
	}
	lines := strings.Split(strings.TrimSuffix(display, "\n"), "\n")
	cell := func(p domain.Position) byte {
		if p.Y < 0 || p.Y >= len(lines) || p.X < 0 || p.X >= len(lines[p.Y]) {
			return domain.TileSolid
		}
		return lines[p.Y][p.X]
	}

	self, found := domain.Position{}, false
	var piles []domain.Position
	for y, line := range lines {
		for x := 0; x < len(line); x++ {
			switch line[x] {
			case domain.TileSelf:
				self, found = domain.Position{X: x, Y: y}, true
			case domain.TileGold:
				piles = append(piles, domain.Position{X: x, Y: y})
			}
		}
	}
	if !found {
		return 0
	}

	var open []domain.Position
	for _, d := range steps {
		if canStep(cell(self.Shift(d.X, d.Y))) {
			open = append(open, d)
		}
	}
	if len(open) == 0 {
		return 0
	}

	if len(piles) > 0 {
		dist := distances(lines, piles)
		best, bestDist := domain.Position{}, -1
		for _, d := range open {
			t := self.Shift(d.X, d.Y)
			if v, ok := dist[t]; ok && (bestDist < 0 || v < bestDist) {
				best, bestDist = d, v
			}
		}
		if bestDist >= 0 {
			return domain.KeyFor(best.X, best.Y)
		}
	}

	// Золото недостижимо или не видно: бродим, по возможности не меняя курс
	for _, d := range open {
		if d == b.heading && b.rng.Intn(4) != 0 {
			return domain.KeyFor(d.X, d.Y)
		}
	}
	b.heading = open[b.rng.Intn(len(open))]
	return domain.KeyFor(b.heading.X, b.heading.Y)
}

// canStep - клетка, куда бот готов шагнуть. Чужие буквы обходим:
// в простом режиме шаг на них отвергается.
func canStep(c byte) bool {
	return c == domain.TileFloor || c == domain.TilePassage || c == domain.TileGold
}

// distances - BFS от всех куч сразу по проходимым клеткам карты.
// Результат: число шагов до ближайшей кучи.
func distances(lines []string, piles []domain.Position) map[domain.Position]int {
	dist := make(map[domain.Position]int, len(piles))
	queue := make([]domain.Position, 0, len(piles))
	for _, p := range piles {
		dist[p] = 0
		queue = append(queue, p)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range steps {
			next := cur.Shift(d.X, d.Y)
			if next.Y < 0 || next.Y >= len(lines) || next.X < 0 || next.X >= len(lines[next.Y]) {
				continue
			}
			if _, seen := dist[next]; seen || !canStep(lines[next.Y][next.X]) {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}
	return dist
}

func (b *Bot) sendKey(ctx context.Context, router *network.Router, key byte) error {
	return b.deliver(ctx, router, fmt.Sprintf("%s %c", api.VerbKey, key))
}

func (b *Bot) deliver(ctx context.Context, router *network.Router, text string) error {
	return router.Deliver(ctx, network.Datagram{From: b.Addr, Text: text})
}

// Pool - транспорт схемы "bot": доставляет исходящие сообщения в Inbox ботов.
type Pool struct {
	mu   sync.RWMutex
	bots map[domain.Addr]*Bot
}

func NewPool() *Pool {
	return &Pool{bots: make(map[domain.Addr]*Bot)}
}

func (p *Pool) Scheme() string { return SchemeBot }

// Send не блокирует цикл: если бот не успевает, сообщение теряется.
func (p *Pool) Send(addr domain.Addr, text string) error {
	p.mu.RLock()
	b, ok := p.bots[addr]
	p.mu.RUnlock()
	if !ok {
		return fmt.Errorf("bot %s is gone", addr)
	}

	select {
	case b.Inbox <- text:
		return nil
	default:
		return fmt.Errorf("bot %s: inbox full", addr)
	}
}

// Spawn создает бота. seed задает его случайные блуждания.
func (p *Pool) Spawn(index int, seed int64, think time.Duration) *Bot {
	name := fmt.Sprintf("Bot-%d", index)
	addr := network.MakeAddr(SchemeBot, strconv.Itoa(index))
	b := &Bot{
		Name:  name,
		Addr:  addr,
		Inbox: make(chan string, inboxSize),
		think: think,
		retry: max(think, minRetry),
		rng:   rand.New(rand.NewSource(seed + int64(index))),
		log: logger.Log.WithFields(logrus.Fields{
			"component": "bot",
			"addr":      addr,
		}),
	}

	p.mu.Lock()
	p.bots[addr] = b
	p.mu.Unlock()
	return b
}

// Remove отключает бота
func (p *Pool) Remove(addr domain.Addr) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.bots, addr)
}

// Start регистрирует пул в роутере и запускает count ботов
func (p *Pool) Start(ctx context.Context, router *network.Router, count int, seed int64, think time.Duration) {
	router.Register(p)
	for i := 1; i <= count; i++ {
		b := p.Spawn(i, seed, think)
		go func() {
			defer p.Remove(b.Addr)
			if err := b.Run(ctx, router); err != nil && ctx.Err() == nil {
				b.log.WithError(err).Warn("Bot stopped")
			}
		}()
	}
}
