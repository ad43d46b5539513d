package handlers

import (
	"nuggets-server/internal/domain"
)

// GameWorld описывает операции мира, доступные хендлерам.
// *engine.World неявно реализует этот интерфейс.
type GameWorld interface {
	Join(addr domain.Addr, name string) (*domain.Player, error)
	Spectate(addr domain.Addr) (evicted domain.Addr, err error)
	Leave(addr domain.Addr) (wasSpectator bool, err error)

	Player(addr domain.Addr) (*domain.Player, bool)
	IsSpectator(addr domain.Addr) bool

	AttemptMove(p *domain.Player, dx, dy int) bool
	Run(p *domain.Player, dx, dy int) int

	Dimensions() (rows, cols int)
	Remaining() int
	PlayerView(p *domain.Player) []byte
	FullView() []byte
}

// Context передает хендлеру мир и отправителя сообщения.
type Context struct {
	World GameWorld
	From  domain.Addr
}

// Result - возвращает результат выполнения команды.
// Хендлер ничего не отправляет сам, он возвращает данные.
type Result struct {
	Replies   []string    // Ответы отправителю, по порядку
	Evicted   domain.Addr // Вытесненный зритель, если был
	Broadcast bool        // Мир изменился: разослать состояние всем
}

// HandlerFunc - это контракт для любой команды (PLAY, SPECTATE, KEY).
type HandlerFunc func(ctx Context, payload string) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}

// Reply - результат из одного или нескольких ответов отправителю
func Reply(msgs ...string) Result {
	return Result{Replies: msgs}
}
