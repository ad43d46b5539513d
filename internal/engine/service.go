package engine

import (
	"errors"
	"strings"

	"nuggets-server/internal/domain"
	"nuggets-server/internal/engine/handlers"
	"nuggets-server/internal/engine/handlers/actions"
	"nuggets-server/pkg/api"
	"nuggets-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Sender доставляет исходящие сообщения. network.Router неявно реализует этот интерфейс.
type Sender interface {
	Send(addr domain.Addr, text string) error
}

// Forgetter - отправитель с состоянием по адресу (лимитеры, сессии).
// После QUIT адрес ему больше не нужен.
type Forgetter interface {
	Forget(addr domain.Addr)
}

// Recorder получает каждое обработанное входящее сообщение (для записи партии)
type Recorder interface {
	Record(from domain.Addr, text string)
}

// GameService - протокольный автомат: разбирает сообщения, вызывает хендлеры,
// рассылает результат. Не потокобезопасен: им владеет горутина цикла.
type GameService struct {
	world    *World
	sender   Sender
	recorder Recorder

	Metrics *Metrics

	handlers map[string]handlers.HandlerFunc
	log      *logrus.Entry
}

func NewService(world *World, sender Sender) *GameService {
	s := &GameService{
		world:    world,
		sender:   sender,
		Metrics:  &Metrics{},
		handlers: make(map[string]handlers.HandlerFunc),
		log:      logger.Log.WithField("component", "game_service"),
	}
	s.registerHandlers()
	return s
}

func (s *GameService) registerHandlers() {
	s.handlers[api.VerbPlay] = handlers.WithPayload(actions.HandlePlay)
	s.handlers[api.VerbSpectate] = handlers.WithEmptyPayload(actions.HandleSpectate)
	s.handlers[api.VerbKey] = handlers.WithPayload(actions.HandleKey)
}

// SetRecorder включает запись партии
func (s *GameService) SetRecorder(r Recorder) {
	s.recorder = r
}

func (s *GameService) World() *World {
	return s.world
}

// IsOver - партия закончена, новые сообщения игнорируются
func (s *GameService) IsOver() bool {
	return s.world.IsOver()
}

// HandleMessage обрабатывает одно входящее сообщение целиком
func (s *GameService) HandleMessage(from domain.Addr, text string) {
	if s.world.IsOver() {
		s.log.WithField("from", from).Debug("Message after game over ignored")
		return
	}

	s.Metrics.IncReceived()
	if s.recorder != nil {
		s.recorder.Record(from, text)
	}

	cmd := api.ParseCommand(text)
	reqLog := s.log.WithFields(logrus.Fields{"from": from, "action": cmd.Action})

	handler, ok := s.handlers[cmd.Action]
	if !ok {
		reqLog.Debug("Unknown verb")
		s.Metrics.IncRejected()
		s.send(from, api.FormatError(api.ErrTextUnknownVerb))
		return
	}

	ctx := handlers.Context{World: s.world, From: from}
	res, err := handler(ctx, cmd.Payload)
	if err != nil {
		if reply, ok := replyForError(err); ok {
			reqLog.WithError(err).Debug("Request rejected")
			s.Metrics.IncRejected()
			s.send(from, reply)
			return
		}
		// Нарушение инварианта: сообщение отбрасывается, партия продолжается
		reqLog.WithError(err).Error("Handler failed")
		s.Metrics.IncFailed()
		return
	}

	if res.Evicted != "" {
		s.send(res.Evicted, api.FormatQuit(api.QuitReplaced))
	}
	for _, msg := range res.Replies {
		if isRejection(msg) {
			s.Metrics.IncRejected()
		}
		s.send(from, msg)
	}

	if res.Broadcast {
		s.Metrics.IncMoves()
		s.broadcast()
	}

	if err := s.world.CheckConservation(); err != nil {
		reqLog.WithError(err).Error("Gold invariant broken")
	}
}

// replyForError - ошибки разбора и валидации, на которые клиенту положен ответ
func replyForError(err error) (string, bool) {
	switch {
	case errors.Is(err, api.ErrUnknownKey):
		return api.FormatError(api.ErrTextUnknownKey), true
	case errors.Is(err, api.ErrEmptyName):
		return api.FormatQuit(api.QuitEmptyName), true
	}
	return "", false
}

func isRejection(msg string) bool {
	return strings.HasPrefix(msg, "ERROR ")
}

func isQuit(msg string) bool {
	return strings.HasPrefix(msg, "QUIT ")
}

func (s *GameService) send(addr domain.Addr, text string) {
	s.Metrics.IncSent()
	if err := s.sender.Send(addr, text); err != nil {
		s.log.WithError(err).WithField("to", addr).Warn("Send failed")
	}
	if f, ok := s.sender.(Forgetter); ok && isQuit(text) {
		f.Forget(addr)
	}
}
