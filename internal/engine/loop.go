package engine

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"nuggets-server/internal/network"
	"nuggets-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Команды оператора (stdin)
const (
	ControlQuit   = "quit"
	ControlStatus = "status"
)

// PlayerStatus - строка снимка состояния
type PlayerStatus struct {
	Letter string `json:"letter"`
	Name   string `json:"name"`
	Gold   int    `json:"gold"`
	Active bool   `json:"active"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// Status - неизменяемый снимок партии для отладки
type Status struct {
	Seed         int64          `json:"seed"`
	Plain        bool           `json:"plain"`
	Remaining    int            `json:"remaining"`
	Over         bool           `json:"over"`
	HasSpectator bool           `json:"hasSpectator"`
	Players      []PlayerStatus `json:"players"`
	Metrics      Metrics        `json:"metrics"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Loop - единственная горутина, которой принадлежит мир.
type Loop struct {
	service *GameService
	inbound <-chan network.Datagram
	control <-chan string

	status atomic.Value // Status
	log    *logrus.Entry
}

func NewLoop(service *GameService, inbound <-chan network.Datagram, control <-chan string) *Loop {
	l := &Loop{
		service: service,
		inbound: inbound,
		control: control,
		log:     logger.Log.WithField("component", "game_loop"),
	}
	l.publish()
	return l
}

// Run обрабатывает события по одному до конца партии, команды quit или отмены ctx.
// Конец партии и quit - нормальное завершение (nil).
func (l *Loop) Run(ctx context.Context) error {
	l.log.Info("Game loop started")
	defer l.log.Info("Game loop stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case d, ok := <-l.inbound:
			if !ok {
				return nil
			}
			l.service.HandleMessage(d.From, d.Text)
			l.publish()
			if l.service.IsOver() {
				return nil
			}

		case line, ok := <-l.control:
			if !ok {
				// stdin закрыт: дальше работаем только с сетью
				l.control = nil
				continue
			}
			switch strings.TrimSpace(line) {
			case ControlQuit:
				l.log.Info("Operator requested shutdown")
				return nil
			case ControlStatus:
				l.logStatus()
			case "":
			default:
				l.log.WithField("command", line).Warn("Unknown operator command")
			}
		}
	}
}

// Status - последний опубликованный снимок. Безопасно из любой горутины.
func (l *Loop) Status() Status {
	return l.status.Load().(Status)
}

func (l *Loop) publish() {
	l.status.Store(Snapshot(l.service))
}

// Snapshot снимает состояние с сервиса. Вызывать из горутины цикла.
func Snapshot(s *GameService) Status {
	w := s.World()
	_, hasSpectator := w.Players.Spectator()
	st := Status{
		Seed:         w.Seed,
		Plain:        w.Plain,
		Remaining:    w.Remaining(),
		Over:         w.IsOver(),
		HasSpectator: hasSpectator,
		Metrics:      s.Metrics.Snapshot(),
		UpdatedAt:    time.Now(),
	}
	for _, p := range w.Players.All() {
		st.Players = append(st.Players, PlayerStatus{
			Letter: string(p.Letter),
			Name:   p.Name,
			Gold:   p.Gold,
			Active: p.Active,
			X:      p.Pos.X,
			Y:      p.Pos.Y,
		})
	}
	return st
}

func (l *Loop) logStatus() {
	st := l.Status()
	l.log.WithFields(logrus.Fields{
		"remaining": st.Remaining,
		"players":   len(st.Players),
		"spectator": st.HasSpectator,
		"received":  st.Metrics.Received,
		"sent":      st.Metrics.Sent,
		"moves":     st.Metrics.Moves,
		"rejected":  st.Metrics.Rejected,
	}).Info("Status")
	for _, p := range st.Players {
		l.log.WithFields(logrus.Fields{
			"letter": p.Letter,
			"name":   p.Name,
			"gold":   p.Gold,
			"active": p.Active,
		}).Info("Player")
	}
}
