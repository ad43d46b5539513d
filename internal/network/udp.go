package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"nuggets-server/internal/domain"
	"nuggets-server/pkg/api"
	"nuggets-server/pkg/logger"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const SchemeUDP = "udp"

// maxLimiters - сколько отправителей помним одновременно
const maxLimiters = 1024

// UDPTransport - один UDP сокет. Одна датаграмма - одно сообщение.
type UDPTransport struct {
	conn *net.UDPConn

	limit rate.Limit
	burst int

	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	maxLimiters int

	dropped atomic.Int64

	log *logrus.Entry
}

// ListenUDP открывает сокет. limit <= 0 отключает ограничение частоты.
func ListenUDP(addr string, limit float64, burst int) (*UDPTransport, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	t := &UDPTransport{
		conn:        conn,
		limit:       rate.Limit(limit),
		burst:       burst,
		limiters:    make(map[string]*rate.Limiter),
		maxLimiters: maxLimiters,
	}
	t.log = logger.Log.WithFields(logrus.Fields{
		"component": "udp_transport",
		"port":      t.Port(),
	})
	return t, nil
}

func (t *UDPTransport) Scheme() string { return SchemeUDP }

// Port - реальный порт (важно при адресе ":0")
func (t *UDPTransport) Port() int {
	return t.conn.LocalAddr().(*net.UDPAddr).Port
}

// Dropped - сколько датаграмм отброшено лимитером
func (t *UDPTransport) Dropped() int64 {
	return t.dropped.Load()
}

// Serve читает сокет до отмены ctx и передает датаграммы в роутер
func (t *UDPTransport) Serve(ctx context.Context, router *Router) error {
	go func() {
		<-ctx.Done()
		t.conn.Close()
	}()

	t.log.Info("UDP transport listening")
	buf := make([]byte, api.MaxMessageBytes)
	for {
		n, from, err := t.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			t.log.WithError(err).Warn("Read failed")
			continue
		}

		key := from.String()
		if !t.allow(key) {
			t.dropped.Add(1)
			t.log.WithField("from", key).Debug("Datagram rate limited")
			continue
		}

		d := Datagram{From: MakeAddr(SchemeUDP, key), Text: string(buf[:n])}
		if err := router.Deliver(ctx, d); err != nil {
			return nil
		}
	}
}

func (t *UDPTransport) allow(key string) bool {
	if t.limit <= 0 {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	limiter, ok := t.limiters[key]
	if !ok {
		if len(t.limiters) >= t.maxLimiters {
			t.evictLocked()
		}
		limiter = rate.NewLimiter(t.limit, t.burst)
		t.limiters[key] = limiter
	}
	return limiter.Allow()
}

// Forget убирает лимитер отправителя, который покинул игру
func (t *UDPTransport) Forget(addr domain.Addr) {
	if SchemeOf(addr) != SchemeUDP {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.limiters, EndpointOf(addr))
}

// evictLocked освобождает место в таблице лимитеров. Сначала уходят
// простаивающие (ведро полное), если таких нет - любой один. Вызывать под mu.
func (t *UDPTransport) evictLocked() {
	for key, l := range t.limiters {
		if l.Tokens() >= float64(t.burst) {
			delete(t.limiters, key)
		}
	}
	if len(t.limiters) < t.maxLimiters {
		return
	}
	for key := range t.limiters {
		delete(t.limiters, key)
		break
	}
}

// Tracked - число отправителей в таблице лимитеров
func (t *UDPTransport) Tracked() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.limiters)
}

// Send отправляет одно сообщение. Слишком длинное обрезается до размера датаграммы.
func (t *UDPTransport) Send(addr domain.Addr, text string) error {
	to, err := net.ResolveUDPAddr("udp", EndpointOf(addr))
	if err != nil {
		return fmt.Errorf("send to %s: %w", addr, err)
	}
	if len(text) > api.MaxMessageBytes {
		text = text[:api.MaxMessageBytes]
	}
	if _, err := t.conn.WriteToUDP([]byte(text), to); err != nil {
		return fmt.Errorf("send to %s: %w", addr, err)
	}
	return nil
}

func (t *UDPTransport) Close() error {
	return t.conn.Close()
}
