package network

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"nuggets-server/internal/domain"
)

// Datagram - одно входящее сообщение от конечной точки
type Datagram struct {
	From domain.Addr
	Text string
}

// Transport - способ доставки сообщений до конечных точек одной схемы (udp, ws)
type Transport interface {
	Scheme() string
	Send(addr domain.Addr, text string) error
}

// Router сводит все транспорты в один входящий канал
// и отправляет исходящие сообщения по схеме адреса.
type Router struct {
	mu         sync.RWMutex
	transports map[string]Transport

	inbound chan Datagram
}

func NewRouter(buffer int) *Router {
	return &Router{
		transports: make(map[string]Transport),
		inbound:    make(chan Datagram, buffer),
	}
}

// Register подключает транспорт. Повторная регистрация схемы заменяет старый.
func (r *Router) Register(t Transport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transports[t.Scheme()] = t
}

// Unregister отключает транспорт схемы
func (r *Router) Unregister(scheme string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.transports, scheme)
}

// Inbound - канал для игрового цикла
func (r *Router) Inbound() <-chan Datagram {
	return r.inbound
}

// Deliver передает датаграмму в цикл. Блокируется, пока цикл занят.
func (r *Router) Deliver(ctx context.Context, d Datagram) error {
	select {
	case r.inbound <- d:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Send отправляет сообщение через транспорт схемы адреса
func (r *Router) Send(addr domain.Addr, text string) error {
	scheme := SchemeOf(addr)

	r.mu.RLock()
	t, ok := r.transports[scheme]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("no transport for %q", addr)
	}
	return t.Send(addr, text)
}

// Forget сбрасывает состояние адреса в его транспорте, если оно там есть
func (r *Router) Forget(addr domain.Addr) {
	r.mu.RLock()
	t := r.transports[SchemeOf(addr)]
	r.mu.RUnlock()

	if f, ok := t.(interface{ Forget(domain.Addr) }); ok {
		f.Forget(addr)
	}
}

// MakeAddr собирает адрес вида "scheme:endpoint"
func MakeAddr(scheme, endpoint string) domain.Addr {
	return domain.Addr(scheme + ":" + endpoint)
}

// SchemeOf - часть адреса до первого двоеточия
func SchemeOf(addr domain.Addr) string {
	scheme, _, _ := strings.Cut(string(addr), ":")
	return scheme
}

// EndpointOf - часть адреса после схемы
func EndpointOf(addr domain.Addr) string {
	_, endpoint, _ := strings.Cut(string(addr), ":")
	return endpoint
}
