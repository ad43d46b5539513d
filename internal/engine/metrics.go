package engine

import "sync/atomic"

// Metrics - счетчики сервиса. Пишет цикл, читают HTTP и оператор.
type Metrics struct {
	Received int64 // Входящие сообщения
	Sent     int64 // Исходящие сообщения
	Moves    int64 // Ходы и выходы, после которых была рассылка
	Rejected int64 // Ответы ERROR / отказ в PLAY
	Failed   int64 // Нарушения инвариантов
}

func (m *Metrics) IncReceived() { atomic.AddInt64(&m.Received, 1) }
func (m *Metrics) IncSent()     { atomic.AddInt64(&m.Sent, 1) }
func (m *Metrics) IncMoves()    { atomic.AddInt64(&m.Moves, 1) }
func (m *Metrics) IncRejected() { atomic.AddInt64(&m.Rejected, 1) }
func (m *Metrics) IncFailed()   { atomic.AddInt64(&m.Failed, 1) }

// Snapshot - согласованная по каждому полю копия
func (m *Metrics) Snapshot() Metrics {
	return Metrics{
		Received: atomic.LoadInt64(&m.Received),
		Sent:     atomic.LoadInt64(&m.Sent),
		Moves:    atomic.LoadInt64(&m.Moves),
		Rejected: atomic.LoadInt64(&m.Rejected),
		Failed:   atomic.LoadInt64(&m.Failed),
	}
}
