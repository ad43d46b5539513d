package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"nuggets-server/internal/domain"
	"nuggets-server/internal/network"
)

func newTestLoop(t *testing.T) (*Loop, chan network.Datagram, chan string, *captureSender) {
	t.Helper()
	w := newTestWorld(t, room(6, 4), false, 1, map[domain.Position]int{{X: 4, Y: 2}: 1})
	out := newCaptureSender()
	inbound := make(chan network.Datagram)
	control := make(chan string)
	return NewLoop(NewService(w, out), inbound, control), inbound, control, out
}

func TestLoop_OperatorQuit(t *testing.T) {
	loop, inbound, control, out := newTestLoop(t)

	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background()) }()

	inbound <- network.Datagram{From: "udp:a", Text: "PLAY Alice"}
	control <- "status"
	control <- "quit\n"

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}

	if out.last("udp:a") == "" {
		t.Error("join was not processed")
	}
	st := loop.Status()
	if len(st.Players) != 1 || st.Players[0].Name != "Alice" || st.Metrics.Received != 1 {
		t.Errorf("status = %+v", st)
	}
}

func TestLoop_ContextCancel(t *testing.T) {
	loop, _, _, _ := newTestLoop(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestLoop_StopsOnGameOver(t *testing.T) {
	w := newTestWorld(t, room(6, 4), false, 1, map[domain.Position]int{{X: 4, Y: 2}: 1})
	joinAt(t, w, "udp:a", "Alice", domain.Position{X: 3, Y: 2}, 0)
	out := newCaptureSender()
	inbound := make(chan network.Datagram, 2)
	loop := NewLoop(NewService(w, out), inbound, nil)

	inbound <- network.Datagram{From: "udp:a", Text: "KEY l"}
	inbound <- network.Datagram{From: "udp:a", Text: "KEY h"}

	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on game over")
	}

	if got := out.last("udp:a"); got != "QUIT GAME OVER:\nA          1 Alice\n" {
		t.Errorf("last message = %q", got)
	}
	if st := loop.Status(); !st.Over || st.Remaining != 0 {
		t.Errorf("status = %+v", st)
	}
	if len(inbound) != 1 {
		t.Error("messages after game over must stay unread")
	}
}
