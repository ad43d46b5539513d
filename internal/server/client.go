package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"nuggets-server/internal/domain"
	"nuggets-server/internal/network"
	"nuggets-server/pkg/api"
	"nuggets-server/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 256
)

const SchemeWS = "ws"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WSTransport - транспорт схемы "ws": один WebSocket кадр - одно сообщение.
type WSTransport struct {
	router *network.Router

	mu      sync.RWMutex
	clients map[domain.Addr]*Client
}

func NewWSTransport(router *network.Router) *WSTransport {
	return &WSTransport{
		router:  router,
		clients: make(map[domain.Addr]*Client),
	}
}

func (t *WSTransport) Scheme() string { return SchemeWS }

// Send кладет сообщение в очередь клиента. Медленный клиент теряет сообщения.
func (t *WSTransport) Send(addr domain.Addr, text string) error {
	// Держим RLock до отправки: unregister закрывает канал под Lock
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.clients[addr]
	if !ok {
		return fmt.Errorf("ws client %s is gone", addr)
	}

	select {
	case c.send <- text:
		return nil
	default:
		return fmt.Errorf("ws client %s: send buffer full", addr)
	}
}

// Count - число подключенных клиентов
func (t *WSTransport) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.clients)
}

// Handler апгрейдит HTTP запрос до WebSocket. ctx ограничивает доставку в цикл.
func (t *WSTransport) Handler(ctx context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Log.WithError(err).Error("Upgrade error")
			return
		}

		client := newClient(t, conn)
		t.register(client)
		client.log.Info("Client connected")

		// Запускаем пампы
		go client.writePump()
		go client.readPump(ctx)
	}
}

func (t *WSTransport) register(c *Client) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clients[c.addr] = c
}

func (t *WSTransport) unregister(c *Client) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.clients[c.addr]; ok {
		delete(t.clients, c.addr)
		close(c.send)
	}
}

// Client - посредник между Websocket и игровым циклом
type Client struct {
	transport *WSTransport
	conn      *websocket.Conn
	send      chan string
	addr      domain.Addr

	quitSeen atomic.Bool // Сервер уже прислал QUIT
	log      *logrus.Entry
}

func newClient(t *WSTransport, conn *websocket.Conn) *Client {
	addr := network.MakeAddr(SchemeWS, uuid.New().String())
	return &Client{
		transport: t,
		conn:      conn,
		send:      make(chan string, sendBuffer),
		addr:      addr,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "ws_client",
			"addr":      addr,
		}),
	}
}

// readPump читает сообщения клиента и передает их в цикл
func (c *Client) readPump(ctx context.Context) {
	joined := false
	defer func() {
		c.transport.unregister(c)
		if err := c.conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		// Оборванное соединение равносильно выходу из игры
		if joined && !c.quitSeen.Load() {
			_ = c.transport.router.Deliver(ctx, network.Datagram{From: c.addr, Text: "KEY Q"})
		}
		c.log.Info("Client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Warn("WS read error")
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		text := string(data)
		if cmd := api.ParseCommand(text); cmd.Action == api.VerbPlay || cmd.Action == api.VerbSpectate {
			joined = true
		}
		if err := c.transport.router.Deliver(ctx, network.Datagram{From: c.addr, Text: text}); err != nil {
			return
		}
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
				c.log.WithError(err).Debug("write message failed")
				return
			}
			// После QUIT клиент должен отключиться, закрываем сами
			if strings.HasPrefix(message, "QUIT ") {
				c.quitSeen.Store(true)
				closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
				_ = c.conn.WriteMessage(websocket.CloseMessage, closeMsg)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
