// Package bridge доставляет сигналы диктовки в UI по websocket и принимает
// от UI запросы на вставку текста.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"spaceduck/internal/events"
)

const (
	// Path - путь websocket-эндпоинта.
	Path = "/events"

	outboxSize   = 64
	writeTimeout = 5 * time.Second
)

// Paster вставляет текст в активное приложение.
type Paster interface {
	Paste(text string) error
}

// Frame - исходящее сообщение клиенту.
type Frame struct {
	Event string `json:"event"`
}

// Request - входящее сообщение от клиента.
type Request struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Hub держит подключённых клиентов и рассылает им сигналы.
type Hub struct {
	addr     string
	paster   Paster
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub создаёт хаб. paster может быть nil, тогда запросы вставки игнорируются.
func NewHub(addr string, paster Paster) *Hub {
	h := &Hub{
		addr:    addr,
		paster:  paster,
		clients: make(map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: loopbackOrigin}
	return h
}

// loopbackOrigin пускает только страницы с локального адреса.
// Клиенты без Origin (не браузер) разрешены.
func loopbackOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Handler возвращает http.Handler с эндпоинтом Path.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, h.handleWebSocket)
	return mux
}

// Clients возвращает число подключённых клиентов.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast отправляет сигнал всем клиентам. Медленный клиент теряет сигнал.
func (h *Hub) Broadcast(name string) {
	data, err := json.Marshal(Frame{Event: name})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.enqueue(data)
	}
}

// Run пересылает сигналы шины клиентам до отмены ctx.
func (h *Hub) Run(ctx context.Context, bus *events.Bus) {
	h.forward(ctx, bus.Subscribe(outboxSize))
}

func (h *Hub) forward(ctx context.Context, sub *events.Subscription) {
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case name, ok := <-sub.C():
			if !ok {
				return
			}
			h.Broadcast(name)
		}
	}
}

// ListenAndServe слушает addr до отмены ctx.
func (h *Hub) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              h.addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Мост UI слушает ws://%s%s", h.addr, Path)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Ошибка websocket upgrade: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, outboxSize)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go c.writeLoop()

	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		close(c.send)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		// Соединение рвёт только ошибка чтения кадра, не его содержимое
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Ошибка чтения websocket: %v", err)
			}
			return
		}

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			log.Printf("Некорректное сообщение от UI: %v", err)
			continue
		}
		h.handleRequest(c, req)
	}
}

func (h *Hub) handleRequest(c *client, req Request) {
	switch req.Type {
	case "ping":
		data, _ := json.Marshal(Frame{Event: "pong"})
		h.mu.RLock()
		c.enqueue(data)
		h.mu.RUnlock()

	case "paste":
		if h.paster == nil || req.Text == "" {
			return
		}
		// Вставка эмулирует нажатия, не держим чтение
		go func(text string) {
			if err := h.paster.Paste(text); err != nil {
				log.Printf("Ошибка вставки текста: %v", err)
			}
		}(req.Text)

	default:
		log.Printf("Неизвестный запрос от UI: %q", req.Type)
	}
}

// enqueue вызывается под h.mu, поэтому send ещё не закрыт.
func (c *client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		log.Printf("Клиент UI не успевает, сигнал потерян")
	}
}

func (c *client) writeLoop() {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Ошибка записи websocket: %v", err)
			// Чтение получит ошибку и удалит клиента
			c.conn.Close()
			for range c.send {
			}
			return
		}
	}
}
