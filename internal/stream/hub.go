package stream

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"antarctic-dashboard/internal/models"
	"antarctic-dashboard/internal/views"
)

type Config struct {
	// BufferSize is the per-subscription queue length.
	BufferSize   int
	PingInterval time.Duration
	WriteTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		BufferSize:   8,
		PingInterval: 30 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Message is the JSON document written to websocket clients.
type Message struct {
	Type      string            `json:"type"`
	SubID     string            `json:"sub_id,omitempty"`
	Dashboard *models.Dashboard `json:"dashboard,omitempty"`
}

type Subscription struct {
	ID string
	ch chan models.Dashboard
}

func (s *Subscription) C() <-chan models.Dashboard {
	return s.ch
}

// Hub fans dashboards out to websocket subscribers. Slow subscribers drop
// updates rather than blocking the feed.
type Hub struct {
	config Config
	log    *slog.Logger

	mu   sync.RWMutex
	subs map[string]*Subscription
	last *models.Dashboard
}

func NewHub(cfg Config, log *slog.Logger) *Hub {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = DefaultConfig().PingInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultConfig().WriteTimeout
	}
	return &Hub{
		config: cfg,
		log:    log,
		subs:   make(map[string]*Subscription),
	}
}

func (h *Hub) Subscribe() *Subscription {
	sub, _ := h.subscribeLatest()
	return sub
}

// subscribeLatest registers a subscription and returns the dashboard published
// before it. Every dashboard queued on the subscription is newer.
func (h *Hub) subscribeLatest() (*Subscription, *models.Dashboard) {
	sub := &Subscription{
		ID: uuid.NewString(),
		ch: make(chan models.Dashboard, h.config.BufferSize),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[sub.ID] = sub
	return sub, h.last
}

func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	delete(h.subs, id)
	h.mu.Unlock()

	if ok {
		close(sub.ch)
	}
}

// Publish delivers d to every subscriber without blocking.
func (h *Hub) Publish(d models.Dashboard) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = &d
	for _, sub := range h.subs {
		select {
		case sub.ch <- d:
		default:
			h.log.Debug("stream subscriber lagging, dropping update", "sub", sub.ID, "cycle", d.Cycle)
		}
	}
}

// OnTick publishes the dashboard derived from snap.
func (h *Hub) OnTick(_ context.Context, snap models.Snapshot) {
	h.Publish(views.Build(snap))
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades the request and streams one message per cycle, starting
// with the most recent dashboard if there is one.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn("websocket upgrade failed", "error", err)
			return
		}
		defer func() { _ = conn.Close() }()

		sub, latest := h.subscribeLatest()
		defer h.Unsubscribe(sub.ID)
		h.log.Info("stream client connected", "sub", sub.ID, "remote", r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Clients send nothing; reading only detects the close.
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		if err := h.write(conn, Message{Type: "hello", SubID: sub.ID, Dashboard: latest}); err != nil {
			return
		}

		ping := time.NewTicker(h.config.PingInterval)
		defer ping.Stop()

		for {
			select {
			case <-ctx.Done():
				h.log.Info("stream client disconnected", "sub", sub.ID)
				return
			case <-ping.C:
				deadline := time.Now().Add(h.config.WriteTimeout)
				if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					return
				}
			case d, ok := <-sub.C():
				if !ok {
					return
				}
				if err := h.write(conn, Message{Type: "tick", SubID: sub.ID, Dashboard: &d}); err != nil {
					return
				}
			}
		}
	}
}

func (h *Hub) write(conn *websocket.Conn, msg Message) error {
	if err := conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}
