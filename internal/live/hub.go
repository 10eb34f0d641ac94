package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"mealprep/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 4 * 1024
	sendBuffer = 16
)

// Message types
const (
	TypePlan  = "plan"
	TypeError = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is what subscribers receive
type Message struct {
	Type  string            `json:"type"`
	Date  string            `json:"date"`
	Plan  *models.DailyPlan `json:"plan,omitempty"`
	Error string            `json:"error,omitempty"`
}

// SnapshotFunc computes the plan sent to a subscriber right after it connects
type SnapshotFunc func(ctx context.Context, date string) (models.DailyPlan, error)

// Hub fans recomputed plans out to websocket subscribers of a delivery date
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	closed   bool
	snapshot SnapshotFunc

	wg  sync.WaitGroup
	log *zap.SugaredLogger
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	date string
	send chan []byte

	// notified is set once a Notify reached the client; a snapshot computed
	// earlier is then stale and not sent.
	notified atomic.Bool
}

// NewHub creates an empty hub
func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

// OnSubscribe sets the function used to greet new subscribers
func (h *Hub) OnSubscribe(fn SnapshotFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snapshot = fn
}

// ServeWS upgrades the request and subscribes it to the date query parameter
func (h *Hub) ServeWS(c *gin.Context) {
	date := c.Query("date")
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "error", err)
		return
	}

	cl := &client{
		hub:  h,
		conn: conn,
		date: date,
		send: make(chan []byte, sendBuffer),
	}
	snapshot, ok := h.register(cl)
	if !ok {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}

	go cl.writePump()
	go cl.readPump()

	h.log.Debugw("websocket subscribed", "date", date)

	if snapshot == nil {
		return
	}
	msg := Message{Type: TypePlan, Date: date}
	plan, err := snapshot(c.Request.Context(), date)
	if err != nil {
		msg.Type, msg.Error = TypeError, err.Error()
	} else {
		msg.Plan = &plan
	}
	h.deliverSnapshot(cl, msg)
}

// Notify sends plan to every subscriber of its date. Slow subscribers whose
// buffer is full miss the update.
func (h *Hub) Notify(_ context.Context, plan models.DailyPlan) error {
	data, err := json.Marshal(Message{Type: TypePlan, Date: plan.Date, Plan: &plan})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for cl := range h.clients {
		if cl.date != plan.Date {
			continue
		}
		cl.notified.Store(true)
		select {
		case cl.send <- data:
		default:
			h.log.Warnw("websocket buffer full, dropping plan", "date", plan.Date)
		}
	}
	return nil
}

// Dates returns the dates that currently have subscribers, sorted
func (h *Hub) Dates() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[string]struct{})
	dates := []string{}
	for cl := range h.clients {
		if _, ok := seen[cl.date]; ok {
			continue
		}
		seen[cl.date] = struct{}{}
		dates = append(dates, cl.date)
	}
	sort.Strings(dates)
	return dates
}

// Subscribers returns the number of connections watching date
func (h *Hub) Subscribers(date string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for cl := range h.clients {
		if cl.date == date {
			n++
		}
	}
	return n
}

// Close disconnects every subscriber and waits for their pumps to exit
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	for cl := range h.clients {
		delete(h.clients, cl)
		close(cl.send)
	}
	h.mu.Unlock()

	h.wg.Wait()
}

func (h *Hub) register(cl *client) (SnapshotFunc, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	h.clients[cl] = struct{}{}
	h.wg.Add(2)
	return h.snapshot, true
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}

// deliverSnapshot queues the greeting message unless a newer plan already
// reached the client. The write lock excludes a concurrent Notify.
func (h *Hub) deliverSnapshot(cl *client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Errorw("failed to encode websocket message", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; !ok {
		return
	}
	if cl.notified.Load() {
		h.log.Debugw("dropping stale snapshot", "date", cl.date)
		return
	}
	select {
	case cl.send <- data:
	default:
		h.log.Warnw("websocket buffer full, dropping message", "date", cl.date)
	}
}

// readPump drains the connection; subscribers never send commands
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
		c.hub.wg.Done()
	}()

	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debugw("websocket closed", "date", c.date, "error", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.hub.wg.Done()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
