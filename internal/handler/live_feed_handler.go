package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/khel-bhoomi/backend/internal/broker"
	"github.com/khel-bhoomi/backend/internal/middleware"
	"github.com/khel-bhoomi/backend/pkg/logger"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is enforced by the CORS layer
	},
}

type feedClient struct {
	conn     *websocket.Conn
	username string
	writeMu  sync.Mutex
}

func (fc *feedClient) writeJSON(v interface{}) error {
	fc.writeMu.Lock()
	defer fc.writeMu.Unlock()
	fc.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return fc.conn.WriteJSON(v)
}

func (fc *feedClient) ping() error {
	fc.writeMu.Lock()
	defer fc.writeMu.Unlock()
	return fc.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// LiveFeedHandler streams newly created posts to authenticated websocket
// clients. The stream is one-way: posts are created over POST /posts, never
// through the socket.
type LiveFeedHandler struct {
	feedBroker broker.FeedBroker
	clients    map[*websocket.Conn]*feedClient
	mu         sync.RWMutex
}

func NewLiveFeedHandler(feedBroker broker.FeedBroker) *LiveFeedHandler {
	return &LiveFeedHandler{
		feedBroker: feedBroker,
		clients:    make(map[*websocket.Conn]*feedClient),
	}
}

// Run subscribes to the feed broker and fans events out to every connected
// client. Call once from main in its own goroutine.
func (h *LiveFeedHandler) Run() {
	events, err := h.feedBroker.Subscribe()
	if err != nil {
		logger.Log.Error("Live feed: subscribe failed", zap.Error(err))
		return
	}

	for event := range events {
		h.broadcast(event)
	}
}

func (h *LiveFeedHandler) broadcast(event broker.PostEvent) {
	h.mu.RLock()
	clients := make([]*feedClient, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.writeJSON(event); err != nil {
			logger.Log.Debug("Live feed: dropping slow client",
				zap.String("username", client.username),
				zap.Error(err),
			)
			h.removeClient(client.conn)
		}
	}
}

// HandleWebSocket upgrades an authenticated request to a feed subscription.
func (h *LiveFeedHandler) HandleWebSocket(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Warn("Live feed: upgrade failed",
			zap.String("username", user.Username),
			zap.Error(err),
		)
		return
	}

	client := &feedClient{
		conn:     conn,
		username: user.Username,
	}

	h.mu.Lock()
	h.clients[conn] = client
	total := len(h.clients)
	h.mu.Unlock()

	logger.Log.Info("Live feed: client connected",
		zap.String("username", user.Username),
		zap.Int("total_clients", total),
	)

	defer h.removeClient(conn)

	h.serveClient(client)
}

// serveClient keeps the connection alive and detects closure. Any inbound
// data frame is discarded.
func (h *LiveFeedHandler) serveClient(client *feedClient) {
	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := client.ping(); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.Debug("Live feed: read error",
					zap.String("username", client.username),
					zap.Error(err),
				)
			}
			return
		}
	}
}

func (h *LiveFeedHandler) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	if _, exists := h.clients[conn]; exists {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}
