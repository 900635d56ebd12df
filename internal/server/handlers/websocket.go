// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
)

// Subscriber is the subset of *nats.Conn used to follow report events
type Subscriber interface {
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 4 * 1024,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// reportClient forwards report events to one WebSocket peer
type reportClient struct {
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	sub    *nats.Subscription
	config WebSocketConfig
	logger *log.Logger
	once   sync.Once
}

// ReportStreamHandler streams report events published on subject to WebSocket clients
func ReportStreamHandler(subscriber Subscriber, subject string, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if subscriber == nil {
			http.Error(w, "Report stream disabled", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("Failed to upgrade to WebSocket", "err", err)
			return
		}

		client := &reportClient{
			conn:   conn,
			send:   make(chan []byte, 64),
			done:   make(chan struct{}),
			config: DefaultWebSocketConfig(),
			logger: logger,
		}

		sub, err := subscriber.Subscribe(subject, func(msg *nats.Msg) {
			client.enqueue(msg.Data)
		})
		if err != nil {
			logger.Error("Failed to subscribe to report events", "subject", subject, "err", err)
			client.closeConnection()
			return
		}
		client.sub = sub

		welcome, _ := json.Marshal(map[string]interface{}{
			"type":    "welcome",
			"subject": subject,
			"time":    time.Now().UTC(),
		})
		client.enqueue(welcome)

		go client.writePump()
		go client.readPump()

		logger.Debug("Report stream connected", "remote", r.RemoteAddr)
	}
}

// enqueue drops the message when the peer is too slow to keep up
func (c *reportClient) enqueue(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.logger.Warn("Dropping report event for slow WebSocket client")
	}
}

// readPump discards peer messages and tracks liveness
func (c *reportClient) readPump() {
	defer c.closeConnection()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket error", "err", err)
			}
			return
		}
	}
}

// writePump writes queued events and pings to the peer
func (c *reportClient) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case <-c.done:
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// closeConnection unsubscribes and closes the connection once
func (c *reportClient) closeConnection() {
	c.once.Do(func() {
		if c.sub != nil {
			if err := c.sub.Unsubscribe(); err != nil {
				c.logger.Debug("Unsubscribe failed", "err", err)
			}
		}
		close(c.done)
		c.conn.Close()
		c.logger.Debug("Report stream closed", "remote", c.conn.RemoteAddr().String())
	})
}
