package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/c360/signalctl/dispatch"
	"github.com/c360/signalctl/errors"
)

const (
	monitorWriteWait  = 10 * time.Second
	monitorPingPeriod = 30 * time.Second
	monitorQueueSize  = 64
)

// monitorFrame is the JSON payload sent to monitor clients.
type monitorFrame struct {
	Timestamp int64          `json:"timestamp"`
	Event     dispatch.Event `json:"event"`
}

// monitorClient is one connected WebSocket consumer. Writes are serialized
// through the send channel; gorilla connections do not tolerate concurrent
// writers.
type monitorClient struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *monitorClient) close() {
	c.once.Do(func() {
		close(c.send)
		_ = c.conn.Close()
	})
}

// Monitor serves a read-only WebSocket feed of dispatch events for
// operational dashboards, plus optional health and metrics endpoints on the
// same listener. Slow clients are disconnected rather than allowed to stall
// the dispatch path.
type Monitor struct {
	addr     string
	logger   *slog.Logger
	upgrader websocket.Upgrader
	extra    map[string]http.Handler

	server *http.Server

	mu      sync.RWMutex
	clients map[*monitorClient]struct{}
	running bool

	wg sync.WaitGroup
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithMonitorLogger sets the structured logger.
func WithMonitorLogger(l *slog.Logger) MonitorOption {
	return func(m *Monitor) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMonitorHandler mounts an extra handler on the monitor listener, such
// as a health report or the Prometheus scrape endpoint.
func WithMonitorHandler(path string, h http.Handler) MonitorOption {
	return func(m *Monitor) {
		if path != "" && h != nil {
			m.extra[path] = h
		}
	}
}

// NewMonitor creates a Monitor listening on addr at path /monitor.
func NewMonitor(addr string, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		addr:   addr,
		logger: slog.Default(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
		clients: make(map[*monitorClient]struct{}),
		extra:   make(map[string]http.Handler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins serving the feed. The listener runs until Stop.
func (m *Monitor) Start(_ context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/monitor", m.handleWebSocket)
	for path, handler := range m.extra {
		mux.Handle(path, handler)
	}

	m.server = &http.Server{
		Addr:              m.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	m.running = true
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("monitor server failed", "addr", m.addr, "error", err)
		}
	}()

	m.logger.Info("monitor feed listening", "addr", m.addr)
	return nil
}

// Stop shuts the server down and disconnects all clients.
func (m *Monitor) Stop(timeout time.Duration) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	server := m.server
	m.server = nil
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var shutdownErr error
	if server != nil {
		if err := server.Shutdown(ctx); err != nil {
			shutdownErr = errors.Wrap(err, "gateway", "Stop", "monitor shutdown")
		}
	}

	m.mu.Lock()
	for client := range m.clients {
		client.close()
	}
	m.clients = make(map[*monitorClient]struct{})
	m.mu.Unlock()

	m.wg.Wait()
	return shutdownErr
}

// Observer returns a dispatch observer that broadcasts events to connected
// clients. Safe to register before Start.
func (m *Monitor) Observer() dispatch.Observer {
	return func(ev dispatch.Event) {
		frame := monitorFrame{
			Timestamp: time.Now().UnixMilli(),
			Event:     ev,
		}
		data, err := json.Marshal(frame)
		if err != nil {
			return
		}
		m.broadcast(data)
	}
}

// ClientCount returns the number of connected monitor clients.
func (m *Monitor) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

func (m *Monitor) broadcast(data []byte) {
	m.mu.RLock()
	stale := make([]*monitorClient, 0)
	for client := range m.clients {
		select {
		case client.send <- data:
		default:
			// Queue full: the client is too slow to keep the feed.
			stale = append(stale, client)
		}
	}
	m.mu.RUnlock()

	for _, client := range stale {
		m.removeClient(client)
	}
}

func (m *Monitor) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Warn("monitor upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	client := &monitorClient{
		conn: conn,
		send: make(chan []byte, monitorQueueSize),
	}

	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		_ = conn.Close()
		return
	}
	m.clients[client] = struct{}{}
	count := len(m.clients)
	m.mu.Unlock()

	m.logger.Debug("monitor client connected", "remote", r.RemoteAddr, "clients", count)

	m.wg.Add(2)
	go m.writeLoop(client)
	go m.readLoop(client)
}

func (m *Monitor) writeLoop(client *monitorClient) {
	defer m.wg.Done()
	ticker := time.NewTicker(monitorPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-client.send:
			if !ok {
				return
			}
			_ = client.conn.SetWriteDeadline(time.Now().Add(monitorWriteWait))
			if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				m.removeClient(client)
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(monitorWriteWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				m.removeClient(client)
				return
			}
		}
	}
}

// readLoop drains inbound frames so pongs and close frames are processed.
// The feed is write-only; client data is discarded.
func (m *Monitor) readLoop(client *monitorClient) {
	defer m.wg.Done()
	defer m.removeClient(client)

	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(2 * monitorPingPeriod))
	})
	_ = client.conn.SetReadDeadline(time.Now().Add(2 * monitorPingPeriod))

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (m *Monitor) removeClient(client *monitorClient) {
	m.mu.Lock()
	_, present := m.clients[client]
	delete(m.clients, client)
	m.mu.Unlock()

	if present {
		client.close()
	}
}
