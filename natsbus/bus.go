// Package natsbus manages the NATS connection used by the gateway. It wraps
// connection lifecycle, request subscriptions with reply support, and plain
// publishing behind a small surface the rest of the code can fake in tests.
package natsbus

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/c360/signalctl/errors"
)

// ConnectionStatus represents the state of the NATS connection.
type ConnectionStatus int

// Possible connection statuses.
const (
	StatusDisconnected ConnectionStatus = iota
	StatusConnecting
	StatusConnected
	StatusReconnecting
)

// String returns the string representation of ConnectionStatus.
func (s ConnectionStatus) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// Error values returned by the bus.
var (
	ErrNotConnected = stderrors.New("not connected to NATS")
	ErrClosed       = stderrors.New("bus is closed")
)

// Bus manages a single NATS connection.
type Bus struct {
	url        string
	clientName string
	logger     *slog.Logger

	maxReconnects int
	reconnectWait time.Duration
	pingInterval  time.Duration
	timeout       time.Duration
	drainTimeout  time.Duration

	status     atomic.Value // ConnectionStatus
	reconnects atomic.Int32

	mu   sync.RWMutex
	conn *nats.Conn
	subs []*nats.Subscription

	closeMu sync.Mutex
	closed  atomic.Bool
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithClientName sets the connection name reported to the server.
func WithClientName(name string) Option {
	return func(b *Bus) { b.clientName = name }
}

// WithTimeout sets the connect timeout.
func WithTimeout(d time.Duration) Option {
	return func(b *Bus) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithDrainTimeout bounds how long Close waits for in-flight messages.
func WithDrainTimeout(d time.Duration) Option {
	return func(b *Bus) {
		if d > 0 {
			b.drainTimeout = d
		}
	}
}

// New creates a Bus for the given server URL. The connection is not opened
// until Connect.
func New(url string, opts ...Option) *Bus {
	b := &Bus{
		url:           url,
		logger:        slog.Default(),
		maxReconnects: -1,
		reconnectWait: 2 * time.Second,
		pingInterval:  30 * time.Second,
		timeout:       5 * time.Second,
		drainTimeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.status.Store(StatusDisconnected)
	return b
}

// URL returns the NATS server URL.
func (b *Bus) URL() string { return b.url }

// Status returns the current connection status.
func (b *Bus) Status() ConnectionStatus {
	v := b.status.Load()
	if v == nil {
		return StatusDisconnected
	}
	return v.(ConnectionStatus)
}

// IsHealthy reports whether the connection is established.
func (b *Bus) IsHealthy() bool { return b.Status() == StatusConnected }

// Reconnects returns the number of reconnects since Connect.
func (b *Bus) Reconnects() int32 { return b.reconnects.Load() }

func (b *Bus) setStatus(s ConnectionStatus) { b.status.Store(s) }

// Connect establishes the connection. Reconnection after transient drops is
// handled by the NATS client itself.
func (b *Bus) Connect(ctx context.Context) error {
	if b.closed.Load() {
		return ErrClosed
	}

	b.setStatus(StatusConnecting)
	b.logger.Info("connecting to NATS", "url", b.url)

	opts := []nats.Option{
		nats.MaxReconnects(b.maxReconnects),
		nats.ReconnectWait(b.reconnectWait),
		nats.PingInterval(b.pingInterval),
		nats.Timeout(b.timeout),
		nats.DrainTimeout(b.drainTimeout),
		nats.DisconnectErrHandler(b.handleDisconnect),
		nats.ReconnectHandler(b.handleReconnect),
		nats.ClosedHandler(b.handleClosed),
	}
	if b.clientName != "" {
		opts = append(opts, nats.Name(b.clientName))
	}

	done := make(chan error, 1)
	go func() {
		conn, err := nats.Connect(b.url, opts...)
		if err != nil {
			done <- err
			return
		}
		b.mu.Lock()
		b.conn = conn
		b.mu.Unlock()
		done <- nil
	}()

	select {
	case err := <-done:
		if err != nil {
			b.setStatus(StatusDisconnected)
			return errors.Wrap(err, "natsbus", "Connect", "establish connection")
		}
	case <-ctx.Done():
		b.setStatus(StatusDisconnected)
		return errors.Wrap(ctx.Err(), "natsbus", "Connect", "connection cancelled")
	}

	b.setStatus(StatusConnected)
	b.logger.Info("connected to NATS", "url", b.url)
	return nil
}

// SetConnection injects a connection directly. Intended for tests.
func (b *Bus) SetConnection(conn *nats.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conn = conn
	if conn != nil && conn.IsConnected() {
		b.setStatus(StatusConnected)
	}
}

// RequestHandler processes one inbound request and returns the reply bytes.
// A nil reply suppresses the response.
type RequestHandler func(ctx context.Context, data []byte) []byte

// SubscribeRequest subscribes to subject and answers each message with the
// handler's reply on the message's reply subject. Messages without a reply
// subject are still processed; their replies are dropped.
func (b *Bus) SubscribeRequest(ctx context.Context, subject string, handler RequestHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil || !b.conn.IsConnected() {
		return ErrNotConnected
	}

	sub, err := b.conn.Subscribe(subject, func(msg *nats.Msg) {
		msgCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		reply := handler(msgCtx, msg.Data)
		if reply == nil || msg.Reply == "" {
			return
		}
		if err := msg.Respond(reply); err != nil {
			b.logger.Error("failed to respond", "subject", subject, "error", err)
		}
	})
	if err != nil {
		return errors.Wrap(err, "natsbus", "SubscribeRequest", "subscribe")
	}

	b.subs = append(b.subs, sub)
	return nil
}

// Publish publishes a message to a subject.
func (b *Bus) Publish(_ context.Context, subject string, data []byte) error {
	b.mu.RLock()
	conn := b.conn
	b.mu.RUnlock()

	if conn == nil || !conn.IsConnected() {
		return ErrNotConnected
	}
	return conn.Publish(subject, data)
}

// WaitForConnection blocks until the connection is healthy or ctx expires.
func (b *Bus) WaitForConnection(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("connection timeout: %w", ctx.Err())
		case <-ticker.C:
			if b.IsHealthy() {
				return nil
			}
		}
	}
}

// Close drains the subscriptions and closes the connection. Safe to call
// more than once.
func (b *Bus) Close(ctx context.Context) error {
	b.closeMu.Lock()
	defer b.closeMu.Unlock()

	if b.closed.Load() {
		return nil
	}
	b.closed.Store(true)

	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for _, sub := range b.subs {
		if err := sub.Unsubscribe(); err != nil {
			errs = append(errs, errors.Wrap(err, "natsbus", "Close", "unsubscribe"))
		}
	}
	b.subs = nil

	if b.conn != nil {
		drainTimeout := b.drainTimeout
		if deadline, ok := ctx.Deadline(); ok {
			if remaining := time.Until(deadline); remaining > 0 && remaining < drainTimeout {
				drainTimeout = remaining
			}
		}

		drainDone := make(chan error, 1)
		go func() { drainDone <- b.conn.Drain() }()

		select {
		case err := <-drainDone:
			if err != nil {
				errs = append(errs, errors.Wrap(err, "natsbus", "Close", "drain connection"))
			}
		case <-time.After(drainTimeout):
			errs = append(errs, fmt.Errorf("drain timeout after %v", drainTimeout))
		case <-ctx.Done():
			errs = append(errs, errors.Wrap(ctx.Err(), "natsbus", "Close", "drain cancelled"))
		}

		b.conn.Close()
		b.conn = nil
	}

	b.setStatus(StatusDisconnected)
	return stderrors.Join(errs...)
}

func (b *Bus) handleDisconnect(_ *nats.Conn, err error) {
	b.setStatus(StatusReconnecting)
	if err != nil {
		b.logger.Warn("NATS disconnected", "error", err)
	}
}

func (b *Bus) handleReconnect(conn *nats.Conn) {
	b.reconnects.Add(1)
	b.setStatus(StatusConnected)
	b.logger.Info("NATS reconnected", "url", conn.ConnectedUrl())
}

func (b *Bus) handleClosed(_ *nats.Conn) {
	b.setStatus(StatusDisconnected)
}
