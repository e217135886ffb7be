// Package session implements the token-based session layer: login issues a
// fresh random token, every subsequent request resolves its token here, and
// sessions end by logout, inactivity expiry or reaper sweep.
package session

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/signalctl/errors"
	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/pkg/cache"
	"github.com/c360/signalctl/protocol"
	"github.com/c360/signalctl/service"
)

// DefaultInactivityWindow is the session lifetime without traffic.
const DefaultInactivityWindow = 30 * time.Minute

// Session is an authenticated caller. It is owned exclusively by the
// Manager; handlers only read it.
type Session struct {
	Token         string
	UserName      string
	SystemType    string
	ClientAddress protocol.Address
	CreatedAt     time.Time

	lastSeen atomic.Int64 // unix millis, touched on every validate
}

// LastSeenAt returns the time of the most recent validated request.
func (s *Session) LastSeenAt() time.Time {
	return time.UnixMilli(s.lastSeen.Load())
}

func (s *Session) touch() {
	s.lastSeen.Store(time.Now().UnixMilli())
}

// Manager owns the process-wide session table. All methods are safe for
// concurrent use; expiry is enforced lazily on lookup with a periodic reaper
// bounding memory growth.
type Manager struct {
	auth   service.Authenticator
	window time.Duration
	table  *cache.TTL[*Session]
	logger *slog.Logger

	active       prometheus.Gauge
	logins       prometheus.Counter
	loginsFailed prometheus.Counter
}

// Option configures a Manager.
type Option func(*Manager)

// WithInactivityWindow overrides the default session inactivity window.
func WithInactivityWindow(window time.Duration) Option {
	return func(m *Manager) {
		if window > 0 {
			m.window = window
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithMetrics registers session metrics.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(m *Manager) {
		m.active = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signalctl_sessions_active",
			Help: "Currently active sessions",
		})
		m.logins = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalctl_logins_total",
			Help: "Successful logins",
		})
		m.loginsFailed = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalctl_login_failures_total",
			Help: "Rejected logins",
		})
		reg.MustRegister(m.active, m.logins, m.loginsFailed)
	}
}

// NewManager creates a session manager whose reaper runs until ctx is
// cancelled.
func NewManager(ctx context.Context, auth service.Authenticator, opts ...Option) *Manager {
	m := &Manager{
		auth:   auth,
		window: DefaultInactivityWindow,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.table = cache.NewTTL(ctx, m.window/4, cache.WithEvictCallback(func(token string, s *Session) {
		m.logger.Info("session expired",
			"user", s.UserName,
			"last_seen", s.LastSeenAt())
		if m.active != nil {
			m.active.Dec()
		}
	}))
	return m
}

// Login authenticates credentials and issues a fresh session. Concurrent
// logins by the same user are independent sessions.
func (m *Manager) Login(ctx context.Context, client protocol.Address, creds model.UserInfo, systemType string) (*Session, error) {
	if creds.UserName == "" {
		return nil, errors.Validation("userName", "must not be empty")
	}
	if err := m.auth.Authenticate(ctx, creds.UserName, creds.Password); err != nil {
		if m.loginsFailed != nil {
			m.loginsFailed.Inc()
		}
		m.logger.Warn("login rejected", "user", creds.UserName, "error", err)
		return nil, errors.Authentication(errors.ErrBadCredentials, "unknown user or bad credential")
	}

	s := &Session{
		Token:         uuid.NewString(),
		UserName:      creds.UserName,
		SystemType:    systemType,
		ClientAddress: client,
		CreatedAt:     time.Now(),
	}
	s.touch()
	m.table.Set(s.Token, s, m.window)

	if m.logins != nil {
		m.logins.Inc()
	}
	if m.active != nil {
		m.active.Inc()
	}
	m.logger.Info("login", "user", s.UserName, "system_type", systemType)
	return s, nil
}

// Validate resolves a token to its session, refreshing the inactivity
// window. Unknown and expired tokens both fail with a session error.
func (m *Manager) Validate(token string) (*Session, error) {
	if token == "" {
		return nil, errors.SessionExpired(errors.ErrInvalidToken)
	}
	s, ok := m.table.Get(token)
	if !ok {
		return nil, errors.SessionExpired(errors.ErrSessionExpired)
	}
	s.touch()
	m.table.Touch(token, m.window)
	return s, nil
}

// Logout removes the session. Idempotent: logging out an already-invalid
// token is not an error.
func (m *Manager) Logout(token string) {
	if s, ok := m.table.Delete(token); ok {
		if m.active != nil {
			m.active.Dec()
		}
		m.logger.Info("logout", "user", s.UserName)
	}
}

// ActiveCount returns the number of live sessions.
func (m *Manager) ActiveCount() int {
	return m.table.Len()
}

// Close stops the reaper.
func (m *Manager) Close() {
	m.table.Close()
}
