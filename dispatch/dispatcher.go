package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/signalctl/errors"
	"github.com/c360/signalctl/protocol"
)

// DefaultTimeout bounds one handler invocation including its downstream
// service calls.
const DefaultTimeout = 10 * time.Second

// Event summarizes one dispatch for observers (the monitor feed).
type Event struct {
	Seq       string        `json:"seq"`
	Type      string        `json:"type"`
	Operation string        `json:"operation"`
	Handler   string        `json:"handler"`
	Outcome   string        `json:"outcome"`
	Latency   time.Duration `json:"latency"`
}

// Observer receives dispatch events. Observers must be fast; they run on
// the dispatch path.
type Observer func(Event)

// Dispatcher routes inbound messages through the registered handler chain.
// It is stateless across invocations and safe for concurrent use; the
// session table and downstream services are the only shared state.
type Dispatcher struct {
	handlers  []Handler
	probes    []protocol.Message
	timeout   time.Duration
	logger    *slog.Logger
	observers []Observer

	duration    *prometheus.HistogramVec
	unsupported prometheus.Counter
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTimeout bounds each handler invocation.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

// WithProbes installs the representative message corpus used to verify
// predicate exclusivity at registration time.
func WithProbes(probes ...protocol.Message) Option {
	return func(d *Dispatcher) { d.probes = probes }
}

// WithObserver adds a dispatch event observer.
func WithObserver(obs Observer) Option {
	return func(d *Dispatcher) { d.observers = append(d.observers, obs) }
}

// WithMetrics registers dispatch metrics.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(d *Dispatcher) {
		d.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "signalctl_dispatch_duration_seconds",
			Help:    "Message dispatch latency by handler and outcome",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"handler", "outcome"})
		d.unsupported = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalctl_dispatch_unsupported_total",
			Help: "Messages no handler supported",
		})
		reg.MustRegister(d.duration, d.unsupported)
	}
}

// New creates an empty dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register appends h to the chain. Registration order is priority order.
// If a probe corpus is installed, a handler whose predicate overlaps an
// already-registered handler on any probe is rejected.
func (d *Dispatcher) Register(h Handler) error {
	for _, probe := range d.probes {
		if !h.Supports(probe) {
			continue
		}
		for _, existing := range d.handlers {
			if existing.Supports(probe) {
				return errors.Protocol(errors.ErrDuplicateHandler, fmt.Sprintf(
					"handlers %q and %q both match probe seq %s",
					existing.Name(), h.Name(), probe.Seq))
			}
		}
	}
	d.handlers = append(d.handlers, h)
	return nil
}

// MustRegister registers handlers and panics on overlap. Registration runs
// during wiring, before traffic; an overlap is a programming error.
func (d *Dispatcher) MustRegister(handlers ...Handler) {
	for _, h := range handlers {
		if err := d.Register(h); err != nil {
			panic(err)
		}
	}
}

// Dispatch routes msg to the first supporting handler and returns the
// terminal reply. The second return is false when no reply must be sent
// (a successfully handled PUSH). Dispatch never panics and never lets an
// error escape to the transport: every failure becomes an ERROR envelope
// (or, for pushes, a log line).
func (d *Dispatcher) Dispatch(ctx context.Context, msg protocol.Message) (protocol.Message, bool) {
	start := time.Now()

	if err := msg.Validate(); err != nil {
		d.observe(msg, "envelope", "invalid", start)
		if msg.IsPush() {
			d.logger.Warn("dropping malformed push", "seq", msg.Seq, "error", err)
			return protocol.Message{}, false
		}
		return errorReply(msg, err), true
	}

	handler := d.selectHandler(msg)
	if handler == nil {
		if d.unsupported != nil {
			d.unsupported.Inc()
		}
		d.observe(msg, "none", "unsupported", start)
		d.logger.Warn("unsupported message",
			"seq", msg.Seq,
			"operation", string(msg.OperationName()))
		if msg.IsPush() {
			return protocol.Message{}, false
		}
		return unsupportedReply(msg), true
	}

	resp, err := d.invoke(ctx, handler, msg)
	outcome := "success"
	if err != nil {
		outcome = errors.KindOf(err).String()
	}
	d.observe(msg, handler.Name(), outcome, start)

	if err != nil {
		d.logger.Warn("dispatch failed",
			"seq", msg.Seq,
			"handler", handler.Name(),
			"operation", string(msg.OperationName()),
			"error", err)
		if msg.IsPush() {
			return protocol.Message{}, false
		}
		return errorReply(msg, err), true
	}

	if msg.IsPush() {
		return protocol.Message{}, false
	}
	return resp, true
}

// invoke runs the handler under the dispatch timeout, recovering panics and
// translating timeouts. This is the single error boundary below the
// transport.
func (d *Dispatcher) invoke(ctx context.Context, h Handler, msg protocol.Message) (resp protocol.Message, err error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("handler panic",
				"handler", h.Name(),
				"seq", msg.Seq,
				"panic", r)
			err = errors.System(fmt.Errorf("panic: %v", r), "Dispatcher", h.Name())
		}
	}()

	resp, err = h.Handle(ctx, msg)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		err = errors.Business(err, "operation timed out")
	}
	return resp, err
}

func (d *Dispatcher) selectHandler(msg protocol.Message) Handler {
	for _, h := range d.handlers {
		if h.Supports(msg) {
			return h
		}
	}
	return nil
}

func (d *Dispatcher) observe(msg protocol.Message, handler, outcome string, start time.Time) {
	latency := time.Since(start)
	if d.duration != nil {
		d.duration.WithLabelValues(handler, outcome).Observe(latency.Seconds())
	}
	if len(d.observers) == 0 {
		return
	}
	ev := Event{
		Seq:       msg.Seq,
		Type:      string(msg.Type),
		Operation: string(msg.OperationName()),
		Handler:   handler,
		Outcome:   outcome,
		Latency:   latency,
	}
	for _, obs := range d.observers {
		obs(ev)
	}
}
