// Package gateway bridges the NATS transport and the protocol stack. The
// request gateway decodes inbound frames, runs them through the dispatcher
// and answers on the reply subject; the push broker fans runtime data out to
// subscribed clients.
package gateway

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/c360/signalctl/dispatch"
	"github.com/c360/signalctl/errors"
	"github.com/c360/signalctl/natsbus"
	"github.com/c360/signalctl/protocol"
	"github.com/c360/signalctl/protocol/codec"
	"github.com/c360/signalctl/reply"
)

// WireFormat identifies the encoding of a frame.
type WireFormat int

// Supported wire formats.
const (
	FormatXML WireFormat = iota
	FormatJSON
)

// String returns the string representation of WireFormat.
func (f WireFormat) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "xml"
}

// DetectFormat sniffs the frame encoding. Clients choose per frame; the
// reply is returned in the same format.
func DetectFormat(data []byte) WireFormat {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatXML
}

// Gateway consumes request frames from NATS and replies with the
// dispatcher's answer.
type Gateway struct {
	bus        *natsbus.Bus
	codec      *codec.Codec
	dispatcher *dispatch.Dispatcher
	subject    string
	logger     *slog.Logger
	limiter    *rate.Limiter

	frames    *prometheus.CounterVec
	rejected  prometheus.Counter
	malformed prometheus.Counter
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithRateLimit caps inbound frame processing. Frames over the limit are
// dropped without a reply. Zero disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(g *Gateway) {
		if perSecond > 0 {
			if burst < 1 {
				burst = 1
			}
			g.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithMetrics registers gateway metrics on the given registry.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(g *Gateway) {
		if reg == nil {
			return
		}
		g.frames = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalctl_gateway_frames_total",
			Help: "Inbound frames by wire format",
		}, []string{"format"})
		g.rejected = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalctl_gateway_rejected_total",
			Help: "Frames dropped by the rate limiter",
		})
		g.malformed = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalctl_gateway_malformed_total",
			Help: "Frames that failed to decode",
		})
		reg.MustRegister(g.frames, g.rejected, g.malformed)
	}
}

// New creates a Gateway reading requests from subject on bus.
func New(bus *natsbus.Bus, c *codec.Codec, d *dispatch.Dispatcher, subject string, opts ...Option) *Gateway {
	g := &Gateway{
		bus:        bus,
		codec:      c,
		dispatcher: d,
		subject:    subject,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Start subscribes to the request subject. The subscription lives until the
// bus is closed.
func (g *Gateway) Start(ctx context.Context) error {
	err := g.bus.SubscribeRequest(ctx, g.subject, g.handleFrame)
	if err != nil {
		return errors.Wrap(err, "gateway", "Start", "subscribe requests")
	}
	g.logger.Info("gateway listening", "subject", g.subject)
	return nil
}

// handleFrame processes one inbound frame and returns the reply bytes, or
// nil when no reply is due.
func (g *Gateway) handleFrame(ctx context.Context, data []byte) []byte {
	if g.limiter != nil && !g.limiter.Allow() {
		if g.rejected != nil {
			g.rejected.Inc()
		}
		g.logger.Warn("frame dropped by rate limiter")
		return nil
	}

	format := DetectFormat(data)
	if g.frames != nil {
		g.frames.WithLabelValues(format.String()).Inc()
	}

	msg, err := g.decode(format, data)
	if err != nil {
		if g.malformed != nil {
			g.malformed.Inc()
		}
		g.logger.Warn("malformed frame", "format", format.String(), "error", err)
		// Without a decodable envelope there is no seq to correlate an
		// ERROR reply with; the frame is dropped.
		return nil
	}

	resp, ok := g.dispatcher.Dispatch(ctx, msg)
	if !ok {
		return nil
	}

	out, err := g.encode(format, resp)
	if err != nil {
		g.logger.Error("failed to encode reply", "seq", msg.Seq, "error", err)
		return nil
	}
	return out
}

func (g *Gateway) decode(format WireFormat, data []byte) (protocol.Message, error) {
	if format == FormatJSON {
		return g.codec.DecodeJSON(data)
	}
	return g.codec.DecodeXML(data)
}

func (g *Gateway) encode(format WireFormat, m protocol.Message) ([]byte, error) {
	if format == FormatJSON {
		return g.codec.EncodeJSON(m)
	}
	return g.codec.EncodeXML(m)
}

// SubscriptionFilter reports which tokens want pushes for an object name.
type SubscriptionFilter interface {
	Tokens(objName string) []string
	Wants(token, objName string) bool
}

// PushBroker publishes PUSH messages for runtime objects. One frame per
// subscribed token goes to the push subject with the token restored in the
// envelope so clients can filter their own traffic.
type PushBroker struct {
	bus     *natsbus.Bus
	codec   *codec.Codec
	subject string
	subs    SubscriptionFilter
	seq     *protocol.SequenceGenerator
	from    protocol.Address
	logger  *slog.Logger

	mu     sync.Mutex
	pushes *prometheus.CounterVec
}

// BrokerOption configures a PushBroker.
type BrokerOption func(*PushBroker)

// WithBrokerLogger sets the structured logger.
func WithBrokerLogger(l *slog.Logger) BrokerOption {
	return func(b *PushBroker) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithBrokerMetrics registers broker metrics on the given registry.
func WithBrokerMetrics(reg prometheus.Registerer) BrokerOption {
	return func(b *PushBroker) {
		if reg == nil {
			return
		}
		b.pushes = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalctl_pushes_total",
			Help: "PUSH frames published by object name",
		}, []string{"object"})
		reg.MustRegister(b.pushes)
	}
}

// NewPushBroker creates a broker publishing to subject on bus. Frames carry
// from as the source address and draw sequence numbers from seq.
func NewPushBroker(
	bus *natsbus.Bus,
	c *codec.Codec,
	subject string,
	subs SubscriptionFilter,
	seq *protocol.SequenceGenerator,
	from protocol.Address,
	opts ...BrokerOption,
) *PushBroker {
	b := &PushBroker{
		bus:     bus,
		codec:   c,
		subject: subject,
		subs:    subs,
		seq:     seq,
		from:    from,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish pushes objects to every token subscribed to their object name.
// Objects sharing a name are batched into one frame per token. Unsubscribed
// object names publish nothing and return nil.
func (b *PushBroker) Publish(ctx context.Context, objects ...protocol.Object) error {
	if len(objects) == 0 {
		return nil
	}

	byName := make(map[string][]protocol.Object)
	for _, obj := range objects {
		name := obj.ObjectName()
		byName[name] = append(byName[name], obj)
	}

	var errs []error
	for name, group := range byName {
		tokens := b.subs.Tokens(name)
		if len(tokens) == 0 {
			continue
		}
		for _, token := range tokens {
			if err := b.publishOne(ctx, token, name, group); err != nil {
				errs = append(errs, err)
			}
		}
		if b.pushes != nil {
			b.pushes.WithLabelValues(name).Add(float64(len(tokens)))
		}
	}
	return errors.Join(errs...)
}

func (b *PushBroker) publishOne(ctx context.Context, token, name string, objects []protocol.Object) error {
	msg := reply.Push(b.seq.Next(), b.from, protocol.Address{System: protocol.SystemCenter}, objects...)
	msg.Token = token

	data, err := b.codec.EncodeXML(msg)
	if err != nil {
		return errors.Wrap(err, "gateway", "publishOne", "encode push")
	}
	if err := b.bus.Publish(ctx, b.subject, data); err != nil {
		return errors.Wrap(err, "gateway", "publishOne", "publish "+name)
	}
	return nil
}

// PushObjects adapts the broker to the retransmission manager's push
// callback.
func (b *PushBroker) PushObjects(ctx context.Context, objects []protocol.Object) error {
	return b.Publish(ctx, objects...)
}

// DispatchObserved returns an observer that logs slow dispatches. It is a
// convenience for wiring without the monitor feed.
func DispatchObserved(logger *slog.Logger, threshold time.Duration) dispatch.Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ev dispatch.Event) {
		if ev.Latency >= threshold {
			logger.Warn("slow dispatch",
				"seq", ev.Seq,
				"operation", ev.Operation,
				"handler", ev.Handler,
				"latency", ev.Latency)
		}
	}
}
