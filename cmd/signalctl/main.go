// Package main implements the signalctl entry point: a GA/T 1049 style
// traffic signal control protocol server bridging NATS transport, the
// protocol dispatcher and the downstream signal services.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/c360/signalctl/config"
	"github.com/c360/signalctl/control"
	"github.com/c360/signalctl/dispatch"
	"github.com/c360/signalctl/gateway"
	"github.com/c360/signalctl/handler"
	"github.com/c360/signalctl/health"
	"github.com/c360/signalctl/natsbus"
	"github.com/c360/signalctl/pkg/worker"
	"github.com/c360/signalctl/protocol"
	"github.com/c360/signalctl/protocol/codec"
	"github.com/c360/signalctl/query"
	"github.com/c360/signalctl/retrans"
	"github.com/c360/signalctl/service"
	"github.com/c360/signalctl/session"
	"github.com/c360/signalctl/testutil"
)

// Build information constants.
const (
	Version = "0.1.0"
	appName = "signalctl"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	cfg, err := config.Load(cliCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cliCfg.Validate {
		slog.Info("configuration is valid", "config", cfg.String())
		return nil
	}

	slog.Info("starting signalctl", "version", Version, "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runServer(ctx, cfg, logger, cliCfg.ShutdownTimeout)
}

func runServer(ctx context.Context, cfg *config.Config, logger *slog.Logger, shutdownTimeout time.Duration) error {
	metrics := prometheus.NewRegistry()

	bus := natsbus.New(cfg.NATS.URL,
		natsbus.WithLogger(logger),
		natsbus.WithClientName(cfg.NATS.Name),
		natsbus.WithTimeout(cfg.NATSTimeout()),
	)
	if err := bus.Connect(ctx); err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := bus.Close(closeCtx); err != nil {
			logger.Warn("NATS close", "error", err)
		}
	}()

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := bus.WaitForConnection(connCtx); err != nil {
		return fmt.Errorf("NATS connection timeout: %w", err)
	}

	svc := buildServices(logger)

	sessions := session.NewManager(ctx, svc.Auth,
		session.WithInactivityWindow(cfg.SessionWindow()),
		session.WithLogger(logger),
		session.WithMetrics(metrics),
	)
	defer sessions.Close()

	locks := control.NewLockStore(ctx)
	defer locks.Close()

	orchOpts := []control.Option{
		control.WithLogger(logger),
		control.WithMetrics(metrics),
	}
	if cfg.Control.RequireActivePlan {
		orchOpts = append(orchOpts, control.WithRequireActivePlan())
	}
	orchestrator := control.NewOrchestrator(svc, locks, orchOpts...)

	wire := codec.New(codec.NewDefaultRegistry())
	seq := protocol.NewSequenceGenerator()
	subscriptions := handler.NewSubscriptionTable()

	system, subSystem, instance := cfg.Address()
	from := protocol.Address{System: system, SubSystem: subSystem, Instance: instance}

	broker := gateway.NewPushBroker(bus, wire, cfg.NATS.PushSubject, subscriptions, seq, from,
		gateway.WithBrokerLogger(logger),
		gateway.WithBrokerMetrics(metrics),
	)

	// The pool processor closes over the manager pointer; the manager needs
	// the pool at construction, so the pointer is bound after.
	var retransMgr *retrans.Manager
	pool := worker.NewPool(cfg.Retrans.Workers, cfg.Retrans.QueueSize,
		func(ctx context.Context, task *retrans.Task) error {
			return retransMgr.Run(ctx, task)
		},
		worker.WithMetrics[*retrans.Task](metrics, "signalctl_retrans"),
	)
	if err := pool.Start(ctx); err != nil {
		return fmt.Errorf("start retransmission pool: %w", err)
	}
	defer func() {
		if err := pool.Stop(shutdownTimeout); err != nil {
			logger.Warn("retransmission pool stop", "error", err)
		}
	}()
	retransMgr = retrans.NewManager(ctx, svc.RunInfoRetrans, broker.PushObjects, pool,
		retrans.WithLogger(logger),
		retrans.WithRetention(time.Duration(cfg.Retrans.RetentionHours)*time.Hour),
	)

	chain := handler.NewChain(handler.ChainConfig{
		Sessions:      sessions,
		Subscriptions: subscriptions,
		Router:        query.NewRouter(svc),
		Orchestrator:  orchestrator,
		Retrans:       retransMgr,
		Services:      svc,
	})

	dispatchOpts := []dispatch.Option{
		dispatch.WithTimeout(cfg.DispatchTimeout()),
		dispatch.WithLogger(logger),
		dispatch.WithProbes(handler.Probes()...),
		dispatch.WithMetrics(metrics),
	}

	var monitor *gateway.Monitor
	if cfg.Monitor.Enabled {
		checks := buildHealthChecks(bus, sessions, pool)
		monitor = gateway.NewMonitor(cfg.Monitor.ListenAddr,
			gateway.WithMonitorLogger(logger),
			gateway.WithMonitorHandler("/healthz", checks.Handler()),
			gateway.WithMonitorHandler("/metrics", promhttp.HandlerFor(metrics, promhttp.HandlerOpts{})),
		)
		dispatchOpts = append(dispatchOpts, dispatch.WithObserver(monitor.Observer()))
	}

	dispatcher := dispatch.New(dispatchOpts...)
	dispatcher.MustRegister(chain...)

	gw := gateway.New(bus, wire, dispatcher, cfg.NATS.RequestSubject,
		gateway.WithLogger(logger),
		gateway.WithRateLimit(cfg.Dispatch.RateLimit, cfg.Dispatch.RateBurst),
		gateway.WithMetrics(metrics),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gw.Start(gctx); err != nil {
			return fmt.Errorf("start gateway: %w", err)
		}
		<-gctx.Done()
		return nil
	})
	if monitor != nil {
		g.Go(func() error {
			if err := monitor.Start(gctx); err != nil {
				return fmt.Errorf("start monitor: %w", err)
			}
			<-gctx.Done()
			return monitor.Stop(shutdownTimeout)
		})
	}

	logger.Info("signalctl started",
		"request_subject", cfg.NATS.RequestSubject,
		"push_subject", cfg.NATS.PushSubject,
		"monitor", cfg.Monitor.Enabled)

	err := g.Wait()
	logger.Info("shutting down")
	return err
}

// buildServices assembles the downstream service registry. Field controller
// and persistence integrations plug in here; until then the in-memory
// backend serves the full protocol surface for development.
func buildServices(logger *slog.Logger) *service.Registry {
	logger.Warn("using in-memory development backend; data does not persist")
	return testutil.NewFixture().Registry()
}

// buildHealthChecks wires liveness probes for the transport, session store and
// retransmission pool onto the monitor listener.
func buildHealthChecks(bus *natsbus.Bus, sessions *session.Manager, pool *worker.Pool[*retrans.Task]) *health.Registry {
	checks := health.NewRegistry()
	checks.Register("nats", func(context.Context) health.Status {
		switch bus.Status() {
		case natsbus.StatusConnected:
			return health.Healthy("nats", bus.URL())
		case natsbus.StatusConnecting, natsbus.StatusReconnecting:
			return health.Degraded("nats", fmt.Sprintf("%s after %d reconnects", bus.Status(), bus.Reconnects()))
		default:
			return health.Unhealthy("nats", "disconnected")
		}
	})
	checks.Register("sessions", func(context.Context) health.Status {
		return health.Healthy("sessions", fmt.Sprintf("%d active", sessions.ActiveCount()))
	})
	checks.Register("retrans_pool", func(context.Context) health.Status {
		stats := pool.Stats()
		if stats.Dropped > 0 {
			return health.Degraded("retrans_pool", fmt.Sprintf("%d tasks dropped at full queue", stats.Dropped))
		}
		return health.Healthy("retrans_pool", fmt.Sprintf("queue depth %d", stats.QueueDepth))
	})
	return checks
}
