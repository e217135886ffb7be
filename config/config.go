// Package config loads and validates the application configuration. JSON is
// the primary format, YAML is accepted by extension; a small set of
// environment variables overrides deployment-specific fields.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360/signalctl/errors"
)

// PlatformConfig is the identity this instance reports and addresses
// envelopes with.
type PlatformConfig struct {
	SysName    string `json:"sys_name"              yaml:"sys_name"`
	SysVersion string `json:"sys_version"           yaml:"sys_version"`
	Supplier   string `json:"supplier"              yaml:"supplier"`
	System     string `json:"system"                yaml:"system"`
	SubSystem  string `json:"sub_system,omitempty"  yaml:"sub_system,omitempty"`
	Instance   string `json:"instance,omitempty"    yaml:"instance,omitempty"`
}

// NATSConfig is the transport connection and subject layout.
type NATSConfig struct {
	URL            string `json:"url"             yaml:"url"`
	Name           string `json:"name"            yaml:"name"`
	RequestSubject string `json:"request_subject" yaml:"request_subject"`
	PushSubject    string `json:"push_subject"    yaml:"push_subject"`
	TimeoutSec     int    `json:"timeout_sec"     yaml:"timeout_sec"`
}

// SessionConfig tunes the session layer.
type SessionConfig struct {
	InactivityWindowSec int `json:"inactivity_window_sec" yaml:"inactivity_window_sec"`
}

// DispatchConfig tunes the dispatcher.
type DispatchConfig struct {
	TimeoutSec int     `json:"timeout_sec" yaml:"timeout_sec"`
	RateLimit  float64 `json:"rate_limit"  yaml:"rate_limit"` // messages/second, 0 disables
	RateBurst  int     `json:"rate_burst"  yaml:"rate_burst"`
}

// ControlConfig tunes command validation policy.
type ControlConfig struct {
	// RequireActivePlan demands that a targeted plan is scheduled by a day
	// plan, not merely defined.
	RequireActivePlan bool `json:"require_active_plan" yaml:"require_active_plan"`
}

// RetransConfig tunes the retransmission worker pool.
type RetransConfig struct {
	Workers        int `json:"workers"         yaml:"workers"`
	QueueSize      int `json:"queue_size"      yaml:"queue_size"`
	RetentionHours int `json:"retention_hours" yaml:"retention_hours"`
}

// MonitorConfig tunes the WebSocket monitor feed.
type MonitorConfig struct {
	Enabled    bool   `json:"enabled"     yaml:"enabled"`
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`
}

// Config is the complete application configuration.
type Config struct {
	Platform PlatformConfig `json:"platform" yaml:"platform"`
	NATS     NATSConfig     `json:"nats"     yaml:"nats"`
	Session  SessionConfig  `json:"session"  yaml:"session"`
	Dispatch DispatchConfig `json:"dispatch" yaml:"dispatch"`
	Control  ControlConfig  `json:"control"  yaml:"control"`
	Retrans  RetransConfig  `json:"retrans"  yaml:"retrans"`
	Monitor  MonitorConfig  `json:"monitor"  yaml:"monitor"`
}

// Default returns the configuration used when a field is left unset.
func Default() *Config {
	return &Config{
		Platform: PlatformConfig{
			SysName:    "signalctl",
			SysVersion: "1.0",
			System:     "UTCS",
		},
		NATS: NATSConfig{
			URL:            "nats://127.0.0.1:4222",
			Name:           "signalctl",
			RequestSubject: "tsc.request",
			PushSubject:    "tsc.push",
			TimeoutSec:     5,
		},
		Session:  SessionConfig{InactivityWindowSec: 1800},
		Dispatch: DispatchConfig{TimeoutSec: 10},
		Retrans:  RetransConfig{Workers: 4, QueueSize: 256, RetentionHours: 24},
		Monitor:  MonitorConfig{ListenAddr: ":8089"},
	}
}

// Load reads, overlays and validates the configuration at path. An empty
// path yields the defaults, still subject to env overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "config", "Load", "read")
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrap(err, "config", "Load", "yaml parse")
			}
		default:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrap(err, "config", "Load", "json parse")
			}
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SIGNALCTL_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("SIGNALCTL_REQUEST_SUBJECT"); v != "" {
		cfg.NATS.RequestSubject = v
	}
	if v := os.Getenv("SIGNALCTL_PUSH_SUBJECT"); v != "" {
		cfg.NATS.PushSubject = v
	}
	if v := os.Getenv("SIGNALCTL_MONITOR_ADDR"); v != "" {
		cfg.Monitor.ListenAddr = v
	}
}

// Validate checks field ranges and required values.
func (c *Config) Validate() error {
	if c.Platform.System == "" {
		return errors.Validation("platform.system", "must not be empty")
	}
	if c.NATS.URL == "" {
		return errors.Validation("nats.url", "must not be empty")
	}
	if c.NATS.RequestSubject == "" {
		return errors.Validation("nats.request_subject", "must not be empty")
	}
	if c.NATS.PushSubject == "" {
		return errors.Validation("nats.push_subject", "must not be empty")
	}
	if c.Session.InactivityWindowSec <= 0 {
		return errors.Validation("session.inactivity_window_sec", "must be positive, got %d", c.Session.InactivityWindowSec)
	}
	if c.Dispatch.TimeoutSec <= 0 {
		return errors.Validation("dispatch.timeout_sec", "must be positive, got %d", c.Dispatch.TimeoutSec)
	}
	if c.Dispatch.RateLimit < 0 {
		return errors.Validation("dispatch.rate_limit", "must not be negative")
	}
	if c.Retrans.Workers <= 0 {
		return errors.Validation("retrans.workers", "must be positive, got %d", c.Retrans.Workers)
	}
	if c.Retrans.QueueSize <= 0 {
		return errors.Validation("retrans.queue_size", "must be positive, got %d", c.Retrans.QueueSize)
	}
	if c.Monitor.Enabled && c.Monitor.ListenAddr == "" {
		return errors.Validation("monitor.listen_addr", "required when monitor is enabled")
	}
	return nil
}

// SessionWindow returns the session inactivity window as a duration.
func (c *Config) SessionWindow() time.Duration {
	return time.Duration(c.Session.InactivityWindowSec) * time.Second
}

// DispatchTimeout returns the dispatcher timeout as a duration.
func (c *Config) DispatchTimeout() time.Duration {
	return time.Duration(c.Dispatch.TimeoutSec) * time.Second
}

// NATSTimeout returns the transport request timeout as a duration.
func (c *Config) NATSTimeout() time.Duration {
	return time.Duration(c.NATS.TimeoutSec) * time.Second
}

// Address returns the envelope address fields of this instance.
func (c *Config) Address() (system, subSystem, instance string) {
	return c.Platform.System, c.Platform.SubSystem, c.Platform.Instance
}

// String renders a single-line summary for startup logs.
func (c *Config) String() string {
	return fmt.Sprintf("platform=%s nats=%s request=%s push=%s",
		c.Platform.SysName, c.NATS.URL, c.NATS.RequestSubject, c.NATS.PushSubject)
}
