// Package health aggregates liveness information for the server's moving
// parts: the NATS bus, the session layer and the retransmission pool. Each
// part registers a check; the registry evaluates them on demand and renders
// the result for the ops endpoint.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

// State is the evaluated condition of one check.
type State string

// A check is healthy, degraded (working but impaired, e.g. reconnecting) or
// unhealthy.
const (
	StateHealthy   State = "healthy"
	StateDegraded  State = "degraded"
	StateUnhealthy State = "unhealthy"
)

// Status is the evaluated result of one named check.
type Status struct {
	Name      string    `json:"name"`
	State     State     `json:"state"`
	Message   string    `json:"message,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Check evaluates one part of the system.
type Check func(ctx context.Context) Status

// Healthy builds a healthy status.
func Healthy(name, message string) Status {
	return Status{Name: name, State: StateHealthy, Message: message, CheckedAt: time.Now()}
}

// Degraded builds a degraded status.
func Degraded(name, message string) Status {
	return Status{Name: name, State: StateDegraded, Message: message, CheckedAt: time.Now()}
}

// Unhealthy builds an unhealthy status.
func Unhealthy(name, message string) Status {
	return Status{Name: name, State: StateUnhealthy, Message: message, CheckedAt: time.Now()}
}

// Registry holds the registered checks. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	checks map[string]Check
}

// NewRegistry creates an empty check registry.
func NewRegistry() *Registry {
	return &Registry{checks: make(map[string]Check)}
}

// Register adds or replaces the check under name.
func (r *Registry) Register(name string, check Check) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks[name] = check
}

// Remove drops the check under name.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.checks, name)
}

// Evaluate runs every check and returns the statuses ordered by name.
func (r *Registry) Evaluate(ctx context.Context) []Status {
	r.mu.RLock()
	checks := make(map[string]Check, len(r.checks))
	for name, check := range r.checks {
		checks[name] = check
	}
	r.mu.RUnlock()

	statuses := make([]Status, 0, len(checks))
	for name, check := range checks {
		status := check(ctx)
		status.Name = name
		if status.CheckedAt.IsZero() {
			status.CheckedAt = time.Now()
		}
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}

// Report is the aggregate of one evaluation.
type Report struct {
	State    State    `json:"state"`
	Statuses []Status `json:"checks"`
}

// Aggregate evaluates all checks and folds them into one state: unhealthy
// dominates, then degraded; an empty registry is healthy.
func (r *Registry) Aggregate(ctx context.Context) Report {
	statuses := r.Evaluate(ctx)
	state := StateHealthy
	for _, s := range statuses {
		switch s.State {
		case StateUnhealthy:
			state = StateUnhealthy
		case StateDegraded:
			if state == StateHealthy {
				state = StateDegraded
			}
		}
	}
	return Report{State: state, Statuses: statuses}
}

// Handler renders the aggregate as JSON. Unhealthy reports answer 503 so
// load balancer probes fail over without parsing the body.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		report := r.Aggregate(req.Context())

		w.Header().Set("Content-Type", "application/json")
		if report.State == StateUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(report)
	})
}
