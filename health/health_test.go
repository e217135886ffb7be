package health

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateOrdersByName(t *testing.T) {
	r := NewRegistry()
	r.Register("nats", func(context.Context) Status { return Healthy("", "connected") })
	r.Register("sessions", func(context.Context) Status { return Healthy("", "2 active") })
	r.Register("pool", func(context.Context) Status { return Healthy("", "") })

	statuses := r.Evaluate(context.Background())
	require.Len(t, statuses, 3)
	assert.Equal(t, "nats", statuses[0].Name)
	assert.Equal(t, "pool", statuses[1].Name)
	assert.Equal(t, "sessions", statuses[2].Name)
	assert.False(t, statuses[0].CheckedAt.IsZero())
}

func TestAggregatePrecedence(t *testing.T) {
	r := NewRegistry()
	r.Register("a", func(context.Context) Status { return Healthy("", "") })
	assert.Equal(t, StateHealthy, r.Aggregate(context.Background()).State)

	r.Register("b", func(context.Context) Status { return Degraded("", "reconnecting") })
	assert.Equal(t, StateDegraded, r.Aggregate(context.Background()).State)

	r.Register("c", func(context.Context) Status { return Unhealthy("", "down") })
	assert.Equal(t, StateUnhealthy, r.Aggregate(context.Background()).State)

	r.Remove("c")
	assert.Equal(t, StateDegraded, r.Aggregate(context.Background()).State)
}

func TestEmptyRegistryIsHealthy(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, StateHealthy, r.Aggregate(context.Background()).State)
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.Register("nats", func(context.Context) Status { return Healthy("", "connected") })

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	require.Equal(t, 200, rec.Code)

	var report Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, StateHealthy, report.State)
	require.Len(t, report.Statuses, 1)
	assert.Equal(t, "connected", report.Statuses[0].Message)
}

func TestHandlerUnhealthyIs503(t *testing.T) {
	r := NewRegistry()
	r.Register("nats", func(context.Context) Status { return Unhealthy("", "no connection") })

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, 503, rec.Code)
}
