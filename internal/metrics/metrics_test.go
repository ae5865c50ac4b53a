package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/event"
)

func TestObserveSweep(t *testing.T) {
	report := domain.SweepReport{
		Sweep:     "metrics_test_sweep",
		StartedAt: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		Duration:  2 * time.Second,
		Scanned:   5,
		Applied:   3,
		Skipped:   1,
		Failed:    1,
	}

	ObserveSweep(context.Background(), report, "tick", nil)
	ObserveSweep(context.Background(), report, "manual", errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(SweepRuns.WithLabelValues(report.Sweep, "tick", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(SweepRuns.WithLabelValues(report.Sweep, "manual", OutcomeError)))
	assert.Equal(t, 6.0, testutil.ToFloat64(SweepUnits.WithLabelValues(report.Sweep, ResultApplied)))
	assert.Equal(t, 10.0, testutil.ToFloat64(SweepUnits.WithLabelValues(report.Sweep, ResultScanned)))
	assert.Equal(t, float64(report.StartedAt.Add(2*time.Second).Unix()),
		testutil.ToFloat64(SweepLastRun.WithLabelValues(report.Sweep)))
}

func TestEventMetricsCollector(t *testing.T) {
	bus := event.NewMemoryBus()
	collector := NewEventMetricsCollector(func(r domain.Rarity) string {
		return []string{"common", "uncommon", "rare"}[r]
	})
	assert.NoError(t, collector.Register(bus))

	ctx := context.Background()
	now := time.Now()
	spawnedBefore := testutil.ToFloat64(CreaturesSpawned.WithLabelValues("rare"))
	despawnedBefore := testutil.ToFloat64(CreaturesDespawned)
	incomeBefore := testutil.ToFloat64(IncomeCredited)
	salesBefore := testutil.ToFloat64(SalesCredited)

	creature := &domain.SpawnedCreature{ID: 1, OwnerID: "o", Rarity: 2, AssetID: 201}
	assert.NoError(t, bus.Publish(ctx, event.NewCreatureEvent(event.CreatureSpawned, creature, now)))
	assert.NoError(t, bus.Publish(ctx, event.NewCreaturesDespawnedEvent(4, now)))
	assert.NoError(t, bus.Publish(ctx, event.NewIncomeCreditedEvent("o", 9, 10, 55, now)))
	assert.NoError(t, bus.Publish(ctx, event.NewCreatureSoldEvent("o", 1, 400, now)))

	assert.Equal(t, spawnedBefore+1, testutil.ToFloat64(CreaturesSpawned.WithLabelValues("rare")))
	assert.Equal(t, despawnedBefore+4, testutil.ToFloat64(CreaturesDespawned))
	assert.Equal(t, incomeBefore+9, testutil.ToFloat64(IncomeCredited))
	assert.Equal(t, salesBefore+400, testutil.ToFloat64(SalesCredited))
	assert.GreaterOrEqual(t, testutil.ToFloat64(EventsPublished.WithLabelValues(string(event.CreatureSpawned))), 1.0)
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Post("/admin/sweeps/{name}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	for _, name := range []string{"spawn", "income"} {
		req := httptest.NewRequest(http.MethodPost, "/admin/sweeps/"+name, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(
		HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/admin/sweeps/{name}", "202")))
}
