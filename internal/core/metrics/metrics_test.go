package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-evbus/config"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.EventPosted()
		m.Delivered()
		m.DeliveryFailed()
		m.DeadEvent()
		m.AdapterAdded()
		m.AdapterRemoved(3)
		m.TemplateSynthesized()
		m.HandlerExcluded()
		m.SetExecutorPending(10)
	})
}

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg, "evbus")
	require.NoError(t, err)

	m.EventPosted()
	m.EventPosted()
	m.Delivered()
	m.DeliveryFailed()
	m.DeadEvent()
	m.AdapterAdded()
	m.AdapterAdded()
	m.AdapterRemoved(1)
	m.TemplateSynthesized()
	m.HandlerExcluded()
	m.SetExecutorPending(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.eventsPosted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveryErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deadEvents))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.adaptersRegistered))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.templatesSynthesized))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.handlersExcluded))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.executorPending))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestMetrics_ReRegisterReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m1, err := New(reg, "evbus")
	require.NoError(t, err)
	m2, err := New(reg, "evbus")
	require.NoError(t, err)

	m1.EventPosted()
	m2.EventPosted()
	assert.Equal(t, 2.0, testutil.ToFloat64(m1.eventsPosted))
}

func TestNew_NilRegisterer(t *testing.T) {
	_, err := New(nil, "evbus")
	assert.Error(t, err)
}

func TestModule_Disabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Metrics.Enabled = false

	var m *Metrics
	app := fxtest.New(t,
		fx.Supply(cfg),
		Module(),
		fx.Populate(&m),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.Nil(t, m)
}

func TestModule_UsesRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()

	var m *Metrics
	app := fxtest.New(t,
		fx.Provide(func() prometheus.Registerer { return reg }),
		Module(),
		fx.Populate(&m),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, m)
	m.EventPosted()

	n, err := testutil.GatherAndCount(reg, "evbus_events_posted_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
