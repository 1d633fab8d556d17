package listener

import (
	"reflect"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-evbus/internal/core/metrics"
)

func TestScanner_DirectMarkers(t *testing.T) {
	methods, err := NewScanner().Scan(auditType)
	require.NoError(t, err)

	assert.Equal(t, []string{"OnCancelled", "OnPlaced"}, methodNames(methods))
	assert.Equal(t, reflect.TypeOf(orderCancelled{}), methods[0].EventType)
	assert.Equal(t, reflect.TypeOf(&orderPlaced{}), methods[1].EventType)
	assert.Equal(t, auditType, methods[1].Declarer)
}

func TestScanner_InheritsFromEmbedded(t *testing.T) {
	methods, err := NewScanner().Scan(derivedType)
	require.NoError(t, err)

	require.Equal(t, []string{"Handle"}, methodNames(methods))
	assert.Equal(t, reflect.TypeOf(&baseHandler{}), methods[0].Declarer)

	// 两层嵌入，外层通过指针嵌入
	methods, err = NewScanner().Scan(reflect.TypeOf(&deepDerived{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Handle"}, methodNames(methods))
}

func TestScanner_MarkerInterface(t *testing.T) {
	typ := reflect.TypeOf(&viaIface{})

	methods, err := NewScanner().Scan(typ)
	require.NoError(t, err)
	assert.Empty(t, methods, "no marker without the interface declaration")

	s := NewScanner(WithMarkerInterface(orderSinkType, []string{"Consume"}, nil))
	methods, err = s.Scan(typ)
	require.NoError(t, err)
	require.Equal(t, []string{"Consume"}, methodNames(methods))
	assert.Equal(t, orderSinkType, methods[0].Declarer)
}

func TestScanner_MarkerInterfacePersisted(t *testing.T) {
	logs := captureLogs(t)

	s := NewScanner(WithMarkerInterface(orderSinkType, []string{"Consume"}, []string{"Consume"}))
	methods, err := s.Scan(reflect.TypeOf(&viaIface{}))
	require.NoError(t, err)
	assert.Empty(t, methods)
	assert.Contains(t, logs.String(), "Consume")
}

func TestScanner_PersistedExcluded(t *testing.T) {
	logs := captureLogs(t)

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg, "evbus")
	require.NoError(t, err)

	methods, err := NewScanner(WithScannerMetrics(m)).Scan(reflect.TypeOf(&legacy{}))
	require.NoError(t, err)

	assert.Equal(t, []string{"OnPlaced"}, methodNames(methods))
	out := logs.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "method=OnOld")
	assert.Contains(t, out, "component=core/listener")

	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP evbus_handlers_excluded_total Handler methods excluded for carrying the deprecated persisted marker.
# TYPE evbus_handlers_excluded_total counter
evbus_handlers_excluded_total 1
`), "evbus_handlers_excluded_total"))
}

func TestScanner_NoHandlers(t *testing.T) {
	methods, err := NewScanner().Scan(reflect.TypeOf(&silent{}))
	assert.NoError(t, err)
	assert.Nil(t, methods)
}

func TestScanner_UnknownTagNamesAreLogged(t *testing.T) {
	logs := captureLogs(t)

	methods, err := NewScanner().Scan(reflect.TypeOf(&typo{}))
	require.NoError(t, err)

	assert.Equal(t, []string{"OnPlaced"}, methodNames(methods))
	assert.Contains(t, logs.String(), "OnPlacd")
}

func TestScanner_CyclicEmbedding(t *testing.T) {
	methods, err := NewScanner().Scan(reflect.TypeOf(&cycA{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Ping"}, methodNames(methods))

	methods, err = NewScanner().Scan(reflect.TypeOf(&cycB{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Ping"}, methodNames(methods), "promoted through *cycA")
}

func TestScanner_InvalidTypes(t *testing.T) {
	s := NewScanner()

	_, err := s.Scan(nil)
	assert.ErrorIs(t, err, ErrInvalidListener)

	_, err = s.Scan(reflect.TypeOf(audit{}))
	assert.ErrorIs(t, err, ErrInvalidListener)
}

func TestWithMarkerInterface_IgnoresNonInterface(t *testing.T) {
	logs := captureLogs(t)

	s := NewScanner(WithMarkerInterface(auditType, []string{"OnPlaced"}, nil))
	assert.Empty(t, s.ifaces)
	assert.Contains(t, logs.String(), "WARN")
}
