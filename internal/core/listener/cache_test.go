package listener

import (
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-evbus/internal/core/metrics"
	"github.com/dep2p/go-evbus/internal/core/scope"
	"github.com/dep2p/go-evbus/pkg/types"
)

// countingScanner 统计扫描次数，并允许替换某个类型的处理方法集合
type countingScanner struct {
	inner Scanner
	calls atomic.Int32

	mu        sync.Mutex
	overrides map[reflect.Type][]string
}

func newCountingScanner() *countingScanner {
	return &countingScanner{inner: NewScanner(), overrides: make(map[reflect.Type][]string)}
}

func (s *countingScanner) Scan(t reflect.Type) ([]HandlerMethod, error) {
	s.calls.Add(1)

	s.mu.Lock()
	names, ok := s.overrides[t]
	s.mu.Unlock()
	if !ok {
		return s.inner.Scan(t)
	}

	// 模拟类型被重新定义：按给定方法名重新生成处理方法集合
	out := make([]HandlerMethod, 0, len(names))
	for _, n := range names {
		m, _ := t.MethodByName(n)
		out = append(out, HandlerMethod{Method: m, EventType: m.Type.In(1), Declarer: t})
	}
	return out, nil
}

func (s *countingScanner) override(t reflect.Type, names ...string) {
	s.mu.Lock()
	s.overrides[t] = names
	s.mu.Unlock()
}

func newTestCache() (*Cache, *countingScanner) {
	scanner := newCountingScanner()
	return NewCache(scanner, scope.NewHolder(nil), nil), scanner
}

// ============================================================================
//                              GetOrCreate
// ============================================================================

func TestCache_ZeroHandlerTypeCachesNothing(t *testing.T) {
	c, scanner := newTestCache()
	l := &silent{}

	a, created, err := c.GetOrCreate(l, l, nil)
	require.NoError(t, err)
	assert.Nil(t, a)
	assert.False(t, created)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Types())

	// 没有缓存空模板，每次都重新扫描
	_, _, err = c.GetOrCreate(l, l, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), scanner.calls.Load())
}

func TestCache_Idempotent(t *testing.T) {
	c, scanner := newTestCache()
	l := &audit{}

	first, created, err := c.GetOrCreate(l, l, nil)
	require.NoError(t, err)
	require.True(t, created)

	again, created, err := c.GetOrCreate(l, l, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, first, again)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int32(1), scanner.calls.Load())
}

func TestCache_SameTypeSharesTemplate(t *testing.T) {
	c, scanner := newTestCache()
	l1, l2 := &audit{}, &audit{}

	a1, _, err := c.GetOrCreate(l1, l1, nil)
	require.NoError(t, err)
	a2, created, err := c.GetOrCreate(l2, l2, nil)
	require.NoError(t, err)

	assert.True(t, created)
	assert.NotSame(t, a1, a2)
	assert.Same(t, a1.Template(), a2.Template())
	assert.Same(t, &a1.Methods()[0], &a2.Methods()[0])
	assert.Equal(t, int32(1), scanner.calls.Load(), "second instance is cloned without scanning")
	assert.Equal(t, []reflect.Type{auditType}, c.Types())
}

func TestCache_ScopeCapturedPerRegistration(t *testing.T) {
	c, _ := newTestCache()
	l1, l2 := &audit{}, &audit{}
	s1, s2 := types.NewScope("a", nil), types.NewScope("b", nil)

	a1, _, err := c.GetOrCreate(l1, l1, s1)
	require.NoError(t, err)
	a2, _, err := c.GetOrCreate(l2, l2, s2)
	require.NoError(t, err)

	assert.Same(t, s1, a1.Scope())
	assert.Same(t, s2, a2.Scope())
}

func TestCache_HandleSubjects(t *testing.T) {
	c, _ := newTestCache()
	l := &audit{}
	h1 := types.NewHandle(l, types.NewScope("h1", nil))
	h2 := types.NewHandle(l, types.NewScope("h2", nil))

	a1, created1, err := c.GetOrCreate(h1, h1.Listener, h1.Scope)
	require.NoError(t, err)
	a2, created2, err := c.GetOrCreate(h2, h2.Listener, h2.Scope)
	require.NoError(t, err)

	assert.True(t, created1)
	assert.True(t, created2)
	assert.NotSame(t, a1, a2, "subjects are distinct even for the same listener")
	assert.Same(t, l, a2.Listener())
	assert.Equal(t, 2, c.Len())
}

func TestCache_InvalidInput(t *testing.T) {
	c, _ := newTestCache()

	_, _, err := c.GetOrCreate(nil, nil, nil)
	assert.ErrorIs(t, err, types.ErrNilListener)

	_, _, err = c.GetOrCreate(audit{}, audit{}, nil)
	assert.ErrorIs(t, err, types.ErrNotPointer)

	// 不可比较的值类型监听器同样按非指针拒绝
	withSlice := struct{ items []int }{}
	_, _, err = c.GetOrCreate(withSlice, withSlice, nil)
	assert.ErrorIs(t, err, types.ErrNotPointer)
	assert.NotErrorIs(t, err, ErrNotComparable)

	_, _, err = c.GetOrCreate([]int{1}, &audit{}, nil)
	assert.ErrorIs(t, err, ErrNotComparable)

	assert.Nil(t, c.Remove([]int{1}))
	_, ok := c.Lookup([]int{1})
	assert.False(t, ok)
}

func TestCache_SynthesisFailureNotCached(t *testing.T) {
	c, scanner := newTestCache()

	for i := 0; i < 2; i++ {
		l := &variadic{}
		a, created, err := c.GetOrCreate(l, l, nil)
		assert.Nil(t, a)
		assert.False(t, created)
		assert.ErrorIs(t, err, ErrMalformedHandler)
	}
	assert.Equal(t, int32(2), scanner.calls.Load(), "failed type is retried")
	assert.Equal(t, 0, c.Len())
}

// ============================================================================
//                              Remove / Clear
// ============================================================================

func TestCache_Remove(t *testing.T) {
	c, _ := newTestCache()
	l1, l2 := &audit{}, &audit{}
	a1, _, _ := c.GetOrCreate(l1, l1, nil)
	_, _, _ = c.GetOrCreate(l2, l2, nil)

	removed := c.Remove(l1)
	assert.Same(t, a1, removed)
	assert.True(t, removed.Destroyed())
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, []reflect.Type{auditType}, c.Types(), "lineage kept while a subject lives")

	_, ok := c.Lookup(l1)
	assert.False(t, ok)

	assert.Nil(t, c.Remove(l1), "second remove is a no-op")
	assert.Nil(t, c.Remove(&audit{}))
	assert.Nil(t, c.Remove(nil))
}

// TestCache_LineageDroppedAfterLastRemove 最后一个 subject 移除后重新发现
func TestCache_LineageDroppedAfterLastRemove(t *testing.T) {
	c, scanner := newTestCache()

	l1 := &audit{}
	a1, _, err := c.GetOrCreate(l1, l1, nil)
	require.NoError(t, err)
	require.Equal(t, 2, a1.Template().Len())

	c.Remove(l1)
	assert.Empty(t, c.Types())

	// 类型“重新定义”：只保留 OnPlaced
	scanner.override(auditType, "OnPlaced")

	l2 := &audit{}
	a2, created, err := c.GetOrCreate(l2, l2, nil)
	require.NoError(t, err)
	require.True(t, created)

	assert.Equal(t, int32(2), scanner.calls.Load())
	assert.NotSame(t, a1.Template(), a2.Template())
	assert.Equal(t, []string{"OnPlaced"}, methodNames(a2.Methods()))
}

func TestCache_Clear(t *testing.T) {
	c, _ := newTestCache()
	listeners := []any{&audit{}, &audit{}, &derived{}}
	for _, l := range listeners {
		_, _, err := c.GetOrCreate(l, l, nil)
		require.NoError(t, err)
	}

	cleared := c.Clear()
	require.Len(t, cleared, 3)
	for _, a := range cleared {
		assert.True(t, a.Destroyed())
	}
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Types())
	assert.Empty(t, c.Clear())
}

// ============================================================================
//                              并发与指标
// ============================================================================

func TestCache_ConcurrentRegistrationScansOnce(t *testing.T) {
	c, scanner := newTestCache()

	const n = 64
	listeners := make([]*audit, n)
	for i := range listeners {
		listeners[i] = &audit{}
	}

	var g errgroup.Group
	for _, l := range listeners {
		g.Go(func() error {
			_, _, err := c.GetOrCreate(l, l, nil)
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, n, c.Len())
	assert.Equal(t, int32(1), scanner.calls.Load())

	var removeGroup errgroup.Group
	for _, l := range listeners {
		removeGroup.Go(func() error {
			c.Remove(l)
			return nil
		})
	}
	require.NoError(t, removeGroup.Wait())
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Types())
}

func TestCache_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg, "evbus")
	require.NoError(t, err)

	c := NewCache(nil, scope.NewHolder(nil), m)
	l1, l2, l3 := &audit{}, &audit{}, &derived{}
	for _, l := range []any{l1, l2, l3} {
		_, _, err := c.GetOrCreate(l, l, nil)
		require.NoError(t, err)
	}
	c.Remove(l1)

	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP evbus_adapters_registered Adapter instances currently registered.
# TYPE evbus_adapters_registered gauge
evbus_adapters_registered 2
# HELP evbus_templates_synthesized_total Adapter templates synthesized from scanned listener types.
# TYPE evbus_templates_synthesized_total counter
evbus_templates_synthesized_total 2
`), "evbus_adapters_registered", "evbus_templates_synthesized_total"))

	c.Clear()
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP evbus_adapters_registered Adapter instances currently registered.
# TYPE evbus_adapters_registered gauge
evbus_adapters_registered 0
`), "evbus_adapters_registered"))
}
