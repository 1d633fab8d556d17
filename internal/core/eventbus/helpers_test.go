package eventbus

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dep2p/go-evbus/config"
	"github.com/dep2p/go-evbus/internal/core/executor"
	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ============================================================================
// 测试事件
// ============================================================================

type orderPlaced struct{ ID int }

type userCreated struct{ Who string }

func (u userCreated) Name() string { return u.Who }

type named interface{ Name() string }

var (
	orderType = reflect.TypeOf(orderPlaced{})
	userType  = reflect.TypeOf(userCreated{})
	namedType = reflect.TypeOf((*named)(nil)).Elem()
)

// ============================================================================
// 测试处理器
// ============================================================================

// recorder 记录收到的事件
type recorder struct {
	name  string
	types []reflect.Type
	err   error
	trace *trace

	mu  sync.Mutex
	got []any
}

func newRecorder(name string, types ...reflect.Type) *recorder {
	return &recorder{name: name, types: types}
}

func (r *recorder) EntryPoints() []pkgif.EntryPoint {
	eps := make([]pkgif.EntryPoint, 0, len(r.types))
	for _, typ := range r.types {
		eps = append(eps, pkgif.EntryPoint{EventType: typ, Deliver: r.deliver})
	}
	return eps
}

func (r *recorder) deliver(event any) error {
	r.mu.Lock()
	r.got = append(r.got, event)
	r.mu.Unlock()
	if r.trace != nil {
		r.trace.add(r.name)
	}
	return r.err
}

func (r *recorder) events() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]any(nil), r.got...)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

// trace 记录跨处理器的投递顺序
type trace struct {
	mu    sync.Mutex
	names []string
}

func (t *trace) add(name string) {
	t.mu.Lock()
	t.names = append(t.names, name)
	t.mu.Unlock()
}

func (t *trace) snapshot() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.names...)
}

// ============================================================================
// 构造辅助
// ============================================================================

func newTestBus(t *testing.T, opts ...Option) (*Bus, *executor.Serial) {
	t.Helper()

	exec := executor.NewSerial(config.DefaultExecutorConfig(), nil)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = exec.Shutdown(ctx)
	})

	bus, err := NewBus(exec, opts...)
	require.NoError(t, err)
	return bus, exec
}

// flush 等待执行器处理完此前提交的全部任务
func flush(t *testing.T, exec pkgif.Executor) {
	t.Helper()

	done := make(chan struct{})
	require.NoError(t, exec.Execute(func() { close(done) }))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("executor did not drain in time")
	}
}

// gate 阻塞执行器直到返回的函数被调用
func gate(t *testing.T, exec pkgif.Executor) (release func()) {
	t.Helper()

	ch := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, exec.Execute(func() {
		close(started)
		<-ch
	}))
	<-started

	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}
