package listener

import (
	"bytes"
	"os"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dep2p/go-evbus/pkg/lib/log"
	"github.com/dep2p/go-evbus/pkg/types"
)

// ============================================================================
// 测试事件
// ============================================================================

type orderPlaced struct{ ID int }

type orderCancelled struct{ ID int }

// ============================================================================
// 测试监听器
// ============================================================================

// audit 两个直接声明的处理方法
type audit struct {
	_ types.Marker `subscribe:"OnPlaced,OnCancelled"`

	mu        sync.Mutex
	placed    []*orderPlaced
	cancelled int
	fail      error
	onCall    func()
}

func (a *audit) OnPlaced(e *orderPlaced) {
	a.mu.Lock()
	a.placed = append(a.placed, e)
	a.mu.Unlock()
	if a.onCall != nil {
		a.onCall()
	}
}

func (a *audit) OnCancelled(e orderCancelled) error {
	a.mu.Lock()
	a.cancelled++
	a.mu.Unlock()
	return a.fail
}

// Helper 单参数但未标记
func (a *audit) Helper(int) {}

// Pair 两个参数，不是候选方法
func (a *audit) Pair(int, int) {}

func (a *audit) placedCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.placed)
}

// baseHandler 在嵌入类型上声明标记
type baseHandler struct {
	_ types.Marker `subscribe:"Handle"`
}

func (b *baseHandler) Handle(*orderPlaced) {}

// derived 覆盖 Handle 但不重复声明标记
type derived struct {
	baseHandler
	got atomic.Int32
}

func (d *derived) Handle(*orderPlaced) { d.got.Add(1) }

// deepDerived 两层嵌入，通过指针嵌入
type deepDerived struct {
	*derived
}

// legacy OnOld 同时带有 persisted 标记
type legacy struct {
	_ types.Marker `subscribe:"OnPlaced,OnOld"`
	_ types.Marker `persisted:"OnOld"`

	placed atomic.Int32
	old    atomic.Int32
}

func (l *legacy) OnPlaced(*orderPlaced) { l.placed.Add(1) }
func (l *legacy) OnOld(*orderPlaced)    { l.old.Add(1) }

// orderSink 通过 WithMarkerInterface 声明标记的接口
type orderSink interface {
	Consume(*orderPlaced)
}

var orderSinkType = reflect.TypeOf((*orderSink)(nil)).Elem()

type viaIface struct{ n atomic.Int32 }

func (v *viaIface) Consume(*orderPlaced) { v.n.Add(1) }

// silent 有单参数方法但没有任何标记
type silent struct{}

func (s *silent) OnPlaced(*orderPlaced) {}

// variadic 签名不合法：可变参数
type variadic struct {
	_ types.Marker `subscribe:"Many"`
}

func (v *variadic) Many(...int) {}

// badReturn 签名不合法：返回值不是 error
type badReturn struct {
	_ types.Marker `subscribe:"Calc"`
}

func (b *badReturn) Calc(*orderPlaced) int { return 0 }

// typo 标签里有不存在的方法名
type typo struct {
	_ types.Marker `subscribe:"OnPlaced, OnPlacd"`
}

func (t *typo) OnPlaced(*orderPlaced) {}

// cycA/cycB 互相嵌入
type cycA struct {
	*cycB
	_ types.Marker `subscribe:"Ping"`
}

type cycB struct {
	*cycA
}

func (a *cycA) Ping(*orderPlaced) {}

// scoped 在处理方法中记录当前作用域
type scoped struct {
	_ types.Marker `subscribe:"OnPlaced,Explode"`

	current func() *types.Scope
	mu      sync.Mutex
	seen    []*types.Scope
}

func (s *scoped) OnPlaced(*orderPlaced) {
	s.mu.Lock()
	s.seen = append(s.seen, s.current())
	s.mu.Unlock()
}

func (s *scoped) Explode(*orderCancelled) {
	panic("boom")
}

var (
	auditType   = reflect.TypeOf(&audit{})
	derivedType = reflect.TypeOf(&derived{})
)

// ============================================================================
// 辅助函数
// ============================================================================

// captureLogs 捕获 Warn 及以上日志，测试结束时恢复
func captureLogs(t *testing.T) *syncBuffer {
	t.Helper()

	buf := &syncBuffer{}
	log.SetOutputWithLevel(buf, log.LevelWarn)
	t.Cleanup(func() {
		log.Setup(os.Stderr, log.FormatText, log.LevelInfo)
	})
	return buf
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// recoverError 执行 fn 并返回 panic 的 error 值
func recoverError(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	fn()
	return nil
}

func mustTemplate(t *testing.T, typ reflect.Type) *Template {
	t.Helper()

	methods, err := NewScanner().Scan(typ)
	if err != nil {
		t.Fatalf("Scan(%s) failed: %v", typ, err)
	}
	tpl, err := Synthesize(typ, methods)
	if err != nil {
		t.Fatalf("Synthesize(%s) failed: %v", typ, err)
	}
	return tpl
}

func methodNames(methods []HandlerMethod) []string {
	out := make([]string, len(methods))
	for i, m := range methods {
		out[i] = m.Name()
	}
	return out
}
