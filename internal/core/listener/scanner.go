package listener

import (
	"reflect"

	"github.com/dep2p/go-evbus/internal/core/metrics"
	"github.com/dep2p/go-evbus/pkg/lib/log"
	"github.com/dep2p/go-evbus/pkg/types"
)

var logger = log.Logger("core/listener")

var markerType = reflect.TypeOf(types.Marker{})

// ============================================================================
//                              HandlerMethod
// ============================================================================

// HandlerMethod 一个可投递的处理方法
type HandlerMethod struct {
	// Method 监听器指针类型上的方法
	Method reflect.Method

	// EventType 处理方法的参数类型
	EventType reflect.Type

	// Declarer 声明订阅标记的类型
	Declarer reflect.Type
}

// Name 返回方法名
func (h HandlerMethod) Name() string {
	return h.Method.Name
}

// ============================================================================
//                              Scanner
// ============================================================================

// Scanner 处理方法发现
type Scanner interface {
	// Scan 返回 t 上的处理方法，按方法名排序
	//
	// 没有处理方法时返回 nil 切片和 nil 错误。
	Scan(t reflect.Type) ([]HandlerMethod, error)
}

// markerInterface 在扫描器上声明了标记的接口
type markerInterface struct {
	typ       reflect.Type
	subscribe map[string]struct{}
	persisted map[string]struct{}
}

// ScannerOption 扫描器选项
type ScannerOption func(*MarkerScanner)

// WithMarkerInterface 为接口声明订阅标记
//
// 实现该接口的监听器继承这些标记，作用等同于在结构体上声明 Marker 字段。
func WithMarkerInterface(iface reflect.Type, subscribe []string, persisted []string) ScannerOption {
	return func(s *MarkerScanner) {
		if iface == nil || iface.Kind() != reflect.Interface {
			logger.Warn("忽略非接口类型的标记声明", "type", typeName(iface))
			return
		}
		mi := markerInterface{
			typ:       iface,
			subscribe: nameSet(subscribe),
			persisted: nameSet(persisted),
		}
		for name := range mi.subscribe {
			if m, ok := iface.MethodByName(name); !ok || m.Type.NumIn() != 1 {
				logger.Warn("标记指向的方法不存在或不是单参数方法", "type", iface.String(), "method", name)
			}
		}
		s.ifaces = append(s.ifaces, mi)
	}
}

// WithScannerMetrics 设置指标记录器
func WithScannerMetrics(m *metrics.Metrics) ScannerOption {
	return func(s *MarkerScanner) {
		s.metrics = m
	}
}

// MarkerScanner 基于结构体标签的扫描器
type MarkerScanner struct {
	ifaces  []markerInterface
	metrics *metrics.Metrics
}

var _ Scanner = (*MarkerScanner)(nil)

// NewScanner 创建扫描器
func NewScanner(opts ...ScannerOption) *MarkerScanner {
	s := &MarkerScanner{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan 扫描监听器类型
func (s *MarkerScanner) Scan(t reflect.Type) ([]HandlerMethod, error) {
	if t == nil || t.Kind() != reflect.Pointer {
		return nil, ErrInvalidListener
	}

	s.reportUnknownTags(t, make(map[reflect.Type]struct{}))

	var out []HandlerMethod
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if m.Type.NumIn() != 2 {
			continue
		}

		w := &walk{name: m.Name, sig: signature(m.Type, true), seen: make(map[reflect.Type]struct{})}
		if !s.visit(t, w) {
			continue
		}
		if w.persisted {
			logger.Warn("处理方法带有已废弃的 persisted 标记，已排除",
				"type", t.String(),
				"method", m.Name,
				"declarer", w.declarer.String())
			s.metrics.HandlerExcluded()
			continue
		}

		out = append(out, HandlerMethod{
			Method:    m,
			EventType: m.Type.In(1),
			Declarer:  w.declarer,
		})
	}
	return out, nil
}

// ============================================================================
//                              标记继承遍历
// ============================================================================

// walk 单个方法的遍历状态
type walk struct {
	name      string
	sig       reflect.Type // 不含接收者的方法签名
	seen      map[reflect.Type]struct{}
	persisted bool
	declarer  reflect.Type
}

// visit 在 owner 及其嵌入类型、标记接口中查找订阅标记
//
// owner 是指针类型。直接声明优先；否则按字段顺序递归嵌入类型，最后是标记接口。
// 遍历到的 persisted 标记会被累积。
func (s *MarkerScanner) visit(owner reflect.Type, w *walk) bool {
	if _, ok := w.seen[owner]; ok {
		return false
	}
	w.seen[owner] = struct{}{}

	elem := owner.Elem()
	if elem.Kind() == reflect.Struct {
		subscribe, persisted := markerTags(elem)
		if _, ok := persisted[w.name]; ok {
			w.persisted = true
		}
		if _, ok := subscribe[w.name]; ok {
			w.declarer = owner
			return true
		}

		for i := 0; i < elem.NumField(); i++ {
			f := elem.Field(i)
			if !f.Anonymous {
				continue
			}
			embedded := embeddedPointer(f.Type)
			if embedded == nil || !declares(embedded, w.name, w.sig) {
				continue
			}
			if s.visit(embedded, w) {
				return true
			}
		}
	}

	for _, mi := range s.ifaces {
		if _, ok := w.seen[mi.typ]; ok || !owner.Implements(mi.typ) {
			continue
		}
		m, ok := mi.typ.MethodByName(w.name)
		if !ok || m.Type != w.sig {
			continue
		}
		w.seen[mi.typ] = struct{}{}
		if _, ok := mi.persisted[w.name]; ok {
			w.persisted = true
		}
		if _, ok := mi.subscribe[w.name]; ok {
			w.declarer = mi.typ
			return true
		}
	}
	return false
}

// reportUnknownTags 记录指向不存在方法的标记（发现错误，不致命）
func (s *MarkerScanner) reportUnknownTags(owner reflect.Type, seen map[reflect.Type]struct{}) {
	if _, ok := seen[owner]; ok {
		return
	}
	seen[owner] = struct{}{}

	elem := owner.Elem()
	if elem.Kind() != reflect.Struct {
		return
	}

	subscribe, persisted := markerTags(elem)
	for _, names := range []map[string]struct{}{subscribe, persisted} {
		for name := range names {
			if m, ok := owner.MethodByName(name); !ok || m.Type.NumIn() != 2 {
				logger.Warn("标记指向的方法不存在或不是单参数导出方法",
					"type", owner.String(),
					"method", name)
			}
		}
	}

	for i := 0; i < elem.NumField(); i++ {
		if f := elem.Field(i); f.Anonymous {
			if embedded := embeddedPointer(f.Type); embedded != nil {
				s.reportUnknownTags(embedded, seen)
			}
		}
	}
}

// ============================================================================
//                              辅助函数
// ============================================================================

// markerTags 收集结构体上 Marker 字段的标签
func markerTags(st reflect.Type) (subscribe, persisted map[string]struct{}) {
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if f.Type != markerType {
			continue
		}
		for _, name := range types.SplitTag(f.Tag.Get(types.TagSubscribe)) {
			if subscribe == nil {
				subscribe = make(map[string]struct{})
			}
			subscribe[name] = struct{}{}
		}
		for _, name := range types.SplitTag(f.Tag.Get(types.TagPersisted)) {
			if persisted == nil {
				persisted = make(map[string]struct{})
			}
			persisted[name] = struct{}{}
		}
	}
	return subscribe, persisted
}

// embeddedPointer 返回嵌入结构体字段对应的指针类型，非结构体返回 nil
func embeddedPointer(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return reflect.PointerTo(t)
}

// declares 指针类型 t 是否有同名同签名的方法
func declares(t reflect.Type, name string, sig reflect.Type) bool {
	m, ok := t.MethodByName(name)
	return ok && signature(m.Type, true) == sig
}

// signature 返回去掉接收者后的函数类型
func signature(mt reflect.Type, hasReceiver bool) reflect.Type {
	start := 0
	if hasReceiver {
		start = 1
	}
	in := make([]reflect.Type, 0, mt.NumIn()-start)
	for i := start; i < mt.NumIn(); i++ {
		in = append(in, mt.In(i))
	}
	out := make([]reflect.Type, 0, mt.NumOut())
	for i := 0; i < mt.NumOut(); i++ {
		out = append(out, mt.Out(i))
	}
	return reflect.FuncOf(in, out, mt.IsVariadic())
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
