package eventbus

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dep2p/go-evbus/internal/core/metrics"
	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
	"github.com/dep2p/go-evbus/pkg/lib/log"
)

var logger = log.Logger("core/eventbus")

// ============================================================================
// Bus 实现
// ============================================================================

// Bus 事件总线
type Bus struct {
	mu sync.RWMutex

	// nodes 具体事件类型节点
	nodes map[reflect.Type]*node
	// ifaces 接口事件类型节点，按创建顺序
	ifaces []*node
	// subs 处理器身份 -> 订阅
	subs map[pkgif.DeliveryHandler]*Subscription

	// routes 事件类型 -> 解析后的路由；nil 表示不缓存
	routes *lru.Cache[reflect.Type, []route]

	exec          pkgif.Executor
	onError       pkgif.ErrorHandler
	logDeadEvents bool
	metrics       *metrics.Metrics

	closed atomic.Bool
}

var _ pkgif.DeliveryBus = (*Bus)(nil)

// NewBus 创建新的事件总线
func NewBus(exec pkgif.Executor, opts ...Option) (*Bus, error) {
	if exec == nil {
		return nil, ErrNilExecutor
	}

	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	b := &Bus{
		nodes:         make(map[reflect.Type]*node),
		subs:          make(map[pkgif.DeliveryHandler]*Subscription),
		exec:          exec,
		onError:       s.onError,
		logDeadEvents: s.logDeadEvents,
		metrics:       s.metrics,
	}

	if s.routeCacheSize > 0 {
		cache, err := lru.New[reflect.Type, []route](s.routeCacheSize)
		if err != nil {
			return nil, fmt.Errorf("create route cache: %w", err)
		}
		b.routes = cache
	}

	return b, nil
}

// ============================================================================
// DeliveryBus 接口实现
// ============================================================================

// Subscribe 订阅处理器的全部入口点
func (b *Bus) Subscribe(h pkgif.DeliveryHandler) error {
	if h == nil {
		return ErrNilHandler
	}
	if !reflect.TypeOf(h).Comparable() {
		return ErrInvalidHandler
	}

	entries := h.EntryPoints()
	if len(entries) == 0 {
		return ErrNoEntryPoints
	}
	for i, e := range entries {
		if e.EventType == nil || e.Deliver == nil {
			return fmt.Errorf("%w: index %d", ErrInvalidEntryPoint, i)
		}
	}

	if b.closed.Load() {
		return ErrClosed
	}

	sub := &Subscription{handler: h, entries: entries}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[h]; ok {
		return ErrAlreadySubscribed
	}
	b.subs[h] = sub
	sub.active.Store(true)

	for _, e := range entries {
		n := b.nodeLocked(e.EventType)
		n.routes = append(n.routes, route{sub: sub, entry: e})
	}
	b.purgeRoutesLocked()

	logger.Debug("处理器已订阅", "handler", fmt.Sprintf("%T", h), "entries", len(entries))
	return nil
}

// Unsubscribe 按处理器身份取消订阅
func (b *Bus) Unsubscribe(h pkgif.DeliveryHandler) error {
	if h == nil {
		return ErrNilHandler
	}
	if !reflect.TypeOf(h).Comparable() {
		return ErrInvalidHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subs[h]
	if !ok {
		return nil
	}
	delete(b.subs, h)
	sub.active.Store(false)

	for _, e := range sub.entries {
		b.dropRoutesLocked(e.EventType, sub)
	}
	b.purgeRoutesLocked()

	logger.Debug("处理器已取消订阅", "handler", fmt.Sprintf("%T", h))
	return nil
}

// Dispatch 异步投递事件
//
// 路由在调用时解析，之后的订阅变化不影响本次投递。
// 没有任何路由的事件记为死事件，不提交给执行器。
func (b *Bus) Dispatch(event any) error {
	if event == nil {
		return ErrNilEvent
	}
	if b.closed.Load() {
		return ErrClosed
	}

	typ := reflect.TypeOf(event)
	routes := b.resolve(typ)
	b.metrics.EventPosted()

	if len(routes) == 0 {
		b.metrics.DeadEvent()
		if b.logDeadEvents {
			logger.Debug("事件无接收者", "type", typ.String())
		}
		return nil
	}

	if err := b.exec.Execute(func() { b.deliver(event, routes) }); err != nil {
		return fmt.Errorf("submit delivery: %w", err)
	}
	return nil
}

// ============================================================================
// 辅助方法
// ============================================================================

// Close 关闭总线
//
// 关闭后 Subscribe 和 Dispatch 返回 ErrClosed。已提交的投递不受影响。
func (b *Bus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for h, sub := range b.subs {
		sub.active.Store(false)
		delete(b.subs, h)
	}
	b.nodes = make(map[reflect.Type]*node)
	b.ifaces = nil
	b.purgeRoutesLocked()
	return nil
}

// Subscription 返回处理器的订阅记录
func (b *Bus) Subscription(h pkgif.DeliveryHandler) (*Subscription, bool) {
	if h == nil || !reflect.TypeOf(h).Comparable() {
		return nil, false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	sub, ok := b.subs[h]
	return sub, ok
}

// Subscribers 返回当前订阅的处理器数量
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}

// GetAllEventTypes 返回所有存在订阅的事件类型
func (b *Bus) GetAllEventTypes() []reflect.Type {
	b.mu.RLock()
	defer b.mu.RUnlock()

	types := make([]reflect.Type, 0, len(b.nodes)+len(b.ifaces))
	for typ := range b.nodes {
		types = append(types, typ)
	}
	for _, n := range b.ifaces {
		types = append(types, n.typ)
	}
	return types
}

// ============================================================================
// 内部方法
// ============================================================================

// nodeLocked 获取或创建事件类型节点，调用方持有写锁
func (b *Bus) nodeLocked(typ reflect.Type) *node {
	if typ.Kind() == reflect.Interface {
		for _, n := range b.ifaces {
			if n.typ == typ {
				return n
			}
		}
		n := &node{typ: typ}
		b.ifaces = append(b.ifaces, n)
		return n
	}

	n, ok := b.nodes[typ]
	if !ok {
		n = &node{typ: typ}
		b.nodes[typ] = n
	}
	return n
}

// dropRoutesLocked 移除 sub 在某个节点上的路由，节点为空时删除节点
func (b *Bus) dropRoutesLocked(typ reflect.Type, sub *Subscription) {
	if typ.Kind() == reflect.Interface {
		for i, n := range b.ifaces {
			if n.typ != typ {
				continue
			}
			n.routes = n.without(sub)
			if len(n.routes) == 0 {
				b.ifaces = append(b.ifaces[:i:i], b.ifaces[i+1:]...)
			}
			return
		}
		return
	}

	n, ok := b.nodes[typ]
	if !ok {
		return
	}
	n.routes = n.without(sub)
	if len(n.routes) == 0 {
		delete(b.nodes, typ)
	}
}

func (b *Bus) purgeRoutesLocked() {
	if b.routes != nil {
		b.routes.Purge()
	}
}

// resolve 解析事件类型的路由
//
// 缓存写入在读锁下进行，与写锁下的清空互斥，不会写入过期结果。
func (b *Bus) resolve(typ reflect.Type) []route {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.routes != nil {
		if routes, ok := b.routes.Get(typ); ok {
			return routes
		}
	}

	var routes []route
	if n, ok := b.nodes[typ]; ok {
		routes = append(routes, n.routes...)
	}
	for _, n := range b.ifaces {
		if typ.Implements(n.typ) {
			routes = append(routes, n.routes...)
		}
	}

	if b.routes != nil {
		b.routes.Add(typ, routes)
	}
	return routes
}

// deliver 在执行器协程中逐个调用入口点
func (b *Bus) deliver(event any, routes []route) {
	for _, r := range routes {
		err := r.entry.Deliver(event)
		b.metrics.Delivered()
		if err != nil {
			b.metrics.DeliveryFailed()
			b.onError(&pkgif.DeliveryError{
				Err:     err,
				Event:   event,
				Handler: r.sub.handler,
			})
		}
	}
}

func eventTypeName(event any) string {
	if event == nil {
		return "<nil>"
	}
	return reflect.TypeOf(event).String()
}
