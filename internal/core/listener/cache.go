package listener

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/dep2p/go-evbus/internal/core/metrics"
	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
	"github.com/dep2p/go-evbus/pkg/lib/log"
	"github.com/dep2p/go-evbus/pkg/types"
)

// ============================================================================
//                              Cache
// ============================================================================

// Cache 注册缓存
//
// 两张表由同一把锁保护：
//   - instances: subject -> Adapter（按 subject 身份）
//   - lineage:   监听器类型 -> 该类型的 subject 集合
//
// 同类型的后续监听器从存活的 subject 克隆适配器，不重新扫描。
// 某类型最后一个 subject 移除后，该类型的条目被删除，
// 之后的注册会重新扫描和生成模板。
type Cache struct {
	mu        sync.Mutex
	instances map[any]*Adapter
	lineage   map[reflect.Type]map[any]struct{}

	scanner  Scanner
	accessor pkgif.ScopeAccessor
	metrics  *metrics.Metrics
}

// NewCache 创建注册缓存
//
// scanner 为 nil 时使用默认的 MarkerScanner。
func NewCache(scanner Scanner, accessor pkgif.ScopeAccessor, m *metrics.Metrics) *Cache {
	if scanner == nil {
		scanner = NewScanner(WithScannerMetrics(m))
	}
	return &Cache{
		instances: make(map[any]*Adapter),
		lineage:   make(map[reflect.Type]map[any]struct{}),
		scanner:   scanner,
		accessor:  accessor,
		metrics:   m,
	}
}

// GetOrCreate 返回 subject 的适配器，必要时创建
//
// 返回值 created 表示本次调用新建了适配器，调用方需要将其订阅到投递原语。
// 监听器类型没有处理方法时返回 (nil, false, nil)，缓存保持不变。
func (c *Cache) GetOrCreate(subject, listener any, scope *types.Scope) (*Adapter, bool, error) {
	if subject == nil || listener == nil {
		return nil, false, types.ErrNilListener
	}
	t := reflect.TypeOf(listener)
	if t.Kind() != reflect.Pointer {
		return nil, false, fmt.Errorf("%w: %s", types.ErrNotPointer, t)
	}
	if !reflect.TypeOf(subject).Comparable() {
		return nil, false, ErrNotComparable
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if a, ok := c.instances[subject]; ok {
		return a, false, nil
	}

	a, err := c.adapterFor(t, listener, scope)
	if err != nil || a == nil {
		return nil, false, err
	}

	c.instances[subject] = a
	subjects, ok := c.lineage[t]
	if !ok {
		subjects = make(map[any]struct{})
		c.lineage[t] = subjects
	}
	subjects[subject] = struct{}{}
	c.metrics.AdapterAdded()

	logger.Debug("适配器已创建",
		"type", t.String(),
		"adapter", log.TruncateID(a.ID(), 8),
		"handlers", a.Template().Len())
	return a, true, nil
}

// adapterFor 克隆同类型的存活适配器，或扫描并生成新模板，调用方持有锁
func (c *Cache) adapterFor(t reflect.Type, listener any, scope *types.Scope) (*Adapter, error) {
	for subject := range c.lineage[t] {
		if src := c.instances[subject]; src != nil {
			return src.Clone(listener, scope)
		}
	}

	methods, err := c.scanner.Scan(t)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", t, err)
	}
	if len(methods) == 0 {
		return nil, nil
	}

	tpl, err := Synthesize(t, methods)
	if err != nil {
		return nil, err
	}
	c.metrics.TemplateSynthesized()

	return Bind(tpl, listener, scope, c.accessor)
}

// Remove 移除并销毁 subject 的适配器
//
// 返回被移除的适配器（已销毁），调用方据此从投递原语取消订阅。未注册时返回 nil。
func (c *Cache) Remove(subject any) *Adapter {
	if subject == nil || !reflect.TypeOf(subject).Comparable() {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.instances[subject]
	if !ok {
		return nil
	}
	delete(c.instances, subject)

	t := a.Template().Type()
	if subjects, ok := c.lineage[t]; ok {
		delete(subjects, subject)
		if len(subjects) == 0 {
			delete(c.lineage, t)
		}
	}

	a.Destroy()
	c.metrics.AdapterRemoved(1)
	return a
}

// Clear 销毁并返回全部适配器，之后缓存为空
func (c *Cache) Clear() []*Adapter {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*Adapter, 0, len(c.instances))
	for _, a := range c.instances {
		a.Destroy()
		out = append(out, a)
	}
	c.instances = make(map[any]*Adapter)
	c.lineage = make(map[reflect.Type]map[any]struct{})
	c.metrics.AdapterRemoved(len(out))
	return out
}

// ============================================================================
//                              观察接口
// ============================================================================

// Len 返回缓存的适配器数量
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.instances)
}

// Types 返回有存活 subject 的监听器类型
func (c *Cache) Types() []reflect.Type {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]reflect.Type, 0, len(c.lineage))
	for t := range c.lineage {
		out = append(out, t)
	}
	return out
}

// Lookup 返回 subject 的适配器
func (c *Cache) Lookup(subject any) (*Adapter, bool) {
	if subject == nil || !reflect.TypeOf(subject).Comparable() {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.instances[subject]
	return a, ok
}
