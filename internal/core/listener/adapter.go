package listener

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/google/uuid"

	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
	"github.com/dep2p/go-evbus/pkg/types"
)

// ============================================================================
//                              Adapter
// ============================================================================

// Adapter 绑定到一个监听器实例的适配器
//
// Adapter 实现 pkgif.DeliveryHandler。Destroy 之后入口点仍然有效但不再调用监听器，
// 销毁的 Adapter 仍是从投递原语取消订阅的句柄。
type Adapter struct {
	id       string
	tpl      *Template
	accessor pkgif.ScopeAccessor
	entries  []pkgif.EntryPoint

	binding atomic.Pointer[binding]
}

// binding 适配器的可销毁状态
type binding struct {
	listener any
	scope    *types.Scope
	methods  []HandlerMethod // 与模板共享
	calls    []reflect.Value // 绑定到监听器的方法值
}

var _ pkgif.DeliveryHandler = (*Adapter)(nil)

// Bind 把模板绑定到监听器
//
// scope 为 nil 时使用根作用域；accessor 为 nil 时调用处理方法不切换作用域。
func Bind(tpl *Template, listener any, scope *types.Scope, accessor pkgif.ScopeAccessor) (*Adapter, error) {
	if tpl == nil {
		return nil, ErrNilTemplate
	}
	if listener == nil {
		return nil, types.ErrNilListener
	}

	v := reflect.ValueOf(listener)
	if v.Type() != tpl.typ {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrTypeMismatch, v.Type(), tpl.typ)
	}
	if v.IsNil() {
		return nil, types.ErrNilListener
	}
	if scope == nil {
		scope = types.RootScope
	}

	calls := make([]reflect.Value, len(tpl.methods))
	for i, h := range tpl.methods {
		calls[i] = v.Method(h.Method.Index)
	}

	a := &Adapter{
		id:       uuid.NewString(),
		tpl:      tpl,
		accessor: accessor,
	}
	a.binding.Store(&binding{
		listener: listener,
		scope:    scope,
		methods:  tpl.methods,
		calls:    calls,
	})

	a.entries = make([]pkgif.EntryPoint, len(tpl.entries))
	for i, e := range tpl.entries {
		a.entries[i] = pkgif.EntryPoint{
			EventType: e.eventType,
			Deliver:   func(event any) error { return a.Invoke(i, event) },
		}
	}
	return a, nil
}

// Clone 用同一模板绑定另一个监听器
func (a *Adapter) Clone(listener any, scope *types.Scope) (*Adapter, error) {
	return Bind(a.tpl, listener, scope, a.accessor)
}

// Invoke 用事件调用第 i 个处理方法
//
// 已销毁时为空操作。调用期间处理方法作用域（Delivering）切换为注册时捕获的作用域，
// 返回时恢复；调用方的 Current 不受影响。
// 事件类型不匹配或处理方法不可达时 panic；处理方法自身的 panic 原样传播。
func (a *Adapter) Invoke(i int, event any) error {
	b := a.binding.Load()
	if b == nil {
		return nil
	}

	if i < 0 || i >= len(b.calls) || !b.calls[i].IsValid() {
		panic(fmt.Errorf("%w: %s handler #%d", ErrHandlerUnreachable, a.tpl.typ, i))
	}
	param := a.tpl.entries[i].eventType

	var arg reflect.Value
	switch {
	case event != nil && reflect.TypeOf(event).AssignableTo(param):
		arg = reflect.ValueOf(event)
	case event == nil && nillable(param):
		arg = reflect.Zero(param)
	default:
		panic(fmt.Errorf("%w: %s.%s cannot accept %s",
			ErrEventRejected, a.tpl.typ, b.methods[i].Method.Name, eventTypeName(event)))
	}

	if a.accessor != nil {
		prev := a.accessor.Enter(b.scope)
		defer a.accessor.Enter(prev)
	}

	out := b.calls[i].Call([]reflect.Value{arg})
	if len(out) == 1 && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}

// Destroy 清除监听器、作用域和处理方法引用，可重复调用
func (a *Adapter) Destroy() {
	a.binding.Store(nil)
}

// EntryPoints 实现 pkgif.DeliveryHandler
func (a *Adapter) EntryPoints() []pkgif.EntryPoint {
	return append([]pkgif.EntryPoint(nil), a.entries...)
}

// ============================================================================
//                              访问器
// ============================================================================

// ID 返回适配器 ID
func (a *Adapter) ID() string {
	return a.id
}

// Template 返回适配模板
func (a *Adapter) Template() *Template {
	return a.tpl
}

// Destroyed 是否已销毁
func (a *Adapter) Destroyed() bool {
	return a.binding.Load() == nil
}

// Listener 返回绑定的监听器，销毁后返回 nil
func (a *Adapter) Listener() any {
	if b := a.binding.Load(); b != nil {
		return b.listener
	}
	return nil
}

// Scope 返回捕获的作用域，销毁后返回 nil
func (a *Adapter) Scope() *types.Scope {
	if b := a.binding.Load(); b != nil {
		return b.scope
	}
	return nil
}

// Methods 返回处理方法列表，销毁后返回 nil
func (a *Adapter) Methods() []HandlerMethod {
	if b := a.binding.Load(); b != nil {
		return b.methods
	}
	return nil
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

func eventTypeName(event any) string {
	if event == nil {
		return "<nil>"
	}
	return reflect.TypeOf(event).String()
}
