package eventbus

import (
	"reflect"
	"sync/atomic"

	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
)

// ============================================================================
// Subscription 实现
// ============================================================================

// Subscription 一个处理器的订阅记录
type Subscription struct {
	handler pkgif.DeliveryHandler
	entries []pkgif.EntryPoint
	active  atomic.Bool
}

// Handler 返回订阅的处理器
func (s *Subscription) Handler() pkgif.DeliveryHandler {
	return s.handler
}

// EventTypes 返回订阅的事件类型，按入口点顺序
func (s *Subscription) EventTypes() []reflect.Type {
	out := make([]reflect.Type, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.EventType
	}
	return out
}

// Active 订阅是否仍在总线上
func (s *Subscription) Active() bool {
	return s.active.Load()
}

// route 一条投递路由
type route struct {
	sub   *Subscription
	entry pkgif.EntryPoint
}

// node 事件类型节点
type node struct {
	typ    reflect.Type
	routes []route // 按订阅顺序
}

// without 返回移除 sub 全部路由后的切片
//
// 总是分配新切片：已解析的路由快照可能仍在执行器中被读取。
func (n *node) without(sub *Subscription) []route {
	out := make([]route, 0, len(n.routes))
	for _, r := range n.routes {
		if r.sub != sub {
			out = append(out, r)
		}
	}
	return out
}
