// Package scope 实现环境作用域访问器
//
// Holder 保存两个互相独立的值：调用方的当前作用域，以及正在执行的
// 处理方法所属的作用域。适配器只切换后者，注册时捕获的始终是前者。
package scope

import (
	"sync/atomic"

	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
	"github.com/dep2p/go-evbus/pkg/types"
)

// Holder 当前作用域持有者
type Holder struct {
	root *types.Scope
	cur  atomic.Pointer[types.Scope]

	// 处理方法执行期间的作用域；nil 表示没有处理方法在执行
	delivering atomic.Pointer[types.Scope]
}

var _ pkgif.ScopeAccessor = (*Holder)(nil)

// NewHolder 创建作用域持有者
//
// root 为 nil 时使用 types.RootScope。
func NewHolder(root *types.Scope) *Holder {
	if root == nil {
		root = types.RootScope
	}
	h := &Holder{root: root}
	h.cur.Store(root)
	return h
}

// Current 返回调用方的当前作用域
func (h *Holder) Current() *types.Scope {
	if s := h.cur.Load(); s != nil {
		return s
	}
	return h.root
}

// Swap 设置调用方的当前作用域并返回之前的作用域
//
// s 为 nil 时恢复为根作用域。
func (h *Holder) Swap(s *types.Scope) *types.Scope {
	if s == nil {
		s = h.root
	}
	prev := h.cur.Swap(s)
	if prev == nil {
		prev = h.root
	}
	return prev
}

// Delivering 返回正在执行的处理方法所属的作用域
func (h *Holder) Delivering() *types.Scope {
	if s := h.delivering.Load(); s != nil {
		return s
	}
	return h.Current()
}

// Enter 设置处理方法作用域，返回之前的值（可能为 nil）
func (h *Holder) Enter(s *types.Scope) *types.Scope {
	return h.delivering.Swap(s)
}

// Root 返回根作用域
func (h *Holder) Root() *types.Scope {
	return h.root
}

// Run 以 s 作为处理方法作用域执行 fn，无论 fn 如何返回都恢复之前的值
func Run(a pkgif.ScopeAccessor, s *types.Scope, fn func()) {
	prev := a.Enter(s)
	defer a.Enter(prev)
	fn()
}
