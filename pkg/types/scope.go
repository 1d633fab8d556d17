package types

import "context"

// Scope 解析作用域
//
// 注册时捕获的环境上下文。投递时在处理方法调用期间临时成为当前作用域，
// 调用结束后恢复。Scope 创建后不可变。
type Scope struct {
	name string
	ctx  context.Context
}

// NewScope 创建作用域
//
// ctx 为 nil 时使用 context.Background()。
func NewScope(name string, ctx context.Context) *Scope {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Scope{name: name, ctx: ctx}
}

// RootScope 根作用域，未设置任何作用域时的默认值
var RootScope = NewScope("root", context.Background())

// Name 返回作用域名称
func (s *Scope) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Context 返回作用域携带的 context
func (s *Scope) Context() context.Context {
	if s == nil {
		return context.Background()
	}
	return s.ctx
}

// String 实现 fmt.Stringer
func (s *Scope) String() string {
	if s == nil {
		return "<nil>"
	}
	return "scope(" + s.name + ")"
}
