package types

// Handle 注册句柄
//
// 用于代表另一个执行作用域注册监听器：投递时使用句柄携带的 Scope，
// 而不是调用 Register 时的当前作用域。注册与注销以句柄指针为键。
type Handle struct {
	// Listener 实际接收事件的监听器（非 nil 指针）
	Listener any

	// Scope 投递时使用的作用域，为 nil 时使用根作用域
	Scope *Scope
}

// NewHandle 创建注册句柄
func NewHandle(listener any, scope *Scope) *Handle {
	return &Handle{Listener: listener, Scope: scope}
}
