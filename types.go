package evbus

import (
	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
	"github.com/dep2p/go-evbus/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

type (
	// Marker 订阅标记，声明为监听器结构体的空白字段
	Marker = types.Marker

	// Scope 解析作用域
	Scope = types.Scope

	// Handle 代表另一个作用域注册监听器的句柄
	Handle = types.Handle

	// DeliveryError 处理方法返回的错误及其上下文
	DeliveryError = pkgif.DeliveryError

	// ErrorHandler 投递错误策略
	ErrorHandler = pkgif.ErrorHandler

	// ScopeAccessor 当前作用域访问器
	ScopeAccessor = pkgif.ScopeAccessor

	// State 总线状态
	State = pkgif.State
)

// 状态常量
const (
	StateRunning      = pkgif.StateRunning
	StateShuttingDown = pkgif.StateShuttingDown
	StateStopped      = pkgif.StateStopped
)

// NewScope 创建作用域
var NewScope = types.NewScope

// NewHandle 创建注册句柄
var NewHandle = types.NewHandle

// RootScope 根作用域
var RootScope = types.RootScope
