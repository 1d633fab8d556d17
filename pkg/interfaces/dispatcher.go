// Package interfaces 定义 go-evbus 公共接口
//
// 本文件定义分发核心接口。
package interfaces

import "context"

// Dispatcher 分发核心
//
// 让任意对象通过带标记的处理方法接收异步事件，
// 对象无需实现任何总线接口。
type Dispatcher interface {
	// Register 注册监听器或 *types.Handle
	//
	// 同一 subject 重复注册是幂等的；没有处理方法的类型不会安装任何东西。
	Register(subject any) error

	// Unregister 注销 subject，未注册时为空操作
	Unregister(subject any) error

	// Post 异步投递事件，立即返回
	Post(event any) error

	// Shutdown 清空注册并停止执行器，仅第一次调用生效
	Shutdown(ctx context.Context) error

	// State 返回当前状态
	State() State
}

// State 分发核心状态
type State int32

const (
	// StateRunning 运行中，接受 register/unregister/post
	StateRunning State = iota

	// StateShuttingDown 关闭中
	StateShuttingDown

	// StateStopped 已停止（终态）
	StateStopped
)

// String 返回状态字符串
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting_down"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
