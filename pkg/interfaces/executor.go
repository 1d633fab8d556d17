// Package interfaces 定义 go-evbus 公共接口
//
// 本文件定义异步执行器接口。
package interfaces

import "context"

// Executor 异步执行器
type Executor interface {
	// Execute 提交任务，不阻塞调用者
	Execute(task func()) error

	// Shutdown 停止执行器
	//
	// 停止接收新任务，按配置排空或丢弃已入队任务，等待工作协程退出或 ctx 结束。
	Shutdown(ctx context.Context) error
}
