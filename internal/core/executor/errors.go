package executor

import "errors"

var (
	// ErrShutdown 执行器已关闭
	ErrShutdown = errors.New("executor shut down")

	// ErrQueueFull 有界队列已满
	ErrQueueFull = errors.New("executor queue full")

	// ErrNilTask 任务为 nil
	ErrNilTask = errors.New("nil task")
)
