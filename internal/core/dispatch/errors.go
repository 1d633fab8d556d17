package dispatch

import "errors"

var (
	// ErrStopped 分发核心已关闭
	ErrStopped = errors.New("dispatcher stopped")

	// ErrNilHandle 注册 nil 句柄
	ErrNilHandle = errors.New("nil registration handle")

	// ErrMissingDependency 缺少必需的依赖
	ErrMissingDependency = errors.New("missing dispatcher dependency")
)
