package evbus

import (
	"errors"

	"github.com/dep2p/go-evbus/internal/core/dispatch"
	"github.com/dep2p/go-evbus/internal/core/eventbus"
	"github.com/dep2p/go-evbus/internal/core/executor"
	"github.com/dep2p/go-evbus/internal/core/listener"
	"github.com/dep2p/go-evbus/pkg/types"
)

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrStopped 总线已关闭
	ErrStopped = dispatch.ErrStopped

	// ErrQueueFull 有界队列已满
	ErrQueueFull = executor.ErrQueueFull

	// ────────────────────────────────────────────────────────────────────────
	// 注册错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNilListener 监听器为 nil
	ErrNilListener = types.ErrNilListener

	// ErrNotPointer 监听器不是指针
	ErrNotPointer = types.ErrNotPointer

	// ErrMalformedHandler 处理方法签名不合法
	ErrMalformedHandler = listener.ErrMalformedHandler

	// ErrNilEvent 投递 nil 事件
	ErrNilEvent = eventbus.ErrNilEvent

	// ────────────────────────────────────────────────────────────────────────
	// 致命缺陷（以 panic 上报）
	// ────────────────────────────────────────────────────────────────────────

	// ErrEventRejected 事件值不能传给处理方法
	ErrEventRejected = listener.ErrEventRejected

	// ErrHandlerUnreachable 处理方法不可达
	ErrHandlerUnreachable = listener.ErrHandlerUnreachable

	// ────────────────────────────────────────────────────────────────────────
	// 选项错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrInvalidOption 无效的选项
	ErrInvalidOption = errors.New("invalid option")
)
