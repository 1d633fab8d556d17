package listener

import "errors"

var (
	// ErrInvalidListener 监听器类型不是指针类型
	ErrInvalidListener = errors.New("listener must be a non-nil pointer")

	// ErrNotComparable subject 不能作为身份键
	ErrNotComparable = errors.New("subject is not comparable")

	// ErrNoHandlers 没有可用的处理方法
	ErrNoHandlers = errors.New("no handler methods")

	// ErrMalformedHandler 处理方法签名不合法
	ErrMalformedHandler = errors.New("malformed handler method")

	// ErrNilTemplate 模板为空
	ErrNilTemplate = errors.New("nil adapter template")

	// ErrTypeMismatch 监听器类型与模板类型不一致
	ErrTypeMismatch = errors.New("listener type does not match template")

	// ErrEventRejected 事件值不能传给处理方法（致命）
	ErrEventRejected = errors.New("event rejected by handler")

	// ErrHandlerUnreachable 处理方法不可达（致命）
	ErrHandlerUnreachable = errors.New("handler unreachable")
)
