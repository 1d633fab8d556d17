package eventbus

import "errors"

var (
	// ErrClosed 事件总线已关闭
	ErrClosed = errors.New("eventbus closed")
	// ErrNilEvent 投递 nil 事件
	ErrNilEvent = errors.New("nil event")
	// ErrNilHandler 订阅 nil 处理器
	ErrNilHandler = errors.New("nil delivery handler")
	// ErrInvalidHandler 处理器不可比较，无法作为订阅身份
	ErrInvalidHandler = errors.New("delivery handler is not comparable")
	// ErrNoEntryPoints 处理器没有入口点
	ErrNoEntryPoints = errors.New("delivery handler has no entry points")
	// ErrInvalidEntryPoint 入口点缺少事件类型或投递函数
	ErrInvalidEntryPoint = errors.New("invalid entry point")
	// ErrAlreadySubscribed 处理器已订阅
	ErrAlreadySubscribed = errors.New("delivery handler already subscribed")
	// ErrNilExecutor 未提供执行器
	ErrNilExecutor = errors.New("nil executor")
)
