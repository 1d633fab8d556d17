// Package interfaces 定义 go-evbus 公共接口
//
// 本文件定义投递原语接口：异步、有序、单消费者的进程内发布订阅机制。
package interfaces

import "reflect"

// DeliveryBus 投递原语
//
// 投递原语只认识 DeliveryHandler：订阅者通过 EntryPoints 报告自己的入口点，
// 投递原语按事件类型路由。它不了解监听器上的订阅标记约定。
type DeliveryBus interface {
	// Subscribe 订阅处理器的全部入口点
	//
	// 同一处理器重复订阅返回错误。
	Subscribe(h DeliveryHandler) error

	// Unsubscribe 按处理器身份取消订阅，未订阅时为空操作
	Unsubscribe(h DeliveryHandler) error

	// Dispatch 异步投递事件，不等待任何处理器执行
	Dispatch(event any) error
}

// DeliveryHandler 投递原语的订阅者
type DeliveryHandler interface {
	// EntryPoints 返回可被投递原语调用的入口点，每个处理方法一个
	EntryPoints() []EntryPoint
}

// EntryPoint 投递入口点
type EntryPoint struct {
	// EventType 接收的事件类型
	//
	// 为接口类型时，实现该接口的所有事件都会投递到此入口点。
	EventType reflect.Type

	// Deliver 投递调用
	Deliver func(event any) error
}

// DeliveryError 投递错误的上下文
type DeliveryError struct {
	// Err 处理器返回的错误
	Err error

	// Event 正在投递的事件
	Event any

	// Handler 接收事件的处理器
	Handler DeliveryHandler
}

// Error 实现 error 接口
func (e *DeliveryError) Error() string {
	return "delivery failed: " + e.Err.Error()
}

// Unwrap 返回底层错误
func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// ErrorHandler 投递错误策略
type ErrorHandler func(err *DeliveryError)
