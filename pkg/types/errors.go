// Package types 定义 go-evbus 的基础类型
//
// 本文件定义公共错误类型。
package types

import "errors"

var (
	// ErrNilListener 监听器为 nil
	ErrNilListener = errors.New("nil listener")

	// ErrNotPointer 监听器不是指针
	ErrNotPointer = errors.New("listener must be a non-nil pointer")
)
