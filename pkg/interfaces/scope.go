// Package interfaces 定义 go-evbus 公共接口
//
// 本文件定义环境作用域访问器接口。
package interfaces

import "github.com/dep2p/go-evbus/pkg/types"

// ScopeAccessor 环境作用域访问器
//
// 调用方作用域与处理方法作用域分开保存：Register 只读取 Current，
// 适配器调用处理方法时只切换 Delivering，互不影响。
type ScopeAccessor interface {
	// Current 返回调用方的当前作用域，从不返回 nil
	Current() *types.Scope

	// Swap 设置调用方的当前作用域并返回之前的作用域
	Swap(s *types.Scope) *types.Scope

	// Delivering 返回正在执行的处理方法所属的作用域
	//
	// 没有处理方法在执行时返回 Current()。
	Delivering() *types.Scope

	// Enter 设置处理方法作用域并返回之前的值，nil 表示离开
	Enter(s *types.Scope) *types.Scope
}
