// Package interfaces 定义 go-evbus 的公共接口
//
// 一个接口文件对应一个实现目录：
//   - eventbus.go   - 投递原语（internal/core/eventbus）
//   - executor.go   - 异步执行器（internal/core/executor）
//   - scope.go      - 环境作用域访问器（internal/core/scope）
//   - dispatcher.go - 分发核心（internal/core/dispatch）
//
// 依赖关系：
//   - 依赖：pkg/types
//   - 被依赖：internal/*、根包 evbus
package interfaces
