// Package executor 实现投递原语背后的异步执行器
//
// Serial 是单工作协程的 FIFO 执行器：
//   - Execute 从不阻塞调用者（有界队列满时返回 ErrQueueFull）
//   - 任务按提交顺序逐个执行，不同任务之间串行
//   - Shutdown 停止接收新任务，按配置排空或丢弃已入队任务
//
// 任务中的 panic 不会被恢复：它代表不可恢复的缺陷，会直接终止进程。
//
// # 架构定位
//
// 依赖：config、internal/core/metrics
// 被依赖：internal/core/eventbus（投递）、internal/core/dispatch（生命周期）
package executor
