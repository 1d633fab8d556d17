// Package dispatch 实现分发核心
//
// Dispatcher 把注册缓存、投递原语和执行器组合成对外的
// Register/Unregister/Post/Shutdown 四个操作。
//
// 状态机：Running -> ShuttingDown -> Stopped，只能通过 Shutdown 迁移，且只迁移一次。
// 非 Running 状态下 Register、Unregister、Post 返回 ErrStopped。
package dispatch
