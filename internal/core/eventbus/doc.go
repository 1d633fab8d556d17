// Package eventbus 实现进程内投递原语
//
// 投递原语只认识 pkgif.DeliveryHandler：订阅者通过 EntryPoints 报告入口点，
// 总线按事件的动态类型路由，并把每次 Dispatch 作为一个任务交给注入的执行器。
//
// # 快速开始
//
//	exec := executor.NewSerial(config.DefaultExecutorConfig(), nil)
//	bus, _ := eventbus.NewBus(exec)
//
//	_ = bus.Subscribe(handler)
//	_ = bus.Dispatch(&OrderPlaced{ID: 1})
//
// # 路由
//
// 路由在投递时解析：先是与事件类型完全一致的节点，
// 然后是事件实现的接口节点（按节点创建顺序）。同一节点内按订阅顺序。
// 解析结果按事件类型缓存在 LRU 中，任何订阅变化都会清空缓存。
//
// # 错误策略
//
// 入口点返回的非 nil 错误交给 ErrorHandler（默认记录 Warn 日志）。
// 入口点中的 panic 不被捕获，在执行器协程中直接传播。
//
// # Fx 模块
//
//	app := fx.New(
//	    executor.Module(),
//	    eventbus.Module(),
//	    fx.Invoke(func(bus pkgif.DeliveryBus) {
//	        _ = bus.Subscribe(handler)
//	    }),
//	)
//
// # 并发安全
//
//   - 订阅/取消订阅：RWMutex 保护节点表
//   - 路由缓存：在读锁下写入，在写锁下清空
//   - 关闭状态：atomic.Bool
package eventbus
