// Package evbus 提供基于订阅标记的进程内异步事件总线
//
// 任意对象只要在结构体上声明订阅标记，就能通过普通方法接收异步投递的事件，
// 不需要实现任何总线接口。
//
// # 快速开始
//
//	type OrderAudit struct {
//	    _ evbus.Marker `subscribe:"OnPlaced"`
//	}
//
//	func (a *OrderAudit) OnPlaced(e *OrderPlaced) error { ... }
//
//	bus, err := evbus.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer bus.Shutdown(context.Background())
//
//	_ = bus.Register(&OrderAudit{})
//	_ = bus.Post(&OrderPlaced{ID: 1})
//
// # 标记继承
//
// 处理方法是指针接收者上恰好接收一个参数的导出方法。标记可以声明在：
//   - 监听器结构体自身的 Marker 字段上
//   - 嵌入的结构体上（覆盖方法时无需重复声明）
//   - 通过 WithMarkerInterface 声明了标记的接口上
//
// 同时带有 persisted 标记的方法会被排除并记录警告。
//
// # 作用域
//
// 注册时捕获当前作用域（或 Handle 自带的作用域），
// 处理方法执行期间 Bus.Scope().Delivering() 返回该作用域；
// 调用方的 Bus.Scope().Current() 不受投递影响，注册时捕获的始终是它。
//
// # 文件组织
//
//   - evbus.go    Bus 门面与版本信息
//   - options.go  用户选项
//   - fx.go       Fx 模块组装
//   - types.go    公共类型别名
//   - errors.go   公共错误
package evbus
