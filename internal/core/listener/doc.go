// Package listener 把带订阅标记的任意对象适配为投递原语的处理器
//
// 监听器不需要实现任何总线接口，只需在结构体上声明 types.Marker 字段：
//
//	type OrderAudit struct {
//	    _ types.Marker `subscribe:"OnPlaced,OnCancelled"`
//	}
//
//	func (a *OrderAudit) OnPlaced(e *OrderPlaced) {}
//	func (a *OrderAudit) OnCancelled(e *OrderCancelled) error { return nil }
//
// 组成部分：
//   - Scanner  发现监听器类型上的处理方法（含嵌入字段与标记接口继承）
//   - Template 每个监听器类型一份、不可变的适配模板
//   - Adapter  模板绑定到一个监听器实例和一个注册时作用域
//   - Cache    subject -> Adapter 与 类型 -> subject 集合，一把锁保护
//
// 致命缺陷（事件被处理方法拒绝、处理方法不可达）以 panic 上报，
// panic 值是包装了 ErrEventRejected 或 ErrHandlerUnreachable 的 error。
// 处理方法返回的 error 原样交给投递原语的错误策略。
package listener
