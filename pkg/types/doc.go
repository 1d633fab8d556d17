// Package types 定义 go-evbus 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 go-evbus 内部包。
//
// # 文件组织
//
//   - marker.go  - 订阅标记（Marker）与结构体标签约定
//   - scope.go   - 解析作用域（Scope）
//   - handle.go  - 注册句柄（Handle），携带显式监听器与作用域
//   - errors.go  - 公共错误定义
//
// # 标记约定
//
// 监听器通过一个 Marker 类型的空白字段声明处理方法：
//
//	type StockWatcher struct {
//	    _ types.Marker `subscribe:"OnStockLow,OnRestocked"`
//	}
//
//	func (w *StockWatcher) OnStockLow(e *StockLow)      {}
//	func (w *StockWatcher) OnRestocked(e *Restocked) error { return nil }
//
// 嵌入类型上的标记会被继承。
package types
