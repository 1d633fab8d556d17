// Package metrics 提供 go-evbus 的 Prometheus 指标
//
// 指标列表（前缀由 config.MetricsConfig.Namespace 决定，默认 evbus）：
//   - events_posted_total          已投递（Post）的事件数
//   - deliveries_total             入口点调用次数
//   - delivery_errors_total        处理方法返回错误的次数
//   - dead_events_total            没有任何入口点接收的事件数
//   - adapters_registered          当前已注册的适配器实例数
//   - templates_synthesized_total  合成的适配器模板数
//   - handlers_excluded_total      因同时带有废弃标记而被排除的处理方法数
//   - executor_pending             执行器中等待执行的任务数
//
// nil *Metrics 是合法的空记录器，各组件无需判空。
package metrics
