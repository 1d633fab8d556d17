package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 指标集合
type Metrics struct {
	eventsPosted         prometheus.Counter
	deliveries           prometheus.Counter
	deliveryErrors       prometheus.Counter
	deadEvents           prometheus.Counter
	adaptersRegistered   prometheus.Gauge
	templatesSynthesized prometheus.Counter
	handlersExcluded     prometheus.Counter
	executorPending      prometheus.Gauge
}

// New 创建指标集合并注册到 reg
//
// 已注册过同名指标时复用已有的收集器。
func New(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	if reg == nil {
		return nil, errors.New("nil prometheus registerer")
	}

	m := &Metrics{
		eventsPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_posted_total",
			Help:      "Events handed to the delivery primitive.",
		}),
		deliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Entry point invocations.",
		}),
		deliveryErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_errors_total",
			Help:      "Handler invocations that returned an error.",
		}),
		deadEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dead_events_total",
			Help:      "Events posted with no matching entry point.",
		}),
		adaptersRegistered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "adapters_registered",
			Help:      "Adapter instances currently registered.",
		}),
		templatesSynthesized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "templates_synthesized_total",
			Help:      "Adapter templates synthesized from scanned listener types.",
		}),
		handlersExcluded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handlers_excluded_total",
			Help:      "Handler methods excluded for carrying the deprecated persisted marker.",
		}),
		executorPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "executor_pending",
			Help:      "Tasks queued on the delivery executor.",
		}),
	}

	m.eventsPosted = register(reg, m.eventsPosted)
	m.deliveries = register(reg, m.deliveries)
	m.deliveryErrors = register(reg, m.deliveryErrors)
	m.deadEvents = register(reg, m.deadEvents)
	m.adaptersRegistered = register(reg, m.adaptersRegistered)
	m.templatesSynthesized = register(reg, m.templatesSynthesized)
	m.handlersExcluded = register(reg, m.handlersExcluded)
	m.executorPending = register(reg, m.executorPending)

	return m, nil
}

// register 注册收集器，重复注册时返回已存在的收集器
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

// EventPosted 记录一次 Post
func (m *Metrics) EventPosted() {
	if m == nil {
		return
	}
	m.eventsPosted.Inc()
}

// Delivered 记录一次入口点调用
func (m *Metrics) Delivered() {
	if m == nil {
		return
	}
	m.deliveries.Inc()
}

// DeliveryFailed 记录一次处理方法错误
func (m *Metrics) DeliveryFailed() {
	if m == nil {
		return
	}
	m.deliveryErrors.Inc()
}

// DeadEvent 记录一次无人接收的事件
func (m *Metrics) DeadEvent() {
	if m == nil {
		return
	}
	m.deadEvents.Inc()
}

// AdapterAdded 已注册适配器数 +1
func (m *Metrics) AdapterAdded() {
	if m == nil {
		return
	}
	m.adaptersRegistered.Inc()
}

// AdapterRemoved 已注册适配器数 -n
func (m *Metrics) AdapterRemoved(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.adaptersRegistered.Sub(float64(n))
}

// TemplateSynthesized 记录一次模板合成
func (m *Metrics) TemplateSynthesized() {
	if m == nil {
		return
	}
	m.templatesSynthesized.Inc()
}

// HandlerExcluded 记录一次处理方法排除
func (m *Metrics) HandlerExcluded() {
	if m == nil {
		return
	}
	m.handlersExcluded.Inc()
}

// SetExecutorPending 设置执行器待执行任务数
func (m *Metrics) SetExecutorPending(n int) {
	if m == nil {
		return
	}
	m.executorPending.Set(float64(n))
}
