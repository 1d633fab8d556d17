package evbus

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-evbus/internal/core/dispatch"
	"github.com/dep2p/go-evbus/internal/core/scope"
	"github.com/dep2p/go-evbus/pkg/lib/log"
)

// Version 版本号
const Version = "v0.1.0"

var (
	busLogger = log.Logger("evbus")
	fxLogger  = log.Logger("evbus/fx")
)

// Bus 基于标记的异步事件总线
//
// 使用示例：
//
//	type Auditor struct {
//	    _ evbus.Marker `subscribe:"OnOrder"`
//	}
//
//	func (a *Auditor) OnOrder(e *OrderPlaced) error { ... }
//
//	bus, err := evbus.New()
//	if err != nil { ... }
//	defer bus.Shutdown(context.Background())
//
//	_ = bus.Register(&Auditor{})
//	_ = bus.Post(&OrderPlaced{ID: 1})
type Bus struct {
	app *fx.App

	dispatcher *dispatch.Dispatcher
	holder     *scope.Holder
	gatherer   prometheus.Gatherer

	stopOnce sync.Once
	stopErr  error
}

// New 创建并启动事件总线
func New(opts ...Option) (*Bus, error) {
	o := newOptions()
	if err := o.apply(opts...); err != nil {
		return nil, err
	}

	if o.logOutput != nil {
		level, ok := log.ParseLevel(o.config.Log.Level)
		if !ok {
			return nil, fmt.Errorf("%w: unknown log level %q", ErrInvalidOption, o.config.Log.Level)
		}
		log.Setup(o.logOutput, log.Format(o.config.Log.Format), level)
	}

	b := &Bus{}
	app, err := buildFxApp(o, b)
	if err != nil {
		return nil, fmt.Errorf("build bus: %w", err)
	}
	b.app = app

	ctx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return nil, fmt.Errorf("start bus: %w", err)
	}

	busLogger.Debug("事件总线已启动", "version", Version)
	return b, nil
}

// Register 注册监听器或 *Handle
//
// 监听器必须是指向结构体的指针；同一监听器重复注册是幂等的。
func (b *Bus) Register(subject any) error {
	return b.dispatcher.Register(subject)
}

// Unregister 注销监听器或 *Handle
func (b *Bus) Unregister(subject any) error {
	return b.dispatcher.Unregister(subject)
}

// Post 异步投递事件，立即返回
func (b *Bus) Post(event any) error {
	return b.dispatcher.Post(event)
}

// Shutdown 关闭总线
//
// 仅第一次调用生效，之后的调用返回第一次的结果。
func (b *Bus) Shutdown(ctx context.Context) error {
	b.stopOnce.Do(func() {
		b.stopErr = b.app.Stop(ctx)
		if b.stopErr != nil {
			busLogger.Warn("关闭事件总线出错", "error", b.stopErr)
		}
	})
	return b.stopErr
}

// State 返回总线状态
func (b *Bus) State() State {
	return b.dispatcher.State()
}

// Registered 返回当前已注册的适配器数
func (b *Bus) Registered() int {
	return b.dispatcher.Registered()
}

// Scope 返回当前作用域访问器
func (b *Bus) Scope() ScopeAccessor {
	return b.holder
}

// Metrics 返回指标集合的 Gatherer
//
// 通过 WithRegisterer 注入的注册表不是 Gatherer 时返回 nil。
func (b *Bus) Metrics() prometheus.Gatherer {
	return b.gatherer
}
