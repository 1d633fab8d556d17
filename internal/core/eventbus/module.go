package eventbus

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-evbus/config"
	"github.com/dep2p/go-evbus/internal/core/metrics"
	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Params 总线依赖参数
type Params struct {
	fx.In

	Executor     pkgif.Executor
	Config       *config.Config     `optional:"true"`
	Metrics      *metrics.Metrics   `optional:"true"`
	ErrorHandler pkgif.ErrorHandler `optional:"true"`
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Bus         *Bus
	DeliveryBus pkgif.DeliveryBus
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("eventbus",
		fx.Provide(ProvideEventBus),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideEventBus 提供 Bus 实例
func ProvideEventBus(p Params) (Result, error) {
	cfg := config.DefaultDeliveryConfig()
	if p.Config != nil {
		cfg = p.Config.Delivery
	}

	bus, err := NewBus(p.Executor,
		WithRouteCacheSize(cfg.RouteCacheSize),
		WithDeadEventLogging(cfg.LogDeadEvents),
		WithErrorHandler(p.ErrorHandler),
		WithMetrics(p.Metrics),
	)
	if err != nil {
		return Result{}, err
	}
	return Result{Bus: bus, DeliveryBus: bus}, nil
}

// registerLifecycle 注册生命周期
func registerLifecycle(lc fx.Lifecycle, bus *Bus) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bus.Close()
		},
	})
}

// ============================================================================
// 模块元信息
// ============================================================================

const (
	// Version 模块版本
	Version = "1.0.0"
	// Name 模块名称
	Name = "eventbus"
	// Description 模块描述
	Description = "投递原语模块，按事件类型把事件异步投递给订阅的处理器"
)
