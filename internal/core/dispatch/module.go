package dispatch

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-evbus/config"
	"github.com/dep2p/go-evbus/internal/core/listener"
	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
)

// Params 分发核心依赖参数
type Params struct {
	fx.In

	Cache    *listener.Cache
	Bus      pkgif.DeliveryBus
	Executor pkgif.Executor
	Accessor pkgif.ScopeAccessor
}

// Result 分发核心模块输出结果
type Result struct {
	fx.Out

	Dispatcher          *Dispatcher
	DispatcherInterface pkgif.Dispatcher
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("dispatch",
		fx.Provide(ProvideDispatcher),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideDispatcher 提供分发核心
func ProvideDispatcher(p Params) (Result, error) {
	d, err := New(p.Cache, p.Bus, p.Executor, p.Accessor)
	if err != nil {
		return Result{}, err
	}
	return Result{Dispatcher: d, DispatcherInterface: d}, nil
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In

	LC         fx.Lifecycle
	Dispatcher *Dispatcher
	Config     *config.Config `optional:"true"`
}

// registerLifecycle 把 Shutdown 绑定到 OnStop
//
// 配置了 ShutdownTimeout 时，在 Fx 给出的 ctx 上再加一层超时。
func registerLifecycle(input lifecycleInput) {
	timeout := config.DefaultExecutorConfig().ShutdownTimeout.Duration()
	if input.Config != nil {
		timeout = input.Config.Executor.ShutdownTimeout.Duration()
	}

	input.LC.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			return input.Dispatcher.Shutdown(ctx)
		},
	})
}
