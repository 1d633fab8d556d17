package executor

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-evbus/config"
	"github.com/dep2p/go-evbus/internal/core/metrics"
	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
)

// Params 执行器依赖参数
type Params struct {
	fx.In

	Config  *config.Config   `optional:"true"`
	Metrics *metrics.Metrics `optional:"true"`
}

// Result 执行器模块输出结果
type Result struct {
	fx.Out

	Serial   *Serial
	Executor pkgif.Executor
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("executor",
		fx.Provide(ProvideExecutor),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideExecutor 提供执行器
func ProvideExecutor(p Params) Result {
	cfg := config.DefaultExecutorConfig()
	if p.Config != nil {
		cfg = p.Config.Executor
	}
	s := NewSerial(cfg, p.Metrics)
	return Result{Serial: s, Executor: s}
}

// registerLifecycle 注册生命周期
//
// 正常情况下执行器由分发核心关闭；这里的 OnStop 最后执行，
// 保证未加载分发核心时工作协程也会退出。
func registerLifecycle(lc fx.Lifecycle, s *Serial) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return s.Shutdown(ctx)
		},
	})
}
