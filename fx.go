package evbus

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-evbus/config"
	"github.com/dep2p/go-evbus/internal/core/dispatch"
	"github.com/dep2p/go-evbus/internal/core/eventbus"
	"github.com/dep2p/go-evbus/internal/core/executor"
	"github.com/dep2p/go-evbus/internal/core/listener"
	"github.com/dep2p/go-evbus/internal/core/metrics"
	"github.com/dep2p/go-evbus/internal/core/scope"
	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. scope、metrics：无依赖
//  2. executor → eventbus：投递原语
//  3. listener → dispatch：注册缓存与分发核心
//
// OnStop 逆序执行：dispatch 先关闭（清空注册并停止执行器），
// 之后 eventbus 与 executor 的 OnStop 都是幂等的收尾。
func buildFxApp(o *options, b *Bus) (*fx.App, error) {
	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置验证（前置）
	// ════════════════════════════════════════════════════════════════════════
	if err := o.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	registry := o.registerer
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. 配置与外部依赖注入
	// ════════════════════════════════════════════════════════════════════════
	modules := []fx.Option{
		fx.Supply(o.config),
		fx.Provide(func() prometheus.Registerer { return registry }),
	}
	if o.rootScope != nil {
		modules = append(modules, fx.Supply(fx.Annotated{Name: "root_scope", Target: o.rootScope}))
	}
	if o.errorHandler != nil {
		h := o.errorHandler
		modules = append(modules, fx.Provide(func() pkgif.ErrorHandler { return h }))
	}
	for _, opt := range o.scannerOptions {
		modules = append(modules, listener.AsScannerOption(opt))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 3. 核心模块
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		scope.Module(),    // 环境作用域
		metrics.Module(),  // Prometheus 指标
		executor.Module(), // 异步执行器
		eventbus.Module(), // 投递原语
		listener.Module(), // 扫描器与注册缓存
		dispatch.Module(), // 分发核心
	)

	// ════════════════════════════════════════════════════════════════════════
	// 4. 用户自定义选项
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, o.fxOptions...)

	// ════════════════════════════════════════════════════════════════════════
	// 5. 提取组件
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		fx.Populate(&b.dispatcher, &b.holder),
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: fxZapLogger(o.config)}
		}),
	)

	if reg, ok := registry.(prometheus.Gatherer); ok {
		b.gatherer = reg
	}

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return app, nil
}

// fxZapLogger 返回 Fx 事件使用的 zap logger
func fxZapLogger(cfg *config.Config) *zap.Logger {
	if !cfg.Log.FxEvents {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		fxLogger.Warn("创建 Fx 事件 logger 失败", "error", err)
		return zap.NewNop()
	}
	return l
}
