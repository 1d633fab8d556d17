package listener

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-evbus/internal/core/metrics"
	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
)

// ScannerParams 扫描器依赖参数
type ScannerParams struct {
	fx.In

	Options []ScannerOption  `group:"scanner_options"`
	Metrics *metrics.Metrics `optional:"true"`
}

// CacheParams 注册缓存依赖参数
type CacheParams struct {
	fx.In

	Scanner  Scanner
	Accessor pkgif.ScopeAccessor
	Metrics  *metrics.Metrics `optional:"true"`
}

// Module 返回 Fx 模块
//
// 自定义扫描器可以用 fx.Decorate 替换 Scanner。
func Module() fx.Option {
	return fx.Module("listener",
		fx.Provide(
			ProvideScanner,
			ProvideCache,
		),
	)
}

// ProvideScanner 提供扫描器
func ProvideScanner(p ScannerParams) Scanner {
	opts := append([]ScannerOption{WithScannerMetrics(p.Metrics)}, p.Options...)
	return NewScanner(opts...)
}

// ProvideCache 提供注册缓存
func ProvideCache(p CacheParams) *Cache {
	return NewCache(p.Scanner, p.Accessor, p.Metrics)
}

// AsScannerOption 把扫描器选项加入 Fx 值组
func AsScannerOption(opt ScannerOption) fx.Option {
	return fx.Provide(fx.Annotated{
		Group:  "scanner_options",
		Target: func() ScannerOption { return opt },
	})
}
