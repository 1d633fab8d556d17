package evbus

import (
	"fmt"
	"io"
	"reflect"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-evbus/config"
	"github.com/dep2p/go-evbus/internal/core/listener"
	"github.com/dep2p/go-evbus/pkg/types"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	config *config.Config

	// 根作用域
	rootScope *types.Scope

	// 投递错误策略
	errorHandler ErrorHandler

	// 指标注册表；nil 时使用独立 Registry
	registerer prometheus.Registerer

	// 扫描器选项
	scannerOptions []listener.ScannerOption

	// 日志输出；非 nil 时按 config.Log 配置默认 logger
	logOutput io.Writer

	// 用户自定义 Fx 选项
	fxOptions []fx.Option
}

func newOptions() *options {
	return &options{config: config.NewConfig()}
}

func (o *options) apply(opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return err
		}
	}
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              配置选项
// ════════════════════════════════════════════════════════════════════════════

// WithConfig 使用完整配置
//
// 配置会被拷贝，之后修改 cfg 不影响总线。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("%w: nil config", ErrInvalidOption)
		}
		o.config = config.CloneConfig(cfg)
		return nil
	}
}

// WithConfigFile 从 JSON 或 YAML 文件加载配置
func WithConfigFile(path string) Option {
	return func(o *options) error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		o.config = cfg
		return nil
	}
}

// WithPreset 应用执行器预设：default/bounded/discard
func WithPreset(name string) Option {
	return func(o *options) error {
		if err := config.ApplyPreset(o.config, name); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidOption, err)
		}
		return nil
	}
}

// WithQueueLimit 设置投递队列上限，0 表示不限制
func WithQueueLimit(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return fmt.Errorf("%w: negative queue limit", ErrInvalidOption)
		}
		o.config.Executor.QueueLimit = n
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              行为选项
// ════════════════════════════════════════════════════════════════════════════

// WithScope 设置根作用域
func WithScope(root *Scope) Option {
	return func(o *options) error {
		o.rootScope = root
		return nil
	}
}

// WithErrorHandler 设置处理方法错误的策略，默认记录 Warn 日志
func WithErrorHandler(h ErrorHandler) Option {
	return func(o *options) error {
		o.errorHandler = h
		return nil
	}
}

// WithRegisterer 把指标注册到给定的 Registerer
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) error {
		if reg == nil {
			return fmt.Errorf("%w: nil registerer", ErrInvalidOption)
		}
		o.registerer = reg
		return nil
	}
}

// WithMarkerInterface 为接口声明订阅标记
//
// iface 通常写作 reflect.TypeOf((*MyIface)(nil)).Elem()。
func WithMarkerInterface(iface reflect.Type, subscribe []string, persisted []string) Option {
	return func(o *options) error {
		if iface == nil || iface.Kind() != reflect.Interface {
			return fmt.Errorf("%w: marker interface must be an interface type", ErrInvalidOption)
		}
		o.scannerOptions = append(o.scannerOptions, listener.WithMarkerInterface(iface, subscribe, persisted))
		return nil
	}
}

// WithLogOutput 按 config.Log 配置默认 logger 并输出到 w
func WithLogOutput(w io.Writer) Option {
	return func(o *options) error {
		o.logOutput = w
		return nil
	}
}

// WithFxOptions 追加自定义 Fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.fxOptions = append(o.fxOptions, opts...)
		return nil
	}
}
