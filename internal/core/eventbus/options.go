package eventbus

import (
	"github.com/dep2p/go-evbus/internal/core/metrics"
	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
)

// settings 总线设置
type settings struct {
	routeCacheSize int
	logDeadEvents  bool
	onError        pkgif.ErrorHandler
	metrics        *metrics.Metrics
}

func defaultSettings() settings {
	return settings{
		routeCacheSize: 256,
		logDeadEvents:  true,
		onError:        logDeliveryError,
	}
}

// Option 总线选项
type Option func(*settings)

// WithErrorHandler 设置投递错误策略
//
// nil 恢复默认策略。
func WithErrorHandler(h pkgif.ErrorHandler) Option {
	return func(s *settings) {
		if h == nil {
			h = logDeliveryError
		}
		s.onError = h
	}
}

// WithRouteCacheSize 设置路由缓存容量，<= 0 时不缓存
func WithRouteCacheSize(size int) Option {
	return func(s *settings) {
		s.routeCacheSize = size
	}
}

// WithDeadEventLogging 设置是否记录无人接收的事件
func WithDeadEventLogging(enabled bool) Option {
	return func(s *settings) {
		s.logDeadEvents = enabled
	}
}

// WithMetrics 设置指标记录器
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

// logDeliveryError 默认错误策略
func logDeliveryError(err *pkgif.DeliveryError) {
	logger.Warn("处理器返回错误",
		"event", eventTypeName(err.Event),
		"error", err.Err)
}
