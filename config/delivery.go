package config

import "errors"

// DeliveryConfig 投递原语配置
type DeliveryConfig struct {
	// RouteCacheSize 事件类型路由缓存容量
	//
	// 缓存每种事件类型匹配到的入口点，订阅变化时整体失效。
	RouteCacheSize int `json:"route_cache_size" yaml:"route_cache_size"`

	// LogDeadEvents 以 Debug 级别记录无人接收的事件
	LogDeadEvents bool `json:"log_dead_events" yaml:"log_dead_events"`
}

// DefaultDeliveryConfig 返回默认投递配置
func DefaultDeliveryConfig() DeliveryConfig {
	return DeliveryConfig{
		RouteCacheSize: 256,
		LogDeadEvents:  true,
	}
}

// Validate 验证投递配置
func (c DeliveryConfig) Validate() error {
	if c.RouteCacheSize <= 0 {
		return errors.New("route_cache_size must be positive")
	}
	return nil
}
