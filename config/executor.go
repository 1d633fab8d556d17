package config

import (
	"errors"
	"time"
)

// ExecutorConfig 异步执行器配置
type ExecutorConfig struct {
	// QueueLimit 待执行任务上限
	//
	// 0 表示不限制。达到上限时 Post 返回错误而不是阻塞。
	QueueLimit int `json:"queue_limit" yaml:"queue_limit"`

	// DrainOnShutdown 关闭时是否执行完已入队的任务
	//
	// false 时丢弃尚未开始的任务。
	DrainOnShutdown bool `json:"drain_on_shutdown" yaml:"drain_on_shutdown"`

	// ShutdownTimeout 关闭等待时间
	ShutdownTimeout Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// DefaultExecutorConfig 返回默认执行器配置
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		QueueLimit:      0,
		DrainOnShutdown: true,
		ShutdownTimeout: Duration(10 * time.Second),
	}
}

// Validate 验证执行器配置
func (c ExecutorConfig) Validate() error {
	if c.QueueLimit < 0 {
		return errors.New("queue_limit must not be negative")
	}
	if c.ShutdownTimeout < 0 {
		return errors.New("shutdown_timeout must not be negative")
	}
	return nil
}
