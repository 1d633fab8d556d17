// Package config 提供 go-evbus 的统一配置管理
//
// 主 Config 结构体嵌入所有子配置，每个子配置在独立文件中定义：
//   - executor.go - 异步执行器
//   - delivery.go - 投递原语
//   - metrics.go  - Prometheus 指标
//   - log.go      - 日志
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.Executor.QueueLimit = 4096
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
//
//	// 应用预设
//	config.ApplyPreset(cfg, "bounded")
package config

import "fmt"

// Config 是 go-evbus 的完整配置结构
type Config struct {
	// Executor 异步执行器配置
	Executor ExecutorConfig `json:"executor" yaml:"executor"`

	// Delivery 投递原语配置
	Delivery DeliveryConfig `json:"delivery" yaml:"delivery"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Log 日志配置
	Log LogConfig `json:"log" yaml:"log"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Executor: DefaultExecutorConfig(),
		Delivery: DefaultDeliveryConfig(),
		Metrics:  DefaultMetricsConfig(),
		Log:      DefaultLogConfig(),
	}
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if err := c.Executor.Validate(); err != nil {
		return fmt.Errorf("executor: %w", err)
	}
	if err := c.Delivery.Validate(); err != nil {
		return fmt.Errorf("delivery: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}
