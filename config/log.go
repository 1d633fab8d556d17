package config

import (
	"fmt"

	"github.com/dep2p/go-evbus/pkg/lib/log"
)

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别：debug/info/warn/error
	Level string `json:"level" yaml:"level"`

	// Format 输出格式：text/json
	Format string `json:"format" yaml:"format"`

	// FxEvents 是否输出 Fx 依赖注入事件（经由 zap）
	FxEvents bool `json:"fx_events" yaml:"fx_events"`
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: string(log.FormatText),
	}
}

// Validate 验证日志配置
func (c LogConfig) Validate() error {
	if _, ok := log.ParseLevel(c.Level); !ok {
		return fmt.Errorf("unknown level %q", c.Level)
	}
	switch log.Format(c.Format) {
	case "", log.FormatText, log.FormatJSON:
		return nil
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
}
