package types

import "strings"

// Marker 订阅标记
//
// 零大小类型，仅用于承载结构体标签。一个结构体可以声明多个 Marker 字段，
// 字段名通常为 "_"。
type Marker struct{}

// 结构体标签键
const (
	// TagSubscribe 订阅标记：逗号分隔的处理方法名
	TagSubscribe = "subscribe"

	// TagPersisted 已废弃的持久化标记
	//
	// 与 TagSubscribe 同时作用于一个方法时，该方法会被排除并记录警告。
	TagPersisted = "persisted"
)

// SplitTag 解析逗号分隔的标签值，去除空白和空项
func SplitTag(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
