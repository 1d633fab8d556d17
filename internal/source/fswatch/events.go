package fswatch

import "time"

// Change 文件变化事件的公共接口
type Change interface {
	// Path 发生变化的路径
	Path() string
	// At 观察到变化的时间
	At() time.Time
}

// FileEvent 变化事件的公共字段
type FileEvent struct {
	Name string
	Time time.Time
}

// Path 返回路径
func (e FileEvent) Path() string { return e.Name }

// At 返回观察时间
func (e FileEvent) At() time.Time { return e.Time }

// FileCreated 文件被创建
type FileCreated struct{ FileEvent }

// FileWritten 文件被写入
type FileWritten struct{ FileEvent }

// FileRemoved 文件被删除
type FileRemoved struct{ FileEvent }

// FileRenamed 文件被重命名（fsnotify 只报告旧路径）
type FileRenamed struct{ FileEvent }

var (
	_ Change = (*FileCreated)(nil)
	_ Change = (*FileWritten)(nil)
	_ Change = (*FileRemoved)(nil)
	_ Change = (*FileRenamed)(nil)
)
