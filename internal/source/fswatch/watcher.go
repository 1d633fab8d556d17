package fswatch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dep2p/go-evbus/pkg/lib/log"
)

var logger = log.Logger("source/fswatch")

// ErrAlreadyStarted Watcher 已启动
var ErrAlreadyStarted = errors.New("watcher already started")

// Poster 接收变化事件的一方，通常是分发核心
type Poster interface {
	Post(event any) error
}

// Option Watcher 选项
type Option func(*Watcher)

// WithExtensions 只投递给定扩展名的文件（不区分大小写，带点号）
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) {
		for _, e := range exts {
			w.exts[strings.ToLower(e)] = struct{}{}
		}
	}
}

// WithClock 替换时间来源
func WithClock(now func() time.Time) Option {
	return func(w *Watcher) {
		if now != nil {
			w.now = now
		}
	}
}

// Watcher 目录监视器
type Watcher struct {
	poster Poster
	dirs   []string
	exts   map[string]struct{}
	now    func() time.Time

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
	dropped int
}

// New 创建监视器
func New(poster Poster, dirs []string, opts ...Option) (*Watcher, error) {
	if poster == nil {
		return nil, errors.New("nil poster")
	}
	if len(dirs) == 0 {
		return nil, errors.New("no directories to watch")
	}
	w := &Watcher{
		poster: poster,
		dirs:   append([]string(nil), dirs...),
		exts:   make(map[string]struct{}),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start 开始监视，所有目录添加成功后返回
//
// ctx 取消或调用 Stop 时后台协程退出。
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw != nil {
		return ErrAlreadyStarted
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	w.fsw = fsw
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.loop(ctx, fsw, w.done)

	logger.Info("开始监视目录", "dirs", w.dirs)
	return nil
}

// Stop 停止监视并等待后台协程退出，未启动时为空操作
func (w *Watcher) Stop() error {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

// Dropped 返回投递失败而丢弃的事件数
func (w *Watcher) Dropped() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dropped
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	defer fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handle(evt)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("监视出错", "error", err)
		}
	}
}

func (w *Watcher) handle(evt fsnotify.Event) {
	if !w.accept(evt.Name) {
		return
	}
	change := w.convert(evt)
	if change == nil {
		return
	}
	if err := w.poster.Post(change); err != nil {
		w.mu.Lock()
		w.dropped++
		w.mu.Unlock()
		logger.Warn("投递文件事件失败", "path", evt.Name, "error", err)
	}
}

func (w *Watcher) accept(path string) bool {
	if len(w.exts) == 0 {
		return true
	}
	_, ok := w.exts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// convert 把 fsnotify 事件映射为具体事件类型
//
// Chmod 被忽略；同一事件带多个操作位时按 Create、Remove、Rename、Write 的顺序取第一个。
func (w *Watcher) convert(evt fsnotify.Event) Change {
	base := FileEvent{Name: evt.Name, Time: w.now()}
	switch {
	case evt.Has(fsnotify.Create):
		return &FileCreated{base}
	case evt.Has(fsnotify.Remove):
		return &FileRemoved{base}
	case evt.Has(fsnotify.Rename):
		return &FileRenamed{base}
	case evt.Has(fsnotify.Write):
		return &FileWritten{base}
	default:
		return nil
	}
}
