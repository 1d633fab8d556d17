package executor

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-evbus/config"
	"github.com/dep2p/go-evbus/internal/core/metrics"
	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
	"github.com/dep2p/go-evbus/pkg/lib/log"
)

var logger = log.Logger("core/executor")

// ============================================================================
//                              Serial 执行器
// ============================================================================

// Serial 单消费者 FIFO 执行器
type Serial struct {
	mu     sync.Mutex
	queue  *list.List // 待执行任务（func()）
	closed bool

	limit int
	drain bool

	wake chan struct{}
	done chan struct{}

	executed  atomic.Int64
	discarded atomic.Int64

	metrics *metrics.Metrics
}

var _ pkgif.Executor = (*Serial)(nil)

// Stats 执行器统计
type Stats struct {
	Pending   int
	Executed  int64
	Discarded int64
	Closed    bool
}

// NewSerial 创建执行器并启动工作协程
func NewSerial(cfg config.ExecutorConfig, m *metrics.Metrics) *Serial {
	s := &Serial{
		queue:   list.New(),
		limit:   cfg.QueueLimit,
		drain:   cfg.DrainOnShutdown,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		metrics: m,
	}
	go s.run()
	return s
}

// Execute 提交任务
func (s *Serial) Execute(task func()) error {
	if task == nil {
		return ErrNilTask
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrShutdown
	}
	if s.limit > 0 && s.queue.Len() >= s.limit {
		s.mu.Unlock()
		return ErrQueueFull
	}
	s.queue.PushBack(task)
	pending := s.queue.Len()
	s.mu.Unlock()

	s.metrics.SetExecutorPending(pending)
	s.signal()
	return nil
}

// Shutdown 停止执行器
//
// 重复调用是安全的：后续调用只等待工作协程退出。
func (s *Serial) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		if !s.drain {
			if n := s.queue.Len(); n > 0 {
				s.discarded.Add(int64(n))
				s.queue.Init()
				logger.Debug("丢弃未执行的任务", "count", n)
			}
		}
	}
	s.mu.Unlock()
	s.signal()

	select {
	case <-s.done:
		s.metrics.SetExecutorPending(0)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done 返回工作协程退出时关闭的通道
func (s *Serial) Done() <-chan struct{} {
	return s.done
}

// Stats 返回统计
func (s *Serial) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Pending:   s.queue.Len(),
		Executed:  s.executed.Load(),
		Discarded: s.discarded.Load(),
		Closed:    s.closed,
	}
}

// ============================================================================
//                              内部方法
// ============================================================================

func (s *Serial) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// run 工作协程：逐个取出任务执行，关闭且队列为空时退出
func (s *Serial) run() {
	defer close(s.done)

	for {
		s.mu.Lock()
		front := s.queue.Front()
		if front == nil {
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return
			}
			<-s.wake
			continue
		}
		s.queue.Remove(front)
		pending := s.queue.Len()
		s.mu.Unlock()

		s.metrics.SetExecutorPending(pending)
		front.Value.(func())()
		s.executed.Add(1)
	}
}
