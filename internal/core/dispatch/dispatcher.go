package dispatch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/dep2p/go-evbus/internal/core/listener"
	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
	"github.com/dep2p/go-evbus/pkg/lib/log"
	"github.com/dep2p/go-evbus/pkg/types"
)

var logger = log.Logger("core/dispatch")

// ============================================================================
//                              Dispatcher
// ============================================================================

// Dispatcher 分发核心
type Dispatcher struct {
	cache    *listener.Cache
	bus      pkgif.DeliveryBus
	exec     pkgif.Executor
	accessor pkgif.ScopeAccessor

	// mu 读锁覆盖单次注册/注销，写锁用于关闭时等待它们完成
	mu    sync.RWMutex
	state atomic.Int32
}

var _ pkgif.Dispatcher = (*Dispatcher)(nil)

// New 创建分发核心
func New(cache *listener.Cache, bus pkgif.DeliveryBus, exec pkgif.Executor, accessor pkgif.ScopeAccessor) (*Dispatcher, error) {
	switch {
	case cache == nil:
		return nil, fmt.Errorf("%w: cache", ErrMissingDependency)
	case bus == nil:
		return nil, fmt.Errorf("%w: delivery bus", ErrMissingDependency)
	case exec == nil:
		return nil, fmt.Errorf("%w: executor", ErrMissingDependency)
	case accessor == nil:
		return nil, fmt.Errorf("%w: scope accessor", ErrMissingDependency)
	}

	d := &Dispatcher{
		cache:    cache,
		bus:      bus,
		exec:     exec,
		accessor: accessor,
	}
	d.state.Store(int32(pkgif.StateRunning))
	return d, nil
}

// Register 注册监听器或 *types.Handle
//
// 普通监听器捕获调用时的当前作用域；句柄使用自带的作用域。
func (d *Dispatcher) Register(subject any) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.State() != pkgif.StateRunning {
		return ErrStopped
	}

	l, s, err := d.resolve(subject)
	if err != nil {
		return err
	}

	a, created, err := d.cache.GetOrCreate(subject, l, s)
	if err != nil {
		return fmt.Errorf("register %T: %w", l, err)
	}
	if a == nil {
		logger.Debug("监听器没有处理方法，未安装", "type", fmt.Sprintf("%T", l))
		return nil
	}
	if !created {
		return nil
	}

	if err := d.bus.Subscribe(a); err != nil {
		d.cache.Remove(subject)
		return fmt.Errorf("subscribe adapter: %w", err)
	}
	// 与并发的 Unregister 交错时，适配器可能在订阅前已被移除
	if a.Destroyed() {
		return d.bus.Unsubscribe(a)
	}

	logger.Debug("监听器已注册",
		"type", fmt.Sprintf("%T", l),
		"adapter", log.TruncateID(a.ID(), 8),
		"scope", s.Name())
	return nil
}

// Unregister 注销 subject，未注册时为空操作
func (d *Dispatcher) Unregister(subject any) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.State() != pkgif.StateRunning {
		return ErrStopped
	}

	a := d.cache.Remove(subject)
	if a == nil {
		return nil
	}
	if err := d.bus.Unsubscribe(a); err != nil {
		return fmt.Errorf("unsubscribe adapter: %w", err)
	}

	logger.Debug("监听器已注销", "adapter", log.TruncateID(a.ID(), 8))
	return nil
}

// Post 异步投递事件，不等待处理方法执行
func (d *Dispatcher) Post(event any) error {
	if d.State() != pkgif.StateRunning {
		return ErrStopped
	}
	if err := d.bus.Dispatch(event); err != nil {
		// 检查状态之后才开始关闭时，执行器会拒绝任务
		if d.State() != pkgif.StateRunning {
			return ErrStopped
		}
		return err
	}
	return nil
}

// Shutdown 清空注册缓存、取消全部订阅并关闭执行器
//
// 只有第一次调用执行关闭，之后的调用直接返回 nil。
// 执行器按自身配置排空或丢弃已入队的投递；ctx 限制等待时间。
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	if !d.state.CompareAndSwap(int32(pkgif.StateRunning), int32(pkgif.StateShuttingDown)) {
		return nil
	}

	d.mu.Lock()
	adapters := d.cache.Clear()
	d.mu.Unlock()

	var err error
	for _, a := range adapters {
		err = multierr.Append(err, d.bus.Unsubscribe(a))
	}
	if serr := d.exec.Shutdown(ctx); serr != nil {
		err = multierr.Append(err, fmt.Errorf("shutdown executor: %w", serr))
	}

	d.state.Store(int32(pkgif.StateStopped))
	logger.Info("分发核心已停止", "adapters", len(adapters))
	return err
}

// State 返回当前状态
func (d *Dispatcher) State() pkgif.State {
	return pkgif.State(d.state.Load())
}

// Registered 返回已注册的 subject 数量
func (d *Dispatcher) Registered() int {
	return d.cache.Len()
}

// resolve 把 subject 解析为监听器和作用域
func (d *Dispatcher) resolve(subject any) (any, *types.Scope, error) {
	switch v := subject.(type) {
	case nil:
		return nil, nil, types.ErrNilListener
	case *types.Handle:
		if v == nil {
			return nil, nil, ErrNilHandle
		}
		if v.Listener == nil {
			return nil, nil, types.ErrNilListener
		}
		s := v.Scope
		if s == nil {
			s = types.RootScope
		}
		return v.Listener, s, nil
	default:
		return v, d.accessor.Current(), nil
	}
}
