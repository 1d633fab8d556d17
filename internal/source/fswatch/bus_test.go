package fswatch_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	evbus "github.com/dep2p/go-evbus"
	"github.com/dep2p/go-evbus/internal/source/fswatch"
	"github.com/dep2p/go-evbus/internal/testutil"
)

// changeLog 以接口参数接收全部文件变化
type changeLog struct {
	_ evbus.Marker `subscribe:"OnChange"`

	mu    sync.Mutex
	paths []string
}

func (c *changeLog) OnChange(e fswatch.Change) {
	c.mu.Lock()
	c.paths = append(c.paths, e.Path())
	c.mu.Unlock()
}

func (c *changeLog) seen(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.paths {
		if p == path {
			return true
		}
	}
	return false
}

func TestWatcher_DeliversThroughBus(t *testing.T) {
	bus, err := evbus.New()
	require.NoError(t, err)
	defer bus.Shutdown(context.Background())

	cl := &changeLog{}
	require.NoError(t, bus.Register(cl))

	dir := t.TempDir()
	w, err := fswatch.New(bus, []string{dir})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	path := filepath.Join(dir, "stock.csv")
	require.NoError(t, os.WriteFile(path, []byte("sku,qty\n"), 0o600))

	testutil.Eventually(t, 2*time.Second, func() bool { return cl.seen(path) }, "change not delivered through bus")
}
