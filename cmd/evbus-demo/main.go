// Package main 提供 evbus 演示命令行入口
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/common/expfmt"

	evbus "github.com/dep2p/go-evbus"
	"github.com/dep2p/go-evbus/internal/source/fswatch"
	"github.com/dep2p/go-evbus/pkg/lib/log"
)

var logger = log.Logger("evbus/cmd")

var (
	configFile  = flag.String("config", "", "配置文件路径（.json/.yaml）")
	preset      = flag.String("preset", "", "执行器预设 (default/bounded/discard)")
	events      = flag.Int("events", 5, "启动后投递的演示订单数")
	watchDirs   = flag.String("watch", "", "监视的目录，逗号分隔；为空时投递完成后退出")
	showMetrics = flag.Bool("metrics", false, "退出前输出 Prometheus 指标")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Printf("evbus-demo %s\n", evbus.Version)
		return nil
	}

	opts := []evbus.Option{evbus.WithLogOutput(os.Stderr)}
	if *configFile != "" {
		opts = append(opts, evbus.WithConfigFile(*configFile))
	}
	if *preset != "" {
		opts = append(opts, evbus.WithPreset(*preset))
	}

	bus, err := evbus.New(opts...)
	if err != nil {
		return fmt.Errorf("创建事件总线: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := registerListeners(bus); err != nil {
		_ = bus.Shutdown(context.Background())
		return err
	}

	for i := 1; i <= *events; i++ {
		if err := bus.Post(&OrderPlaced{ID: i, Amount: float64(i) * 9.5}); err != nil {
			logger.Warn("投递订单失败", "id", i, "error", err)
		}
	}
	if err := bus.Post(&StockLow{SKU: "sku-42", Remaining: 3}); err != nil {
		logger.Warn("投递库存事件失败", "error", err)
	}

	if *watchDirs != "" {
		w, err := fswatch.New(bus, strings.Split(*watchDirs, ","))
		if err != nil {
			_ = bus.Shutdown(context.Background())
			return err
		}
		if err := w.Start(ctx); err != nil {
			_ = bus.Shutdown(context.Background())
			return err
		}
		fmt.Println("正在监视目录，按 Ctrl+C 退出")
		<-ctx.Done()
		_ = w.Stop()
	} else {
		// 给演示监听器一点时间处理队列
		select {
		case <-ctx.Done():
		case <-time.After(200 * time.Millisecond):
		}
	}

	if *showMetrics {
		printMetrics(bus)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return bus.Shutdown(shutdownCtx)
}

func printMetrics(bus *evbus.Bus) {
	g := bus.Metrics()
	if g == nil {
		return
	}
	families, err := g.Gather()
	if err != nil {
		logger.Warn("收集指标失败", "error", err)
		return
	}
	enc := expfmt.NewEncoder(os.Stdout, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			logger.Warn("输出指标失败", "error", err)
			return
		}
	}
}
