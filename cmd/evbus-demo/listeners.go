package main

import (
	"context"
	"fmt"

	evbus "github.com/dep2p/go-evbus"
	"github.com/dep2p/go-evbus/internal/source/fswatch"
)

// OrderPlaced 下单事件
type OrderPlaced struct {
	ID     int
	Amount float64
}

// StockLow 库存告警事件
type StockLow struct {
	SKU       string
	Remaining int
}

// Auditor 订单审计
type Auditor struct {
	_ evbus.Marker `subscribe:"OnOrder"`

	total float64
}

// OnOrder 累计订单金额
func (a *Auditor) OnOrder(e *OrderPlaced) {
	a.total += e.Amount
	fmt.Printf("[audit] order=%d amount=%.2f total=%.2f\n", e.ID, e.Amount, a.total)
}

// Inventory 库存监听器，OnLegacy 带有废弃标记，不会被安装
type Inventory struct {
	_ evbus.Marker `subscribe:"OnStockLow,OnLegacy"`
	_ evbus.Marker `persisted:"OnLegacy"`

	name string
}

// OnStockLow 输出库存告警
func (i *Inventory) OnStockLow(e *StockLow) error {
	if e.Remaining < 0 {
		return fmt.Errorf("invalid stock for %s", e.SKU)
	}
	fmt.Printf("[%s] %s remaining=%d\n", i.name, e.SKU, e.Remaining)
	return nil
}

// OnLegacy 已废弃的处理方法
func (i *Inventory) OnLegacy(e *OrderPlaced) {
	fmt.Printf("[%s] legacy order=%d\n", i.name, e.ID)
}

// ChangeLogger 输出文件变化
type ChangeLogger struct {
	_ evbus.Marker `subscribe:"OnChange"`
}

// OnChange 输出任意文件变化
func (c *ChangeLogger) OnChange(e fswatch.Change) {
	fmt.Printf("[fs] %T %s\n", e, e.Path())
}

func registerListeners(bus *evbus.Bus) error {
	tenant := evbus.NewScope("warehouse-east", context.Background())
	subjects := []any{
		&Auditor{},
		&Inventory{name: "inventory-main"},
		// 同一类型的第二个实例复用已合成的模板
		evbus.NewHandle(&Inventory{name: "inventory-east"}, tenant),
		&ChangeLogger{},
	}
	for _, s := range subjects {
		if err := bus.Register(s); err != nil {
			return fmt.Errorf("注册监听器 %T: %w", s, err)
		}
	}
	return nil
}
