// Package testutil 提供测试辅助函数
package testutil

import (
	"context"
	"testing"
	"time"
)

// WaitForCondition 等待条件满足或超时
//
// 返回条件是否满足（超时返回 false）。
func WaitForCondition(t testing.TB, timeout time.Duration, interval time.Duration, condition func() bool) bool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// 立即检查一次
	if condition() {
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if condition() {
				return true
			}
		}
	}
}

// Eventually 在指定时间内重试条件检查，超时则 fail 测试
//
// 使用 5ms 检查间隔，适合进程内投递。
//
// 示例:
//
//	testutil.Eventually(t, time.Second, func() bool {
//	    return rec.Count() == 3
//	}, "应该收到 3 个事件")
func Eventually(t testing.TB, timeout time.Duration, condition func() bool, msg string) {
	t.Helper()

	if !WaitForCondition(t, timeout, 5*time.Millisecond, condition) {
		t.Fatalf("等待超时: %s", msg)
	}
}

// Never 在指定时间内条件始终不满足，否则 fail 测试
func Never(t testing.TB, d time.Duration, condition func() bool, msg string) {
	t.Helper()

	if WaitForCondition(t, d, 5*time.Millisecond, condition) {
		t.Fatalf("条件意外满足: %s", msg)
	}
}
