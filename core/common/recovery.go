package common

import (
	"context"
	"runtime/debug"

	"github.com/gogf/gf/v2/frame/g"
)

// RecoverPanic 捕获当前 goroutine 的 panic 并记录堆栈。
// 必须在 defer 中调用。
func RecoverPanic(ctx context.Context, taskName string) {
	if r := recover(); r != nil {
		g.Log().Criticalf(ctx, "Panic recovered in %s: %v\n%s", taskName, r, debug.Stack())
	}
}

// SafeGo 启动一个带 panic 保护的 goroutine，
// 后台任务崩溃时记录日志而不是拖垮进程。
func SafeGo(ctx context.Context, taskName string, fn func()) {
	go func() {
		defer RecoverPanic(ctx, taskName)
		fn()
	}()
}
