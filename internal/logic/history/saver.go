package history

import (
	"context"
	"sync"

	"github.com/gogf/gf/v2/frame/g"

	"github.com/Malowking/docchat/pkg/schema"
)

// saveTask 会话保存任务
type saveTask struct {
	session *schema.ChatSession
	result  chan error
}

// asyncSaver 异步会话保存器：落盘经由固定数量的工作协程，
// 队列饱和时退化为调用方同步写入。
type asyncSaver struct {
	manager *Manager
	tasks   chan *saveTask
	wg      sync.WaitGroup
}

// newAsyncSaver 创建保存器并启动工作协程
func newAsyncSaver(m *Manager, queueSize, workers int) *asyncSaver {
	if queueSize <= 0 {
		queueSize = 100
	}
	if workers <= 0 {
		workers = 2
	}

	s := &asyncSaver{
		manager: m,
		tasks:   make(chan *saveTask, queueSize),
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	return s
}

// worker 逐个处理保存任务，队列关闭后排空剩余任务再退出
func (s *asyncSaver) worker() {
	defer s.wg.Done()
	for task := range s.tasks {
		task.result <- s.manager.writeSession(task.session)
		close(task.result)
	}
}

// Save 提交保存任务并等待落盘结果。队列满时直接同步写入。
func (s *asyncSaver) Save(ctx context.Context, session *schema.ChatSession) error {
	task := &saveTask{
		session: session,
		result:  make(chan error, 1),
	}

	select {
	case s.tasks <- task:
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-task.result:
			return err
		}
	default:
		g.Log().Warning(ctx, "Chat session save queue is full, saving synchronously")
		return s.manager.writeSession(session)
	}
}

// Shutdown 停止接收新任务并等待队列清空。之后不得再调用 Save。
func (s *asyncSaver) Shutdown() {
	close(s.tasks)
	s.wg.Wait()
}
