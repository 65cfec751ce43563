package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// Task 背景任務
type Task func(ctx context.Context) error

// Request 隊列請求
type Request struct {
	Context context.Context
	Name    string
	Task    Task
	Result  chan Result
}

// Result 處理結果
type Result struct {
	Name  string
	Error error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int `json:"queue_length"`
	ProcessedCount int `json:"processed_count"`
	FailedCount    int `json:"failed_count"`
	MaxQueueSize   int `json:"max_queue_size"`
	Workers        int `json:"workers"`
}

// Manager 隊列管理器，固定數量的 worker 消化任務，限制同時打到付費供應商的請求數
type Manager struct {
	config    config.QueueConfig
	queue     chan *Request
	done      chan struct{}
	wg        sync.WaitGroup
	processed int64
	failed    int64

	// mu 保護 closed，關閉後不會再有請求進入 queue
	mu     sync.RWMutex
	closed bool
}

// NewManager 創建新的隊列管理器並啟動 worker
func NewManager(cfg config.QueueConfig) *Manager {
	m := &Manager{
		config: cfg,
		queue:  make(chan *Request, cfg.MaxSize),
		done:   make(chan struct{}),
	}

	for i := 0; i < cfg.Workers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}

	common.LogInfo("任務隊列已啟動",
		zap.Int("workers", cfg.Workers),
		zap.Int("max_queue_size", cfg.MaxSize),
	)
	return m
}

// Enqueue 將任務加入隊列，返回的 channel 會收到一個結果
func (m *Manager) Enqueue(ctx context.Context, name string, task Task) (<-chan Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, common.ErrQueueClosed
	}

	req := &Request{
		Context: ctx,
		Name:    name,
		Task:    task,
		Result:  make(chan Result, 1),
	}

	select {
	case m.queue <- req:
		common.LogDebug("Request enqueued",
			zap.String("name", name),
			zap.Int("queue_length", len(m.queue)),
		)
		return req.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		return nil, common.ErrQueueFull
	}
}

// worker 處理隊列中的任務直到隊列關閉
func (m *Manager) worker(id int) {
	defer m.wg.Done()

	for {
		// 已關閉時優先退出，剩餘請求交給 Close 回覆
		select {
		case <-m.done:
			return
		default:
		}

		select {
		case req := <-m.queue:
			m.run(id, req)
		case <-m.done:
			return
		}
	}
}

func (m *Manager) run(id int, req *Request) {
	var err error
	if ctxErr := req.Context.Err(); ctxErr != nil {
		err = ctxErr
	} else {
		err = req.Task(req.Context)
	}

	atomic.AddInt64(&m.processed, 1)
	if err != nil {
		atomic.AddInt64(&m.failed, 1)
		common.LogWarn("背景任務失敗",
			zap.Int("worker", id),
			zap.String("name", req.Name),
			zap.Error(err),
		)
	}
	req.Result <- Result{Name: req.Name, Error: err}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: int(atomic.LoadInt64(&m.processed)),
		FailedCount:    int(atomic.LoadInt64(&m.failed)),
		MaxQueueSize:   m.config.MaxSize,
		Workers:        m.config.Workers,
	}
}

// Close 停止接收任務並等待 worker 結束，尚未執行的請求會收到 ErrQueueClosed
func (m *Manager) Close() {
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		close(m.done)
	}
	m.mu.Unlock()
	m.wg.Wait()

	for {
		select {
		case req := <-m.queue:
			req.Result <- Result{Name: req.Name, Error: common.ErrQueueClosed}
		default:
			return
		}
	}
}
