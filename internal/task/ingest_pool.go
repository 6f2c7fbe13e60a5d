package task

import (
	"context"
	"sync"
	"time"

	"budgetsmart_dev_v1/internal/model"
	"budgetsmart_dev_v1/pkg/logger"
)

// ==================== IngestPool 抓取工作池 ====================

// IngestRunner 抓取执行器接口（service.IngestService 实现）
type IngestRunner interface {
	Run(ctx context.Context, job *model.IngestJob)
}

// IngestPool 固定 worker 数的后台抓取池
// 注册请求只投递任务，抓取独立于请求生命周期执行；
// 每个任务挂单独的超时 context
type IngestPool struct {
	runner     IngestRunner
	jobs       chan *model.IngestJob
	workers    int
	jobTimeout time.Duration
	log        *logger.Logger

	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex
}

// NewIngestPool 创建抓取池
func NewIngestPool(runner IngestRunner, workers, queueSize int, jobTimeout time.Duration, log *logger.Logger) *IngestPool {
	if workers <= 0 {
		workers = 3
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &IngestPool{
		runner:     runner,
		jobs:       make(chan *model.IngestJob, queueSize),
		workers:    workers,
		jobTimeout: jobTimeout,
		log:        log,
	}
}

// Start 启动 worker
func (p *IngestPool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.log.Info("抓取工作池已启动", "workers", p.workers)
}

// Submit 非阻塞投递任务；队列满返回 false
func (p *IngestPool) Submit(job *model.IngestJob) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

// Stop 停止接收新任务并等待在途任务完成
func (p *IngestPool) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()

	close(p.jobs)
	p.wg.Wait()
	p.log.Info("抓取工作池已停止")
}

func (p *IngestPool) worker(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		// 超时只约束单个任务，与触发请求无关
		ctx, cancel := context.WithTimeout(context.Background(), p.jobTimeout)
		p.runner.Run(ctx, job)
		cancel()
		p.log.Debug("任务处理完毕", "worker", id, "job_id", job.JobID)
	}
}
