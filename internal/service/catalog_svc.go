package service

import (
	"context"
	"fmt"
	"time"

	"budgetsmart_dev_v1/internal/middleware"
	"budgetsmart_dev_v1/internal/model"
	"budgetsmart_dev_v1/internal/repository"
	"budgetsmart_dev_v1/pkg/logger"
)

// ==================== 队列接口 ====================

// JobQueue 抓取任务队列；实现见 task.IngestPool
type JobQueue interface {
	// Submit 非阻塞投递；队列满返回 false
	Submit(job *model.IngestJob) bool
}

// ==================== CatalogService 商品目录服务 ====================

// CatalogService 卖家注册与商品录入的同步入口
// 手工录入同步落库；店铺抓取只建任务入队，结果走 /api/jobs 查询
type CatalogService struct {
	sellerRepo repository.SellerRepository
	itemRepo   repository.ItemRepository
	jobRepo    repository.IngestJobRepository
	ingest     *IngestService
	queue      JobQueue
	limiter    *middleware.IngestRateLimiter
	cooldown   time.Duration
	log        *logger.Logger
}

// NewCatalogService 创建目录服务
func NewCatalogService(
	sellerRepo repository.SellerRepository,
	itemRepo repository.ItemRepository,
	jobRepo repository.IngestJobRepository,
	ingest *IngestService,
	queue JobQueue,
	limiter *middleware.IngestRateLimiter,
	cooldown time.Duration,
	log *logger.Logger,
) *CatalogService {
	return &CatalogService{
		sellerRepo: sellerRepo,
		itemRepo:   itemRepo,
		jobRepo:    jobRepo,
		ingest:     ingest,
		queue:      queue,
		limiter:    limiter,
		cooldown:   cooldown,
		log:        log,
	}
}

// ==================== 手工录入 ====================

// RegisterManualItem 注册卖家并同步录入一件商品
// image 为空时落占位图
func (s *CatalogService) RegisterManualItem(ctx context.Context, sellerName, website, itemName string, price float64, image string) (*model.Item, error) {
	seller, err := s.sellerRepo.FindOrCreate(ctx, sellerName, website)
	if err != nil {
		return nil, fmt.Errorf("卖家查找或创建失败: %w", err)
	}

	item := &model.Item{
		SellerID: seller.ID,
		Name:     itemName,
		Price:    price,
		Image:    image,
	}
	if _, err := s.itemRepo.Insert(ctx, item); err != nil {
		return nil, fmt.Errorf("商品录入失败: %w", err)
	}
	return item, nil
}

// ==================== 店铺接入 ====================

// ConnectWebsite 注册卖家并触发店铺页面抓取
// 返回的 queued=false 表示冷却中或队列已满，本次没有新任务
func (s *CatalogService) ConnectWebsite(ctx context.Context, sellerName, website string) (*model.IngestJob, bool, error) {
	seller, err := s.sellerRepo.FindOrCreate(ctx, sellerName, website)
	if err != nil {
		return nil, false, fmt.Errorf("卖家查找或创建失败: %w", err)
	}

	// 同一卖家冷却窗口内只允许一次抓取
	check := s.limiter.Check(middleware.SellerIngestKey(seller.ID), s.cooldown)
	if !check.Allowed {
		s.log.Info("抓取请求处于冷却期",
			"seller_id", seller.ID, "retry_after", check.RetryAfter)
		return nil, false, nil
	}

	job, err := s.ingest.Enqueue(ctx, seller.ID, website)
	if err != nil {
		return nil, false, fmt.Errorf("抓取任务创建失败: %w", err)
	}

	if !s.queue.Submit(job) {
		// 队列满：任务记录保留为 pending，打日志即可，不阻塞注册请求
		s.log.Warn("抓取队列已满", "job_id", job.JobID, "seller_id", seller.ID)
		return job, false, nil
	}
	return job, true, nil
}

// ==================== 诊断查询 ====================

// DebugSearch 返回最多 limit 条匹配商品名或卖家名的原始行
func (s *CatalogService) DebugSearch(ctx context.Context, q string, limit int) ([]repository.ItemRow, error) {
	return s.itemRepo.SearchCatalog(ctx, q, limit)
}

// GetJob 按外部 JobID 查询抓取任务
func (s *CatalogService) GetJob(ctx context.Context, jobID string) (*model.IngestJob, error) {
	return s.jobRepo.GetByJobID(ctx, jobID)
}

// ListJobs 查询卖家最近的抓取任务
func (s *CatalogService) ListJobs(ctx context.Context, sellerID int64, limit int) ([]model.IngestJob, error) {
	return s.jobRepo.ListBySeller(ctx, sellerID, limit)
}
