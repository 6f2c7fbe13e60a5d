package service

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"budgetsmart_dev_v1/internal/model"
	"budgetsmart_dev_v1/internal/repository"
	"budgetsmart_dev_v1/pkg/logger"
)

// statusWriteTimeout 任务状态回写的独立超时
const statusWriteTimeout = 5 * time.Second

// ==================== IngestService 店铺抓取管线 ====================

// IngestService 把店铺页面转成规范化的商品行
// 流程：拉取页面 -> goquery 解析 -> 候选节点启发式抽取 -> 指纹落库
// 任何失败只写进任务记录，不向触发请求传播
type IngestService struct {
	itemRepo repository.ItemRepository
	jobRepo  repository.IngestJobRepository
	client   *resty.Client
	log      *logger.Logger

	maxItems int // 单次运行接受的商品上限
}

// NewIngestService 创建抓取管线
func NewIngestService(
	itemRepo repository.ItemRepository,
	jobRepo repository.IngestJobRepository,
	client *resty.Client,
	maxItems int,
	log *logger.Logger,
) *IngestService {
	if maxItems <= 0 {
		maxItems = 150
	}
	return &IngestService{
		itemRepo: itemRepo,
		jobRepo:  jobRepo,
		client:   client,
		log:      log,
		maxItems: maxItems,
	}
}

// ==================== 任务入口 ====================

// Enqueue 创建一条 pending 任务记录；实际执行由 worker 负责
func (s *IngestService) Enqueue(ctx context.Context, sellerID int64, sourceURL string) (*model.IngestJob, error) {
	job := &model.IngestJob{
		JobID:     uuid.NewString(),
		SellerID:  sellerID,
		SourceURL: sourceURL,
		Status:    model.JobStatusPending,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Run 执行一次抓取任务并回写状态
// 状态回写用独立上下文：抓取超时或被取消时，任务记录仍要落到终态
func (s *IngestService) Run(ctx context.Context, job *model.IngestJob) {
	s.markRunning(job)

	accepted, dups, err := s.ingest(ctx, job.SellerID, job.SourceURL)
	if err != nil {
		// 失败只记录，不重试；卖家保留失败前已落库的商品
		s.log.Warn("店铺抓取失败",
			"job_id", job.JobID, "seller_id", job.SellerID,
			"url", job.SourceURL, "error", err)
		s.markFinished(job, model.JobStatusFailed, accepted, dups, err.Error())
		return
	}

	s.log.Info("店铺抓取完成",
		"job_id", job.JobID, "seller_id", job.SellerID,
		"accepted", accepted, "duplicates", dups)
	s.markFinished(job, model.JobStatusSucceeded, accepted, dups, "")
}

func (s *IngestService) markRunning(job *model.IngestJob) {
	ctx, cancel := context.WithTimeout(context.Background(), statusWriteTimeout)
	defer cancel()
	if err := s.jobRepo.MarkRunning(ctx, job.ID); err != nil {
		s.log.Error("任务状态更新失败", "job_id", job.JobID, "error", err)
	}
}

func (s *IngestService) markFinished(job *model.IngestJob, status string, accepted, dups int, msg string) {
	ctx, cancel := context.WithTimeout(context.Background(), statusWriteTimeout)
	defer cancel()
	if err := s.jobRepo.MarkFinished(ctx, job.ID, status, accepted, dups, msg); err != nil {
		s.log.Error("任务状态更新失败", "job_id", job.JobID, "error", err)
	}
}

// ==================== 抓取实现 ====================

func (s *IngestService) ingest(ctx context.Context, sellerID int64, sourceURL string) (accepted, dups int, err error) {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return 0, 0, fmt.Errorf("店铺地址无效: %w", err)
	}

	resp, err := s.client.R().SetContext(ctx).Get(sourceURL)
	if err != nil {
		return 0, 0, fmt.Errorf("页面请求失败: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return 0, 0, fmt.Errorf("页面返回异常状态 %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return 0, 0, fmt.Errorf("页面解析失败: %w", err)
	}

	doc.Find(candidateSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if accepted >= s.maxItems {
			return false
		}

		cand, ok := extractCandidate(sel, base)
		if !ok {
			return true // 缺标题或价格不为正，静默跳过
		}

		inserted, insErr := s.itemRepo.Insert(ctx, &model.Item{
			SellerID: sellerID,
			Name:     cand.Title,
			Price:    cand.Price,
			Image:    cand.Image,
		})
		if insErr != nil {
			s.log.Warn("商品落库失败", "seller_id", sellerID, "name", cand.Title, "error", insErr)
			return true
		}
		if inserted {
			accepted++
		} else {
			dups++
		}
		return true
	})

	return accepted, dups, nil
}
