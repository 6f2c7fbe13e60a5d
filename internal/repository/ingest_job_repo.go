package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"budgetsmart_dev_v1/internal/model"
)

// ==================== 接口定义 ====================

// IngestJobRepository 抓取任务仓储接口
type IngestJobRepository interface {
	Create(ctx context.Context, job *model.IngestJob) error
	GetByJobID(ctx context.Context, jobID string) (*model.IngestJob, error)
	ListBySeller(ctx context.Context, sellerID int64, limit int) ([]model.IngestJob, error)
	MarkRunning(ctx context.Context, id int64) error
	MarkFinished(ctx context.Context, id int64, status string, itemCount, dupCount int, errMsg string) error
	// DeleteFinishedBefore 物理删除早于 cutoff 的已结束任务，返回删除条数
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ==================== 仓储实现 ====================

type ingestJobRepo struct {
	db *gorm.DB
}

// NewIngestJobRepository 创建抓取任务仓储
func NewIngestJobRepository(db *gorm.DB) IngestJobRepository {
	return &ingestJobRepo{db: db}
}

func (r *ingestJobRepo) Create(ctx context.Context, job *model.IngestJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *ingestJobRepo) GetByJobID(ctx context.Context, jobID string) (*model.IngestJob, error) {
	var job model.IngestJob
	err := r.db.WithContext(ctx).Where("job_id = ?", jobID).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *ingestJobRepo) ListBySeller(ctx context.Context, sellerID int64, limit int) ([]model.IngestJob, error) {
	var jobs []model.IngestJob
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}

func (r *ingestJobRepo) MarkRunning(ctx context.Context, id int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.IngestJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     model.JobStatusRunning,
			"started_at": &now,
		}).Error
}

func (r *ingestJobRepo) MarkFinished(ctx context.Context, id int64, status string, itemCount, dupCount int, errMsg string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.IngestJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"item_count":  itemCount,
			"dup_count":   dupCount,
			"error":       errMsg,
			"finished_at": &now,
		}).Error
}

func (r *ingestJobRepo) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Unscoped().
		Where("status IN ? AND updated_at < ?",
			[]string{model.JobStatusSucceeded, model.JobStatusFailed}, cutoff).
		Delete(&model.IngestJob{})
	return res.RowsAffected, res.Error
}
