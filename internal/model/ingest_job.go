package model

import "time"

// 抓取任务状态常量
const (
	JobStatusPending   = "pending"   // 已入队，等待执行
	JobStatusRunning   = "running"   // 执行中
	JobStatusSucceeded = "succeeded" // 完成
	JobStatusFailed    = "failed"    // 失败，不自动重试
)

// IngestJob 一次店铺页面抓取的状态记录
// 抓取与触发它的 HTTP 请求完全解耦，调用方通过 /api/jobs 查询结果，
// 而不是把后台结果静默丢弃
type IngestJob struct {
	BaseModel
	JobID     string `gorm:"size:40;uniqueIndex;not null" json:"job_id"` // 对外暴露的 UUID
	SellerID  int64  `gorm:"index;not null" json:"seller_id"`
	SourceURL string `gorm:"size:512;not null" json:"source_url"`

	Status    string `gorm:"size:20;index;default:'pending'" json:"status"`
	ItemCount int    `gorm:"default:0" json:"item_count"` // 本次新落库的商品数
	DupCount  int    `gorm:"default:0" json:"dup_count"`  // 指纹命中被跳过的数量
	Error     string `gorm:"type:text" json:"error,omitempty"`

	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func (IngestJob) TableName() string {
	return "ingest_jobs"
}

// Finished 任务是否已经结束
func (j *IngestJob) Finished() bool {
	return j.Status == JobStatusSucceeded || j.Status == JobStatusFailed
}
