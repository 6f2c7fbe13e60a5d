package dto

import (
	"time"

	"budgetsmart_dev_v1/internal/model"
)

// JobResp 抓取任务状态
type JobResp struct {
	JobID      string     `json:"job_id"`
	SellerID   int64      `json:"seller_id"`
	SourceURL  string     `json:"source_url"`
	Status     string     `json:"status"`
	ItemCount  int        `json:"item_count"`
	DupCount   int        `json:"dup_count"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// ToJobResp 模型转响应
func ToJobResp(job *model.IngestJob) JobResp {
	return JobResp{
		JobID:      job.JobID,
		SellerID:   job.SellerID,
		SourceURL:  job.SourceURL,
		Status:     job.Status,
		ItemCount:  job.ItemCount,
		DupCount:   job.DupCount,
		Error:      job.Error,
		CreatedAt:  job.CreatedAt,
		StartedAt:  job.StartedAt,
		FinishedAt: job.FinishedAt,
	}
}
