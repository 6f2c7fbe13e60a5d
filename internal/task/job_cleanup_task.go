package task

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"budgetsmart_dev_v1/internal/repository"
	"budgetsmart_dev_v1/pkg/logger"
)

// ==================== JobCleanupTask 任务记录清理 ====================

// JobCleanupTask 定期物理删除过期的已结束抓取任务记录
// 每日凌晨 4 点执行一次
type JobCleanupTask struct {
	jobRepo   repository.IngestJobRepository
	retention time.Duration
	cron      *cron.Cron
	log       *logger.Logger
}

// NewJobCleanupTask 创建清理任务
func NewJobCleanupTask(jobRepo repository.IngestJobRepository, retention time.Duration, log *logger.Logger) *JobCleanupTask {
	return &JobCleanupTask{
		jobRepo:   jobRepo,
		retention: retention,
		cron:      cron.New(cron.WithSeconds()),
		log:       log,
	}
}

// Start 启动定时任务
func (t *JobCleanupTask) Start() {
	_, _ = t.cron.AddFunc("0 0 4 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.execute(ctx)
	})
	t.cron.Start()
	t.log.Info("任务记录清理已排程", "retention", t.retention)
}

// Stop 停止定时任务
func (t *JobCleanupTask) Stop() {
	t.cron.Stop()
}

func (t *JobCleanupTask) execute(ctx context.Context) {
	cutoff := time.Now().Add(-t.retention)
	deleted, err := t.jobRepo.DeleteFinishedBefore(ctx, cutoff)
	if err != nil {
		t.log.Warn("任务记录清理失败", "error", err)
		return
	}
	if deleted > 0 {
		t.log.Info("任务记录清理完成", "deleted", deleted, "cutoff", cutoff.Format(time.RFC3339))
	}
}
