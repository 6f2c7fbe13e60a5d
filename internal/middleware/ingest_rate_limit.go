package middleware

import (
	"fmt"
	"sync"
	"time"
)

// ==================== IngestRateLimiter 抓取准入限流器 ====================

// IngestRateLimiter 卖家级抓取限流器
// 防止同一店铺被反复触发抓取，对外部站点造成并发请求压力
type IngestRateLimiter struct {
	locks sync.Map // key -> *lockEntry
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// NewIngestRateLimiter 创建限流器
func NewIngestRateLimiter() *IngestRateLimiter {
	return &IngestRateLimiter{}
}

// ==================== 限流检查 ====================

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 检查是否允许执行并在允许时占用窗口
// key: 限流键，如 "seller:123:ingest"
// interval: 冷却间隔
func (r *IngestRateLimiter) Check(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)

	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	entry.lastTime = now
	return CheckResult{Allowed: true}
}

// SellerIngestKey 卖家抓取限流键
func SellerIngestKey(sellerID int64) string {
	return fmt.Sprintf("seller:%d:ingest", sellerID)
}
