package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetsmart_dev_v1/internal/model"
	"budgetsmart_dev_v1/internal/repository"
	"budgetsmart_dev_v1/pkg/logger"
	"budgetsmart_dev_v1/pkg/utils"
)

const storefrontHTML = `<html><body>
	<div class="product">
		<h3>Red Mug</h3>
		<span class="price">₦2,500.00</span>
		<img src="/img/mug.jpg">
	</div>
	<div class="product">
		<h2>Blue Mug</h2>
		<div class="amount">N/A</div>
	</div>
	<a href="/item/42">
		<span class="name">Desk Fan</span>
		<span class="product-price">$15.75</span>
		<img data-src="img/fan.png">
	</a>
	<div class="card"></div>
</body></html>`

type ingestFixture struct {
	svc      *IngestService
	itemRepo repository.ItemRepository
	jobRepo  repository.IngestJobRepository
}

func newIngestFixture(t *testing.T, maxItems int) ingestFixture {
	t.Helper()
	db := newTestDB(t)
	itemRepo := repository.NewItemRepository(db)
	jobRepo := repository.NewIngestJobRepository(db)
	svc := NewIngestService(itemRepo, jobRepo, utils.NewFetchClient(5*time.Second), maxItems, logger.NewNop())
	return ingestFixture{svc: svc, itemRepo: itemRepo, jobRepo: jobRepo}
}

func runJob(t *testing.T, f ingestFixture, sellerID int64, sourceURL string) *model.IngestJob {
	t.Helper()
	ctx := context.Background()
	job, err := f.svc.Enqueue(ctx, sellerID, sourceURL)
	require.NoError(t, err)
	f.svc.Run(ctx, job)

	finished, err := f.jobRepo.GetByJobID(ctx, job.JobID)
	require.NoError(t, err)
	return finished
}

func TestIngestRun_ExtractsAndStoresItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(storefrontHTML))
	}))
	defer server.Close()

	f := newIngestFixture(t, 150)
	job := runJob(t, f, 1, server.URL+"/shop")

	assert.Equal(t, model.JobStatusSucceeded, job.Status)
	// Blue Mug 价格非法、空 card 无标题，都被静默跳过
	assert.Equal(t, 2, job.ItemCount)
	assert.Equal(t, 0, job.DupCount)

	rows, err := f.itemRepo.SearchByName(context.Background(), "mug")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Red Mug", rows[0].ItemName)
	assert.InDelta(t, 2500.00, rows[0].Price, 1e-9)
	assert.Equal(t, server.URL+"/img/mug.jpg", rows[0].Image)

	rows, err = f.itemRepo.SearchByName(context.Background(), "fan")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// 懒加载图按页面地址解析
	assert.Equal(t, server.URL+"/img/fan.png", rows[0].Image)
}

// 重复抓取同一页面不改变商品数（指纹幂等）
func TestIngestRun_IdempotentOnSamePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(storefrontHTML))
	}))
	defer server.Close()

	f := newIngestFixture(t, 150)
	first := runJob(t, f, 1, server.URL+"/shop")
	assert.Equal(t, 2, first.ItemCount)

	second := runJob(t, f, 1, server.URL+"/shop")
	assert.Equal(t, model.JobStatusSucceeded, second.Status)
	assert.Equal(t, 0, second.ItemCount)
	assert.Equal(t, 2, second.DupCount)

	count, err := f.itemRepo.CountBySeller(context.Background(), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestIngestRun_PerRunCap(t *testing.T) {
	page := "<html><body>"
	for i := 0; i < 10; i++ {
		page += `<div class="product"><h3>Item ` + string(rune('A'+i)) + `</h3><span class="price">5</span></div>`
	}
	page += "</body></html>"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	f := newIngestFixture(t, 3)
	job := runJob(t, f, 1, server.URL)

	assert.Equal(t, model.JobStatusSucceeded, job.Status)
	assert.Equal(t, 3, job.ItemCount)
}

func TestIngestRun_FailsOnBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := newIngestFixture(t, 150)
	job := runJob(t, f, 1, server.URL)

	assert.Equal(t, model.JobStatusFailed, job.Status)
	assert.Contains(t, job.Error, "500")
	assert.Equal(t, 0, job.ItemCount)
}

// 工作协程的单任务上下文已死时，状态回写仍要把任务落到终态
func TestIngestRun_FinalizesJobWhenContextExpired(t *testing.T) {
	f := newIngestFixture(t, 150)

	ctx, cancel := context.WithCancel(context.Background())
	job, err := f.svc.Enqueue(ctx, 1, "http://127.0.0.1:1/shop")
	require.NoError(t, err)
	cancel()

	f.svc.Run(ctx, job)

	finished, err := f.jobRepo.GetByJobID(context.Background(), job.JobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusFailed, finished.Status)
	require.NotNil(t, finished.FinishedAt)
	assert.NotEmpty(t, finished.Error)
}

func TestIngestRun_FailsOnUnreachableHost(t *testing.T) {
	f := newIngestFixture(t, 150)
	job := runJob(t, f, 1, "http://127.0.0.1:1/shop")

	assert.Equal(t, model.JobStatusFailed, job.Status)
	assert.NotEmpty(t, job.Error)
}
