package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetsmart_dev_v1/internal/model"
)

func seedSeller(t *testing.T, repo SellerRepository, name, website string) *model.Seller {
	t.Helper()
	seller, err := repo.FindOrCreate(context.Background(), name, website)
	require.NoError(t, err)
	return seller
}

func TestItemInsert_FingerprintDedup(t *testing.T) {
	db := newTestDB(t)
	sellerRepo := NewSellerRepository(db)
	itemRepo := NewItemRepository(db)
	ctx := context.Background()

	seller := seedSeller(t, sellerRepo, "Gadget Hub", "https://gadgethub.ng")

	inserted, err := itemRepo.Insert(ctx, &model.Item{
		SellerID: seller.ID, Name: "Wireless Mouse", Price: 5000,
	})
	require.NoError(t, err)
	assert.True(t, inserted)

	// 相同卖家 + 名称 + 价格 -> 指纹命中，不追加新行
	inserted, err = itemRepo.Insert(ctx, &model.Item{
		SellerID: seller.ID, Name: "  Wireless   MOUSE ", Price: 5000,
	})
	require.NoError(t, err)
	assert.False(t, inserted)

	count, err := itemRepo.CountBySeller(ctx, seller.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// 价格不同是另一条记录
	inserted, err = itemRepo.Insert(ctx, &model.Item{
		SellerID: seller.ID, Name: "Wireless Mouse", Price: 5500,
	})
	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestItemInsert_PlaceholderImage(t *testing.T) {
	db := newTestDB(t)
	sellerRepo := NewSellerRepository(db)
	itemRepo := NewItemRepository(db)
	ctx := context.Background()

	seller := seedSeller(t, sellerRepo, "Gadget Hub", "")
	item := &model.Item{SellerID: seller.ID, Name: "Laptop Stand", Price: 12000}
	_, err := itemRepo.Insert(ctx, item)
	require.NoError(t, err)
	assert.Equal(t, model.PlaceholderImage, item.Image)
}

func TestItemSearchByName_CaseInsensitiveSubstring(t *testing.T) {
	db := newTestDB(t)
	sellerRepo := NewSellerRepository(db)
	itemRepo := NewItemRepository(db)
	ctx := context.Background()

	seller := seedSeller(t, sellerRepo, "Gadget Hub", "https://gadgethub.ng")
	for _, it := range []model.Item{
		{SellerID: seller.ID, Name: "Dell Laptop 15in", Price: 150000},
		{SellerID: seller.ID, Name: "HP LAPTOP", Price: 140000},
		{SellerID: seller.ID, Name: "Wireless Mouse", Price: 5000},
	} {
		item := it
		_, err := itemRepo.Insert(ctx, &item)
		require.NoError(t, err)
	}

	rows, err := itemRepo.SearchByName(ctx, "laptop")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// 价格升序返回，联表带出卖家信息
	assert.Equal(t, "HP LAPTOP", rows[0].ItemName)
	assert.Equal(t, "Gadget Hub", rows[0].SellerName)
	assert.Equal(t, "https://gadgethub.ng", rows[0].Website)
}

// LIKE 通配符按字面处理，"%" 不会把整个目录都捞出来
func TestItemSearchByName_EscapesLikeWildcards(t *testing.T) {
	db := newTestDB(t)
	sellerRepo := NewSellerRepository(db)
	itemRepo := NewItemRepository(db)
	ctx := context.Background()

	seller := seedSeller(t, sellerRepo, "Fabric Hub", "https://fabrichub.ng")
	for _, name := range []string{"Blue Pen", "100% Cotton Shirt", "USB_C Cable"} {
		_, err := itemRepo.Insert(ctx, &model.Item{SellerID: seller.ID, Name: name, Price: 100})
		require.NoError(t, err)
	}

	rows, err := itemRepo.SearchByName(ctx, "%")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "100% Cotton Shirt", rows[0].ItemName)

	// 未转义时 "p_n" 会命中 "Blue Pen"
	rows, err = itemRepo.SearchByName(ctx, "p_n")
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = itemRepo.SearchByName(ctx, "usb_c")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "USB_C Cable", rows[0].ItemName)
}

func TestItemSearchCatalog_MatchesSellerNameAndLimits(t *testing.T) {
	db := newTestDB(t)
	sellerRepo := NewSellerRepository(db)
	itemRepo := NewItemRepository(db)
	ctx := context.Background()

	seller := seedSeller(t, sellerRepo, "Mega Gadgets", "https://mega.example")
	for i := 0; i < 5; i++ {
		_, err := itemRepo.Insert(ctx, &model.Item{
			SellerID: seller.ID,
			Name:     fmt.Sprintf("Pen %d", i),
			Price:    float64(10 + i),
		})
		require.NoError(t, err)
	}

	// 按卖家名命中
	rows, err := itemRepo.SearchCatalog(ctx, "mega", 30)
	require.NoError(t, err)
	assert.Len(t, rows, 5)

	// limit 生效
	rows, err = itemRepo.SearchCatalog(ctx, "mega", 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestIngestJobLifecycle(t *testing.T) {
	db := newTestDB(t)
	jobRepo := NewIngestJobRepository(db)
	ctx := context.Background()

	job := &model.IngestJob{JobID: "job-1", SellerID: 1, SourceURL: "https://shop.example", Status: model.JobStatusPending}
	require.NoError(t, jobRepo.Create(ctx, job))

	require.NoError(t, jobRepo.MarkRunning(ctx, job.ID))
	loaded, err := jobRepo.GetByJobID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusRunning, loaded.Status)
	assert.NotNil(t, loaded.StartedAt)

	require.NoError(t, jobRepo.MarkFinished(ctx, job.ID, model.JobStatusSucceeded, 12, 3, ""))
	loaded, err = jobRepo.GetByJobID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusSucceeded, loaded.Status)
	assert.Equal(t, 12, loaded.ItemCount)
	assert.Equal(t, 3, loaded.DupCount)
	assert.True(t, loaded.Finished())
	assert.NotNil(t, loaded.FinishedAt)
}

func TestIngestJobDeleteFinishedBefore(t *testing.T) {
	db := newTestDB(t)
	jobRepo := NewIngestJobRepository(db)
	ctx := context.Background()

	done := &model.IngestJob{JobID: "done", SellerID: 1, SourceURL: "https://a.example", Status: model.JobStatusSucceeded}
	pending := &model.IngestJob{JobID: "pending", SellerID: 1, SourceURL: "https://b.example", Status: model.JobStatusPending}
	require.NoError(t, jobRepo.Create(ctx, done))
	require.NoError(t, jobRepo.Create(ctx, pending))

	deleted, err := jobRepo.DeleteFinishedBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	// pending 不受清理影响
	_, err = jobRepo.GetByJobID(ctx, "pending")
	assert.NoError(t, err)
}
