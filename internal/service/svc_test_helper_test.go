package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"budgetsmart_dev_v1/internal/model"
	"budgetsmart_dev_v1/internal/repository"
)

// newTestDB 内存 sqlite 库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Seller{}, &model.Item{}, &model.IngestJob{}))
	return db
}

// seedItem 建卖家（若不存在）并落一件商品
func seedItem(t *testing.T, db *gorm.DB, sellerName, website, itemName string, price float64) {
	t.Helper()
	ctx := context.Background()
	sellerRepo := repository.NewSellerRepository(db)
	itemRepo := repository.NewItemRepository(db)

	seller, err := sellerRepo.FindOrCreate(ctx, sellerName, website)
	require.NoError(t, err)
	_, err = itemRepo.Insert(ctx, &model.Item{
		SellerID: seller.ID, Name: itemName, Price: price,
	})
	require.NoError(t, err)
}
