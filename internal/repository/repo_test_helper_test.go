package repository

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"budgetsmart_dev_v1/internal/model"
)

// newTestDB 内存 sqlite 库，每个测试独立
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Seller{}, &model.Item{}, &model.IngestJob{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return db
}
