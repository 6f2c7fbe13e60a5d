package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"budgetsmart_dev_v1/internal/model"
)

// ==================== 接口定义 ====================

// SellerRepository 卖家仓储接口
type SellerRepository interface {
	// FindOrCreate 按名称精确匹配或店铺地址包含匹配查找卖家，不存在则创建
	// 创建走 dedup_key 唯一索引上的 ON CONFLICT DO NOTHING，
	// 并发的相同调用收敛到同一行
	FindOrCreate(ctx context.Context, name, website string) (*model.Seller, error)
	GetByID(ctx context.Context, id int64) (*model.Seller, error)
}

// ==================== 仓储实现 ====================

type sellerRepo struct {
	db *gorm.DB
}

// NewSellerRepository 创建卖家仓储
func NewSellerRepository(db *gorm.DB) SellerRepository {
	return &sellerRepo{db: db}
}

func (r *sellerRepo) FindOrCreate(ctx context.Context, name, website string) (*model.Seller, error) {
	var seller model.Seller

	// 1. 先查：名称精确匹配，或已存地址与传入地址互相包含
	query := r.db.WithContext(ctx).Where("name = ?", name)
	if website != "" {
		query = query.Or("website = ?", website).Or("website LIKE ?", "%"+website+"%")
	}
	err := query.First(&seller).Error
	if err == nil {
		return &seller, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 2. 不存在则插入；冲突说明并发请求已抢先创建
	if website == "" {
		website = model.ManualWebsite
	}
	seller = model.Seller{
		Name:     name,
		Website:  website,
		DedupKey: model.SellerDedupKey(name),
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "dedup_key"}},
		DoNothing: true,
	}).Create(&seller).Error; err != nil {
		return nil, err
	}
	if seller.ID != 0 {
		return &seller, nil
	}

	// 3. 冲突分支：回读已有行
	var existing model.Seller
	if err := r.db.WithContext(ctx).
		Where("dedup_key = ?", seller.DedupKey).
		First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *sellerRepo) GetByID(ctx context.Context, id int64) (*model.Seller, error) {
	var seller model.Seller
	if err := r.db.WithContext(ctx).First(&seller, id).Error; err != nil {
		return nil, err
	}
	return &seller, nil
}
