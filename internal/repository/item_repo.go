package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"budgetsmart_dev_v1/internal/model"
)

// ==================== 查询结果行 ====================

// ItemRow 商品搜索结果行（联表卖家信息，直接用于展示与组合计算）
type ItemRow struct {
	ItemID     int64   `gorm:"column:item_id" json:"-"`
	ItemName   string  `gorm:"column:item_name" json:"item_name"`
	Price      float64 `gorm:"column:price" json:"price"`
	Image      string  `gorm:"column:image" json:"image"`
	SellerName string  `gorm:"column:seller_name" json:"seller_name"`
	Website    string  `gorm:"column:website" json:"website"`
}

// ==================== 接口定义 ====================

// ItemRepository 商品仓储接口
type ItemRepository interface {
	// Insert 落库一条商品；指纹冲突时跳过，返回是否真正写入
	Insert(ctx context.Context, item *model.Item) (bool, error)
	// SearchByName 商品名大小写不敏感的子串匹配
	SearchByName(ctx context.Context, pattern string) ([]ItemRow, error)
	// SearchCatalog 诊断用：商品名或卖家名匹配，限量返回
	SearchCatalog(ctx context.Context, q string, limit int) ([]ItemRow, error)
	CountBySeller(ctx context.Context, sellerID int64) (int64, error)
}

// ==================== 仓储实现 ====================

type itemRepo struct {
	db *gorm.DB
}

// NewItemRepository 创建商品仓储
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepo{db: db}
}

func (r *itemRepo) Insert(ctx context.Context, item *model.Item) (bool, error) {
	if item.Image == "" {
		item.Image = model.PlaceholderImage
	}
	item.Fingerprint = model.ItemFingerprint(item.SellerID, item.Name, item.Price)

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fingerprint"}},
		DoNothing: true,
	}).Create(item)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// likeEscaper 转义 LIKE 通配符，让用户输入只做字面子串匹配
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}

func (r *itemRepo) SearchByName(ctx context.Context, pattern string) ([]ItemRow, error) {
	var rows []ItemRow
	// LOWER + LIKE 而不是 ILIKE，让 sqlite 内存库跑的测试与线上行为一致
	err := r.db.WithContext(ctx).
		Table("items AS i").
		Select("i.id AS item_id, i.name AS item_name, i.price, i.image, s.name AS seller_name, s.website").
		Joins("JOIN sellers s ON s.id = i.seller_id").
		Where(`LOWER(i.name) LIKE ? ESCAPE '\' AND i.deleted_at IS NULL`, likePattern(pattern)).
		Order("i.price ASC, i.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *itemRepo) SearchCatalog(ctx context.Context, q string, limit int) ([]ItemRow, error) {
	var rows []ItemRow
	like := likePattern(q)
	err := r.db.WithContext(ctx).
		Table("items AS i").
		Select("i.id AS item_id, i.name AS item_name, i.price, i.image, s.name AS seller_name, s.website").
		Joins("JOIN sellers s ON s.id = i.seller_id").
		Where(`(LOWER(i.name) LIKE ? ESCAPE '\' OR LOWER(s.name) LIKE ? ESCAPE '\') AND i.deleted_at IS NULL`, like, like).
		Order("i.id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *itemRepo) CountBySeller(ctx context.Context, sellerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("seller_id = ?", sellerID).
		Count(&count).Error
	return count, err
}
