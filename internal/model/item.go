package model

import (
	"fmt"
	"strings"
)

// PlaceholderImage 商品缺图时的占位图路径
const PlaceholderImage = "/images/placeholder.png"

type Item struct {
	BaseModel
	SellerID int64   `gorm:"index;not null" json:"seller_id"`
	Seller   *Seller `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name  string  `gorm:"size:255;not null" json:"name"`
	Price float64 `gorm:"not null" json:"price"` // 非负，单位为货币元
	Image string  `gorm:"size:512" json:"image"`

	// Fingerprint 内容指纹 (卖家 + 归一化名称 + 两位小数价格)
	// 唯一索引保证同一页面重复抓取不会追加重复行
	Fingerprint string `gorm:"size:320;uniqueIndex;not null" json:"-"`
}

func (Item) TableName() string {
	return "items"
}

// ItemFingerprint 计算商品内容指纹
// 名称做小写 + 空白折叠处理，价格四舍五入到两位小数
func ItemFingerprint(sellerID int64, name string, price float64) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(name), " "))
	return fmt.Sprintf("%d|%s|%.2f", sellerID, normalized, price)
}
