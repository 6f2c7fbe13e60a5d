package model

import "strings"

// ManualWebsite 手工录入的卖家没有店铺地址时的占位值
const ManualWebsite = "https://manual-upload.com"

type Seller struct {
	BaseModel
	Name    string `gorm:"size:100;not null" json:"name"`
	Website string `gorm:"size:255" json:"website"`

	// DedupKey 归一化后的卖家唯一键 (lower + trim 后的名称)
	// 靠唯一索引吃掉并发注册的 check-then-act 竞态：
	// 两个请求同时没查到卖家时，只有一个 INSERT 能落库，另一个回读已有行
	DedupKey string `gorm:"size:120;uniqueIndex;not null" json:"-"`

	Items []Item `gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE"`
}

func (Seller) TableName() string {
	return "sellers"
}

// SellerDedupKey 计算卖家归一化键
func SellerDedupKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
