package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 全部表共享的主键与时间戳字段
// 软删除行由各仓储查询自行排除
type BaseModel struct {
	ID        int64          `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
