package models

import (
	"time"

	"gorm.io/gorm"
)

// Store 合作商户
type Store struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                          // 主键
	NameAr             string         `gorm:"type:varchar(160);not null" json:"name_ar"`                     // 阿拉伯语名称
	NameEn             string         `gorm:"type:varchar(160)" json:"name_en"`                              // 英语名称
	Phone              string         `gorm:"type:varchar(32);index" json:"phone"`                           // 联系电话
	City               string         `gorm:"type:varchar(80)" json:"city"`                                  // 城市
	MaxDiscountPercent Money          `gorm:"type:decimal(5,2);not null;default:0" json:"max_discount_percent"` // 商户允许的最大折扣百分比
	CommissionPercent  Money          `gorm:"type:decimal(5,2);not null;default:0" json:"commission_percent"`   // 平台佣金百分比（按折后总额计）
	IsActive           bool           `gorm:"not null;default:true" json:"is_active"`                        // 是否启用
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间
}

// TableName 指定表名
func (Store) TableName() string {
	return "stores"
}

// DisplayName 优先返回阿拉伯语名称
func (s Store) DisplayName() string {
	if s.NameAr != "" {
		return s.NameAr
	}
	return s.NameEn
}
