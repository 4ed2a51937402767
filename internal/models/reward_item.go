package models

import (
	"time"

	"gorm.io/gorm"
)

// RewardItem 积分兑换目录项
// StoreID 为空表示全平台可见，否则仅对在该商户持有效卡的客户可见。
type RewardItem struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                    // 主键
	NameAr      string         `gorm:"type:varchar(160);not null" json:"name_ar"`               // 阿拉伯语名称
	NameEn      string         `gorm:"type:varchar(160)" json:"name_en"`                        // 英语名称
	Type        string         `gorm:"type:varchar(40);not null" json:"type"`                   // 类型（voucher/…）
	PointsCost  int64          `gorm:"not null" json:"points_cost"`                             // 所需积分
	ValueAmount Money          `gorm:"type:decimal(20,2);not null" json:"value_amount"`         // 面值
	Currency    string         `gorm:"type:varchar(16);not null;default:'ILS'" json:"currency"` // 币种
	ExpiryDays  int            `gorm:"not null;default:7" json:"expiry_days"`                   // 兑出凭证有效天数
	StoreID     *uint          `gorm:"index" json:"store_id,omitempty"`                         // 限定商户ID（空为全平台）
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`                  // 是否启用
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                                 // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间
	Store       *Store         `gorm:"foreignKey:StoreID" json:"store,omitempty"`               // 限定商户
}

// TableName 指定表名
func (RewardItem) TableName() string {
	return "reward_items"
}

// DisplayName 优先返回阿拉伯语名称
func (r RewardItem) DisplayName() string {
	if r.NameAr != "" {
		return r.NameAr
	}
	return r.NameEn
}
