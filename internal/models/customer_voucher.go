package models

import "time"

// CustomerVoucher 客户兑换出的代金券
// 与 CardToken 一样是一次性凭证：核销只能通过条件更新
// （code 匹配且 used_at IS NULL 且未过期）完成，影响行数为 0 即核销失败。
type CustomerVoucher struct {
	ID          uint        `gorm:"primarykey" json:"id"`                            // 主键
	CustomerID  uint        `gorm:"index;not null" json:"customer_id"`               // 客户ID
	RewardID    uint        `gorm:"index;not null" json:"reward_id"`                 // 兑换目录项ID
	Code        string      `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"` // 券码（VCH_ 前缀）
	ValueAmount Money       `gorm:"type:decimal(20,2);not null" json:"value_amount"` // 面值
	Currency    string      `gorm:"type:varchar(16);not null" json:"currency"`       // 币种
	ExpiresAt   time.Time   `gorm:"index;not null" json:"expires_at"`                // 过期时间
	UsedAt      *time.Time  `gorm:"index" json:"used_at,omitempty"`                  // 使用时间（空为未用）
	UsedStoreID *uint       `json:"used_store_id,omitempty"`                         // 核销商户ID
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`                         // 创建时间
	Customer    *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"` // 客户
	Reward      *RewardItem `gorm:"foreignKey:RewardID" json:"reward,omitempty"`     // 兑换目录项
}

// TableName 指定表名
func (CustomerVoucher) TableName() string {
	return "customer_vouchers"
}

// IsUsable 判断券在给定时刻是否可核销
func (v CustomerVoucher) IsUsable(now time.Time) bool {
	return v.UsedAt == nil && now.Before(v.ExpiresAt)
}
