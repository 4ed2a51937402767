package models

import (
	"time"

	"gorm.io/gorm"
)

// Card 客户与商户之间的折扣卡绑定
// 卡号与卡面 QR 是稳定的展示标识；有效性由 ExpiresAt 时间窗决定，
// 同一 (customer, store) 组合任一时刻最多存在一张有效 active 卡。
type Card struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                           // 主键
	CustomerID uint           `gorm:"index:idx_cards_customer_store;not null" json:"customer_id"`     // 客户ID
	StoreID    uint           `gorm:"index:idx_cards_customer_store;not null" json:"store_id"`        // 商户ID
	CardNumber string         `gorm:"type:varchar(80);uniqueIndex;not null" json:"card_number"`       // 卡号（不透明）
	QRToken    string         `gorm:"type:varchar(80);uniqueIndex;not null" json:"qr_token"`          // 卡面 QR（不透明，仅展示）
	Status     string         `gorm:"type:varchar(24);index;not null;default:'active'" json:"status"` // 状态（active/blocked/expired）
	IssuedAt   time.Time      `gorm:"index;not null" json:"issued_at"`                                // 签发时间
	ExpiresAt  *time.Time     `gorm:"index" json:"expires_at"`                                        // 过期时间（空值按 IssuedAt+默认TTL 计）
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"`                                        // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                                 // 软删除时间
	Customer   *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`                // 客户信息
	Store      *Store         `gorm:"foreignKey:StoreID" json:"store,omitempty"`                      // 商户信息
}

// TableName 指定表名
func (Card) TableName() string {
	return "cards"
}

// EffectiveExpiry 计算有效过期时间（ExpiresAt 为空时按默认 TTL 推导）
func (c Card) EffectiveExpiry(defaultTTL time.Duration) time.Time {
	if c.ExpiresAt != nil && !c.ExpiresAt.IsZero() {
		return *c.ExpiresAt
	}
	return c.IssuedAt.Add(defaultTTL)
}

// IsExpired 判断卡片在 now 时刻是否已过有效期
func (c Card) IsExpired(now time.Time, defaultTTL time.Duration) bool {
	return !c.EffectiveExpiry(defaultTTL).After(now)
}
