package models

import (
	"time"

	"gorm.io/gorm"
)

// CardToken 短时单次兑换令牌（QR/OTP）
// 一张卡随时间产生多条令牌记录；“当前有效令牌”即最近签发且
// used_at 为空、未过期的那一条。消费必须通过条件更新完成，
// 不得读后写。
type CardToken struct {
	ID        uint           `gorm:"primarykey" json:"id"`                               // 主键
	CardID    uint           `gorm:"index;not null" json:"card_id"`                      // 所属卡片ID
	Token     string         `gorm:"type:varchar(80);uniqueIndex;not null" json:"token"` // 令牌串（不透明）
	Source    string         `gorm:"type:varchar(24);index;not null" json:"source"`      // 签发来源（customer/store）
	ExpiresAt time.Time      `gorm:"index;not null" json:"expires_at"`                   // 过期时间
	UsedAt    *time.Time     `gorm:"index" json:"used_at"`                               // 使用时间（空表示未使用）
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                            // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
	Card      *Card          `gorm:"foreignKey:CardID" json:"card,omitempty"`            // 所属卡片
}

// TableName 指定表名
func (CardToken) TableName() string {
	return "card_tokens"
}
