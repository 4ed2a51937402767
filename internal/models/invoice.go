package models

import (
	"time"
)

// Invoice 一次完成的折扣兑换的不可变记录
// 只在令牌消费事务内创建，创建后不再修改。
type Invoice struct {
	ID                     uint       `gorm:"primarykey" json:"id"`                                        // 主键
	StoreID                uint       `gorm:"index;not null" json:"store_id"`                              // 商户ID
	CustomerID             uint       `gorm:"index;not null" json:"customer_id"`                           // 客户ID
	CardID                 uint       `gorm:"index;not null" json:"card_id"`                               // 卡片ID
	Subtotal               Money      `gorm:"type:decimal(20,2);not null" json:"subtotal"`                 // 折前金额
	DiscountPercentApplied Money      `gorm:"type:decimal(5,2);not null" json:"discount_percent_applied"`  // 实际折扣百分比
	DiscountAmount         Money      `gorm:"type:decimal(20,2);not null" json:"discount_amount"`          // 折扣金额
	Total                  Money      `gorm:"type:decimal(20,2);not null" json:"total"`                    // 折后金额
	Currency               string     `gorm:"type:varchar(16);not null;default:'ILS'" json:"currency"`     // 币种
	PointsEarned           int64      `gorm:"not null;default:0" json:"points_earned"`                     // 获得积分
	CommissionAmount       Money      `gorm:"type:decimal(20,2);not null;default:0" json:"commission_amount"` // 平台佣金
	CreatedAt              time.Time  `gorm:"index" json:"created_at"`                                     // 创建时间
	Customer               *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`             // 客户信息
	Store                  *Store     `gorm:"foreignKey:StoreID" json:"store,omitempty"`                   // 商户信息
	Card                   *Card      `gorm:"foreignKey:CardID" json:"card,omitempty"`                     // 卡片信息
}

// TableName 指定表名
func (Invoice) TableName() string {
	return "invoices"
}
