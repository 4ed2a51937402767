package models

import (
	"time"
)

// PointsTransaction 积分流水（只追加）
// earn 关联产生积分的发票；redeem 不关联发票。
// 客户积分余额必须等于其全部流水的有符号和。
type PointsTransaction struct {
	ID         uint      `gorm:"primarykey" json:"id"`                          // 主键
	CustomerID uint      `gorm:"index;not null" json:"customer_id"`             // 客户ID
	InvoiceID  *uint     `gorm:"index" json:"invoice_id,omitempty"`             // 关联发票ID（earn 时）
	Type       string    `gorm:"type:varchar(24);index;not null" json:"type"`   // 类型（earn/redeem）
	Points     int64     `gorm:"not null" json:"points"`                        // 积分数（恒为正，方向由 Type 决定）
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                       // 创建时间
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"` // 客户信息
	Invoice    *Invoice  `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`   // 发票信息
}

// TableName 指定表名
func (PointsTransaction) TableName() string {
	return "points_transactions"
}
