package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer 持卡客户
// PointsBalance 为冗余余额，必须与积分流水的有符号和一致，
// 只允许在与流水写入同一事务内变更。
type Customer struct {
	ID                     uint           `gorm:"primarykey" json:"id"`                                                 // 主键
	NameAr                 string         `gorm:"type:varchar(160);not null" json:"name_ar"`                            // 阿拉伯语姓名
	NameEn                 string         `gorm:"type:varchar(160)" json:"name_en"`                                     // 英语姓名
	Phone                  string         `gorm:"type:varchar(32);uniqueIndex" json:"phone"`                            // 手机号
	Email                  string         `gorm:"type:varchar(160);index" json:"email"`                                 // 邮箱
	PasswordHash           string         `gorm:"not null" json:"-"`                                                    // 密码哈希（不返回给前端）
	DefaultDiscountPercent Money          `gorm:"type:decimal(5,2);not null;default:0" json:"default_discount_percent"` // 客户默认折扣百分比
	PointsBalance          int64          `gorm:"not null;default:0" json:"points_balance"`                             // 积分余额（冗余）
	Status                 string         `gorm:"type:varchar(24);index;not null;default:'active'" json:"status"`       // 账号状态
	CreatedAt              time.Time      `gorm:"index" json:"created_at"`                                              // 创建时间
	UpdatedAt              time.Time      `gorm:"index" json:"updated_at"`                                              // 更新时间
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`                                                       // 软删除时间
}

// TableName 指定表名
func (Customer) TableName() string {
	return "customers"
}

// DisplayName 优先返回阿拉伯语姓名
func (c Customer) DisplayName() string {
	if c.NameAr != "" {
		return c.NameAr
	}
	return c.NameEn
}
