package models

import (
	"time"

	"gorm.io/gorm"
)

// User 平台用户（平台管理员或商户操作员）
// 商户操作员通过 StoreID 绑定到具体商户；平台管理员 StoreID 为空。
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                           // 主键
	Email        string         `gorm:"type:varchar(160);uniqueIndex;not null" json:"email"`            // 邮箱
	PasswordHash string         `gorm:"not null" json:"-"`                                              // 密码哈希（不返回给前端）
	DisplayName  string         `gorm:"type:varchar(160);default:''" json:"display_name"`               // 昵称
	Role         string         `gorm:"type:varchar(24);index;not null" json:"role"`                    // 角色（admin/store）
	StoreID      *uint          `gorm:"index" json:"store_id,omitempty"`                                // 所属商户ID
	Status       string         `gorm:"type:varchar(24);index;not null;default:'active'" json:"status"` // 账号状态
	LastLoginAt  *time.Time     `json:"last_login_at"`                                                  // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                        // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                                 // 软删除时间
	Store        *Store         `gorm:"foreignKey:StoreID" json:"store,omitempty"`                      // 所属商户
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
