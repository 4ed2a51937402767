package models

import "time"

// AuditLog 操作审计日志
// 由队列异步写入，失败不影响主流程。
type AuditLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`                        // 主键
	ActorRole  string    `gorm:"type:varchar(20);index" json:"actor_role"`    // 操作者角色
	ActorID    uint      `gorm:"index" json:"actor_id"`                       // 操作者ID
	Action     string    `gorm:"type:varchar(60);index;not null" json:"action"` // 动作
	EntityType string    `gorm:"type:varchar(40)" json:"entity_type"`         // 对象类型
	EntityID   uint      `json:"entity_id"`                                   // 对象ID
	Detail     string    `gorm:"type:text" json:"detail"`                     // 详情（JSON）
	IP         string    `gorm:"type:varchar(64)" json:"ip"`                  // 来源IP
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                     // 创建时间
}

// TableName 指定表名
func (AuditLog) TableName() string {
	return "audit_logs"
}
