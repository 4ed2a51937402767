package queue

import (
	"encoding/json"
	"time"

	"github.com/walaa-next/internal/constants"

	"github.com/hibiken/asynq"
)

// TaskAuditLog 审计日志落库任务
const TaskAuditLog = constants.TaskAuditLog

// AuditLogPayload 审计日志任务载荷
type AuditLogPayload struct {
	ActorRole  string    `json:"actor_role"`
	ActorID    uint      `json:"actor_id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   uint      `json:"entity_id"`
	Detail     string    `json:"detail"`
	IP         string    `json:"ip"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewAuditLogTask 创建审计日志任务
func NewAuditLogTask(payload AuditLogPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditLog, body), nil
}
