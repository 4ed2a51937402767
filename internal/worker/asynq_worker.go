package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/walaa-next/internal/logger"
	"github.com/walaa-next/internal/models"
	"github.com/walaa-next/internal/provider"
	"github.com/walaa-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskAuditLog, c.handleAuditLog)
}

func (c *Consumer) handleAuditLog(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_audit_log_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.AuditLogPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_audit_log_unmarshal_failed", "error", err)
		return err
	}
	if payload.Action == "" {
		logger.Debugw("worker_audit_log_skip_empty_action")
		return nil
	}
	occurredAt := payload.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	record := &models.AuditLog{
		ActorRole:  payload.ActorRole,
		ActorID:    payload.ActorID,
		Action:     payload.Action,
		EntityType: payload.EntityType,
		EntityID:   payload.EntityID,
		Detail:     payload.Detail,
		IP:         payload.IP,
		CreatedAt:  occurredAt,
	}
	if err := c.AuditLogRepo.Create(record); err != nil {
		logger.Warnw("worker_audit_log_write_failed", "action", payload.Action, "error", err)
		return err
	}
	return nil
}
