package service

import (
	"encoding/json"
	"time"

	"github.com/walaa-next/internal/authz"
	"github.com/walaa-next/internal/logger"
	"github.com/walaa-next/internal/models"
	"github.com/walaa-next/internal/queue"
	"github.com/walaa-next/internal/repository"
)

// AuditService 审计服务
// 记录走异步队列，队列不可用时降级为同步落库；
// 无论哪条路失败都只告警，绝不影响主流程。
type AuditService struct {
	repo        repository.AuditLogRepository
	queueClient *queue.Client
}

// AuditEntry 审计记录输入
type AuditEntry struct {
	Principal  authz.Principal
	Action     string
	EntityType string
	EntityID   uint
	Detail     interface{}
	IP         string
}

// NewAuditService 创建审计服务
func NewAuditService(repo repository.AuditLogRepository, queueClient *queue.Client) *AuditService {
	return &AuditService{repo: repo, queueClient: queueClient}
}

// Record 记录审计日志（尽力而为）
func (s *AuditService) Record(entry AuditEntry) {
	if s == nil || entry.Action == "" {
		return
	}

	detail := ""
	if entry.Detail != nil {
		if raw, err := json.Marshal(entry.Detail); err == nil {
			detail = string(raw)
		}
	}

	actorID := entry.Principal.UserID
	if actorID == 0 {
		actorID = entry.Principal.CustomerID
	}

	now := time.Now()
	payload := queue.AuditLogPayload{
		ActorRole:  entry.Principal.Role,
		ActorID:    actorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Detail:     detail,
		IP:         entry.IP,
		OccurredAt: now,
	}

	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueAuditLog(payload)
		if err == nil {
			return
		}
		logger.Warnw("audit_enqueue_failed", "action", entry.Action, "error", err)
	}

	if s.repo == nil {
		return
	}
	record := &models.AuditLog{
		ActorRole:  payload.ActorRole,
		ActorID:    payload.ActorID,
		Action:     payload.Action,
		EntityType: payload.EntityType,
		EntityID:   payload.EntityID,
		Detail:     payload.Detail,
		IP:         payload.IP,
		CreatedAt:  now,
	}
	if err := s.repo.Create(record); err != nil {
		logger.Warnw("audit_write_failed", "action", entry.Action, "error", err)
	}
}

// ListLogs 查询审计日志（管理端）
func (s *AuditService) ListLogs(filter repository.AuditLogListFilter) ([]models.AuditLog, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, nil
	}
	return s.repo.List(filter)
}
