package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/walaa-next/internal/constants"
	handlershared "github.com/walaa-next/internal/http/handlers/shared"
	"github.com/walaa-next/internal/http/response"
	"github.com/walaa-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateRewardRequest 创建兑换目录项请求
type CreateRewardRequest struct {
	NameAr      string `json:"name_ar" binding:"required"`
	NameEn      string `json:"name_en"`
	Type        string `json:"type" binding:"required"`
	PointsCost  int64  `json:"points_cost" binding:"required"`
	ValueAmount string `json:"value_amount" binding:"required"`
	Currency    string `json:"currency"`
	ExpiryDays  int    `json:"expiry_days"`
	StoreID     *uint  `json:"store_id"`
	IsActive    *bool  `json:"is_active"`
}

// UpdateRewardRequest 更新兑换目录项请求
type UpdateRewardRequest struct {
	NameAr      *string `json:"name_ar"`
	NameEn      *string `json:"name_en"`
	PointsCost  *int64  `json:"points_cost"`
	ValueAmount *string `json:"value_amount"`
	ExpiryDays  *int    `json:"expiry_days"`
	IsActive    *bool   `json:"is_active"`
}

// CreateReward 创建兑换目录项 (Admin)
func (h *Handler) CreateReward(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	var req CreateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	value, err := parseMoneyField(req.ValueAmount)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	reward, err := h.RewardService.CreateReward(service.CreateRewardInput{
		NameAr:      req.NameAr,
		NameEn:      req.NameEn,
		Type:        req.Type,
		PointsCost:  req.PointsCost,
		ValueAmount: value,
		Currency:    req.Currency,
		ExpiryDays:  req.ExpiryDays,
		StoreID:     req.StoreID,
		IsActive:    isActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRewardInvalid):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		case errors.Is(err, service.ErrStoreNotFound):
			respondError(c, response.CodeNotFound, "store.not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	h.AuditService.Record(service.AuditEntry{
		Principal:  principal,
		Action:     constants.AuditActionCreate,
		EntityType: "reward",
		EntityID:   reward.ID,
		IP:         c.ClientIP(),
	})

	response.SuccessWithMsg(c, "reward.created", reward)
}

// ListRewards 获取兑换目录列表 (Admin)
func (h *Handler) ListRewards(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	var storeID *uint
	if raw := strings.TrimSpace(c.Query("store_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		value := uint(parsed)
		storeID = &value
	}

	rewards, total, err := h.RewardService.ListRewards(service.RewardListInput{
		Page:       page,
		PageSize:   pageSize,
		Keyword:    strings.TrimSpace(c.Query("keyword")),
		Type:       strings.TrimSpace(c.Query("type")),
		StoreID:    storeID,
		OnlyActive: c.Query("only_active") == "true",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, rewards, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: handlershared.TotalPages(total, pageSize),
	})
}

// GetReward 获取兑换目录项详情 (Admin)
func (h *Handler) GetReward(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reward, err := h.RewardService.GetReward(id)
	if err != nil {
		if errors.Is(err, service.ErrRewardNotFound) {
			respondError(c, response.CodeNotFound, "reward.not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, reward)
}

// UpdateReward 更新兑换目录项 (Admin)
func (h *Handler) UpdateReward(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	value, err := parseMoneyFieldNullable(req.ValueAmount)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	reward, err := h.RewardService.UpdateReward(id, service.UpdateRewardInput{
		NameAr:      req.NameAr,
		NameEn:      req.NameEn,
		PointsCost:  req.PointsCost,
		ValueAmount: value,
		ExpiryDays:  req.ExpiryDays,
		IsActive:    req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRewardNotFound):
			respondError(c, response.CodeNotFound, "reward.not_found", nil)
		case errors.Is(err, service.ErrRewardInvalid):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	h.AuditService.Record(service.AuditEntry{
		Principal:  principal,
		Action:     constants.AuditActionUpdate,
		EntityType: "reward",
		EntityID:   reward.ID,
		IP:         c.ClientIP(),
	})

	response.SuccessWithMsg(c, "reward.updated", reward)
}

// DeleteReward 下架并删除兑换目录项 (Admin)
func (h *Handler) DeleteReward(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.RewardService.DeleteReward(id); err != nil {
		if errors.Is(err, service.ErrRewardNotFound) {
			respondError(c, response.CodeNotFound, "reward.not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	h.AuditService.Record(service.AuditEntry{
		Principal:  principal,
		Action:     constants.AuditActionDelete,
		EntityType: "reward",
		EntityID:   id,
		IP:         c.ClientIP(),
	})

	response.Success(c, nil)
}
