package customer

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

// RedeemRewardRequest 积分兑换请求
type RedeemRewardRequest struct {
	RewardID uint `json:"reward_id" binding:"required"`
}

// RedeemPointsRequest 积分直接扣减请求
type RedeemPointsRequest struct {
	Points int64 `json:"points" binding:"required,gt=0"`
}

// GetPointsBalance 查询积分余额 (Customer)
func (h *Handler) GetPointsBalance(c *gin.Context) {
	_, customerID, ok := getCustomerPrincipal(c)
	if !ok {
		return
	}

	balance, err := h.PointsService.Balance(customerID)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			respondError(c, response.CodeNotFound, "customer.not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, gin.H{"balance": balance})
}

// ListPointsHistory 查询积分流水 (Customer)
func (h *Handler) ListPointsHistory(c *gin.Context) {
	_, customerID, ok := getCustomerPrincipal(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	txns, total, err := h.PointsService.History(service.PointsHistoryInput{
		CustomerID: customerID,
		Type:       strings.TrimSpace(c.Query("type")),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, txns, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: handlershared.TotalPages(total, pageSize),
	})
}

// ListRewards 浏览可兑换目录 (Customer)
// 可见范围按客户持有效卡的商户推导：全平台项加这些商户的限定项。
func (h *Handler) ListRewards(c *gin.Context) {
	_, customerID, ok := getCustomerPrincipal(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	storeIDs, err := h.CardService.ActiveStoreIDs(customerID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	rewards, total, err := h.RewardService.ListRewards(service.RewardListInput{
		Page:            page,
		PageSize:        pageSize,
		OnlyActive:      true,
		OnlyVisible:     true,
		VisibleStoreIDs: storeIDs,
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

// RedeemPoints 直接扣减积分 (Customer)
func (h *Handler) RedeemPoints(c *gin.Context) {
	principal, customerID, ok := getCustomerPrincipal(c)
	if !ok {
		return
	}
	var req RedeemPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	balance, err := h.PointsService.RedeemPoints(customerID, req.Points)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientPoints):
			respondError(c, response.CodeBadRequest, "points.insufficient", nil)
		case errors.Is(err, service.ErrCustomerNotFound):
			respondError(c, response.CodeNotFound, "customer.not_found", nil)
		case errors.Is(err, service.ErrCustomerInvalid):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	h.AuditService.Record(service.AuditEntry{
		Principal:  principal,
		Action:     constants.AuditActionPointsRedeem,
		EntityType: "customer",
		EntityID:   customerID,
		Detail:     gin.H{"points": req.Points, "balance": balance},
		IP:         c.ClientIP(),
	})

	response.SuccessWithMsg(c, "points.redeemed", gin.H{"points": req.Points, "balance": balance})
}

// RedeemReward 用积分兑换代金券 (Customer)
func (h *Handler) RedeemReward(c *gin.Context) {
	principal, customerID, ok := getCustomerPrincipal(c)
	if !ok {
		return
	}
	var req RedeemRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.PointsService.RedeemReward(customerID, req.RewardID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRewardNotFound):
			respondError(c, response.CodeNotFound, "reward.not_found", nil)
		case errors.Is(err, service.ErrInsufficientPoints):
			respondError(c, response.CodeBadRequest, "points.insufficient", nil)
		case errors.Is(err, service.ErrCustomerNotFound):
			respondError(c, response.CodeNotFound, "customer.not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	h.AuditService.Record(service.AuditEntry{
		Principal:  principal,
		Action:     constants.AuditActionRewardRedeem,
		EntityType: "reward",
		EntityID:   req.RewardID,
		Detail:     gin.H{"points_spent": result.PointsSpent, "voucher_code": result.Voucher.Code},
		IP:         c.ClientIP(),
	})

	response.SuccessWithMsg(c, "points.redeemed", result)
}

// ListVouchers 查询本人代金券 (Customer)
func (h *Handler) ListVouchers(c *gin.Context) {
	_, customerID, ok := getCustomerPrincipal(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	vouchers, total, err := h.PointsService.ListVouchers(customerID, c.Query("only_usable") == "true", page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, vouchers, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: handlershared.TotalPages(total, pageSize),
	})
}
