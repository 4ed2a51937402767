package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/walaa-next/internal/constants"
	handlershared "github.com/walaa-next/internal/http/handlers/shared"
	"github.com/walaa-next/internal/http/response"
	"github.com/walaa-next/internal/repository"
	"github.com/walaa-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateCardStatusRequest 更新会员卡状态请求
type UpdateCardStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListCards 获取会员卡列表 (Admin)
func (h *Handler) ListCards(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	customerID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("customer_id")), 10, 64)
	storeID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("store_id")), 10, 64)

	cards, total, err := h.CardService.ListCards(service.CardListInput{
		Page:       page,
		PageSize:   pageSize,
		CustomerID: uint(customerID),
		StoreID:    uint(storeID),
		Status:     strings.TrimSpace(c.Query("status")),
		CardNumber: strings.TrimSpace(c.Query("card_number")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, cards, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: handlershared.TotalPages(total, pageSize),
	})
}

// GetCard 获取会员卡详情 (Admin)
func (h *Handler) GetCard(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	card, err := h.CardService.GetCard(principal, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCardNotFound):
			respondError(c, response.CodeNotFound, "card.not_found", nil)
		case errors.Is(err, service.ErrForbidden):
			respondError(c, response.CodeForbidden, "error.forbidden", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, card)
}

// UpdateCardStatus 冻结/恢复会员卡 (Admin)
func (h *Handler) UpdateCardStatus(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateCardStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	card, err := h.CardService.SetStatus(id, strings.TrimSpace(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCardNotFound):
			respondError(c, response.CodeNotFound, "card.not_found", nil)
		case errors.Is(err, service.ErrCardInvalid):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	h.AuditService.Record(service.AuditEntry{
		Principal:  principal,
		Action:     constants.AuditActionStatusSet,
		EntityType: "card",
		EntityID:   card.ID,
		Detail:     gin.H{"status": card.Status},
		IP:         c.ClientIP(),
	})

	response.SuccessWithMsg(c, "card.updated", card)
}

// ListCardTokens 获取二维码令牌列表 (Admin)
func (h *Handler) ListCardTokens(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	cardID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("card_id")), 10, 64)
	customerID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("customer_id")), 10, 64)

	tokens, total, err := h.CardTokenService.ListTokens(repository.CardTokenListFilter{
		Page:       page,
		PageSize:   pageSize,
		CardID:     uint(cardID),
		CustomerID: uint(customerID),
		Source:     strings.TrimSpace(c.Query("source")),
		OnlyActive: c.Query("only_active") == "true",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, tokens, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: handlershared.TotalPages(total, pageSize),
	})
}
