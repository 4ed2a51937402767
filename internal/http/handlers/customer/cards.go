package customer

import (
	"github.com/walaa-next/internal/constants"
	handlershared "github.com/walaa-next/internal/http/handlers/shared"
	"github.com/walaa-next/internal/http/response"
	"github.com/walaa-next/internal/qr"
	"github.com/walaa-next/internal/service"

	"github.com/gin-gonic/gin"
)

var customerCardErrorRules = []handlershared.MappedHandlerError{
	{Target: service.ErrCardNotFound, Code: response.CodeNotFound, Key: "card.not_found"},
	{Target: service.ErrCardExpired, Code: response.CodeBadRequest, Key: "card.expired"},
	{Target: service.ErrCardInactive, Code: response.CodeBadRequest, Key: "card.inactive"},
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.forbidden"},
	{Target: service.ErrStoreNotFound, Code: response.CodeNotFound, Key: "store.not_found"},
	{Target: service.ErrStoreInactive, Code: response.CodeBadRequest, Key: "store.inactive"},
	{Target: service.ErrCustomerNotFound, Code: response.CodeNotFound, Key: "customer.not_found"},
	{Target: service.ErrTokenInvalid, Code: response.CodeBadRequest, Key: "error.token_invalid"},
}

// ListCards 获取本人会员卡列表 (Customer)
func (h *Handler) ListCards(c *gin.Context) {
	_, customerID, ok := getCustomerPrincipal(c)
	if !ok {
		return
	}

	cards, err := h.CardService.ListCustomerCards(customerID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, cards)
}

// GetStoreCard 获取或领取指定商户的会员卡 (Customer)
func (h *Handler) GetStoreCard(c *gin.Context) {
	principal, customerID, ok := getCustomerPrincipal(c)
	if !ok {
		return
	}
	storeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	card, created, err := h.CardService.GetOrCreateCard(customerID, storeID)
	if err != nil {
		handlershared.RespondWithMappedError(c, err, customerCardErrorRules, response.CodeInternal, "error.internal")
		return
	}

	if created {
		h.AuditService.Record(service.AuditEntry{
			Principal:  principal,
			Action:     constants.AuditActionCardIssue,
			EntityType: "card",
			EntityID:   card.ID,
			IP:         c.ClientIP(),
		})
	}

	response.SuccessWithMsg(c, "card.issued", gin.H{
		"card":    card,
		"created": created,
	})
}

// GetCardQR 获取会员卡二维码图片（data URL） (Customer)
func (h *Handler) GetCardQR(c *gin.Context) {
	principal, _, ok := getCustomerPrincipal(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	card, err := h.CardService.GetCard(principal, cardID)
	if err != nil {
		handlershared.RespondWithMappedError(c, err, customerCardErrorRules, response.CodeInternal, "error.internal")
		return
	}

	dataURL, err := qr.EncodeDataURL(card.QRToken, 0)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, gin.H{
		"card_id":    card.ID,
		"qr_token":   card.QRToken,
		"image":      dataURL,
		"expires_at": card.ExpiresAt,
	})
}

// IssueToken 为本人会员卡签发一次性兑换令牌 (Customer)
func (h *Handler) IssueToken(c *gin.Context) {
	principal, _, ok := getCustomerPrincipal(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	issued, err := h.CardTokenService.IssueToken(service.IssueTokenInput{
		Principal: principal,
		CardID:    cardID,
	})
	if err != nil {
		handlershared.RespondWithMappedError(c, err, customerCardErrorRules, response.CodeInternal, "error.internal")
		return
	}

	h.AuditService.Record(service.AuditEntry{
		Principal:  principal,
		Action:     constants.AuditActionTokenIssue,
		EntityType: "card",
		EntityID:   cardID,
		Detail:     gin.H{"source": issued.Source},
		IP:         c.ClientIP(),
	})

	// 令牌同时给出二维码渲染，店员可直接扫码。
	dataURL, err := qr.EncodeDataURL(issued.Token, 0)
	if err != nil {
		requestLog(c).Warnw("token_qr_encode_failed", "error", err)
	}

	response.SuccessWithMsg(c, "token.issued", gin.H{
		"token":      issued.Token,
		"source":     issued.Source,
		"expires_at": issued.ExpiresAt,
		"image":      dataURL,
	})
}
