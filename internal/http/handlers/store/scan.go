package store

import (
	"strings"

	"github.com/walaa-next/internal/constants"
	handlershared "github.com/walaa-next/internal/http/handlers/shared"
	"github.com/walaa-next/internal/http/response"
	"github.com/walaa-next/internal/models"
	"github.com/walaa-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ScanRequest 扫码核销请求
type ScanRequest struct {
	Token    string `json:"token" binding:"required"`
	Subtotal string `json:"subtotal" binding:"required"`
}

var storeScanErrorRules = []handlershared.MappedHandlerError{
	{Target: service.ErrTokenInvalid, Code: response.CodeBadRequest, Key: "error.token_invalid"},
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.forbidden"},
	{Target: service.ErrCardExpired, Code: response.CodeBadRequest, Key: "card.expired"},
	{Target: service.ErrCardInactive, Code: response.CodeBadRequest, Key: "card.inactive"},
	{Target: service.ErrInvalidDiscountInput, Code: response.CodeBadRequest, Key: "discount.invalid_input"},
}

func (h *Handler) bindScanRequest(c *gin.Context) (string, models.Money, bool) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return "", models.Money{}, false
	}
	subtotal, err := decimal.NewFromString(strings.TrimSpace(req.Subtotal))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return "", models.Money{}, false
	}
	return strings.TrimSpace(req.Token), models.NewMoneyFromDecimal(subtotal), true
}

// Scan 扫码核销：消费令牌、落发票、累积积分 (Store)
func (h *Handler) Scan(c *gin.Context) {
	principal, _, ok := getStorePrincipal(c)
	if !ok {
		return
	}
	token, subtotal, ok := h.bindScanRequest(c)
	if !ok {
		return
	}

	result, err := h.RedemptionService.Redeem(service.RedeemInput{
		Principal: principal,
		Token:     token,
		Subtotal:  subtotal,
	})
	if err != nil {
		handlershared.RespondWithMappedError(c, err, storeScanErrorRules, response.CodeInternal, "error.internal")
		return
	}

	h.AuditService.Record(service.AuditEntry{
		Principal:  principal,
		Action:     constants.AuditActionInvoiceScan,
		EntityType: "invoice",
		EntityID:   result.Invoice.ID,
		Detail:     gin.H{"points_earned": result.PointsEarned},
		IP:         c.ClientIP(),
	})

	response.SuccessWithMsg(c, "invoice.created", result)
}

// PreviewScan 核销前试算折扣，不消费令牌 (Store)
func (h *Handler) PreviewScan(c *gin.Context) {
	principal, _, ok := getStorePrincipal(c)
	if !ok {
		return
	}
	token, subtotal, ok := h.bindScanRequest(c)
	if !ok {
		return
	}

	result, err := h.RedemptionService.Preview(service.RedeemInput{
		Principal: principal,
		Token:     token,
		Subtotal:  subtotal,
	})
	if err != nil {
		handlershared.RespondWithMappedError(c, err, storeScanErrorRules, response.CodeInternal, "error.internal")
		return
	}

	response.Success(c, result)
}
