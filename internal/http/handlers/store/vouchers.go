package store

import (
	"errors"

	"github.com/walaa-next/internal/constants"
	"github.com/walaa-next/internal/http/response"
	"github.com/walaa-next/internal/service"

	"github.com/gin-gonic/gin"
)

// RedeemVoucherRequest 核销代金券请求
type RedeemVoucherRequest struct {
	Code string `json:"code" binding:"required"`
}

// RedeemVoucher 核销客户代金券 (Store)
func (h *Handler) RedeemVoucher(c *gin.Context) {
	principal, storeID, ok := getStorePrincipal(c)
	if !ok {
		return
	}
	var req RedeemVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	voucher, err := h.PointsService.RedeemVoucher(storeID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVoucherNotFound):
			respondError(c, response.CodeNotFound, "voucher.not_found", nil)
		case errors.Is(err, service.ErrVoucherInvalid):
			respondError(c, response.CodeBadRequest, "voucher.invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	h.AuditService.Record(service.AuditEntry{
		Principal:  principal,
		Action:     constants.AuditActionVoucherRedeem,
		EntityType: "voucher",
		EntityID:   voucher.ID,
		IP:         c.ClientIP(),
	})

	response.SuccessWithMsg(c, "voucher.redeemed", voucher)
}
