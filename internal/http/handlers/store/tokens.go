package store

import (
	"github.com/walaa-next/internal/constants"
	handlershared "github.com/walaa-next/internal/http/handlers/shared"
	"github.com/walaa-next/internal/http/response"
	"github.com/walaa-next/internal/service"

	"github.com/gin-gonic/gin"
)

var storeTokenErrorRules = handlershared.ConcatMappedHandlerErrors(
	storeCardErrorRules,
	[]handlershared.MappedHandlerError{
		{Target: service.ErrTokenInvalid, Code: response.CodeBadRequest, Key: "error.token_invalid"},
	},
)

// IssueToken 为本店会员卡签发一次性兑换令牌 (Store)
func (h *Handler) IssueToken(c *gin.Context) {
	principal, storeID, ok := getStorePrincipal(c)
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
		StoreID:   storeID,
	})
	if err != nil {
		handlershared.RespondWithMappedError(c, err, storeTokenErrorRules, response.CodeInternal, "error.internal")
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

	response.SuccessWithMsg(c, "token.issued", issued)
}
