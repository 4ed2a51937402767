package store

import (
	"strings"

	handlershared "github.com/walaa-next/internal/http/handlers/shared"
	"github.com/walaa-next/internal/http/response"
	"github.com/walaa-next/internal/models"
	"github.com/walaa-next/internal/service"

	"github.com/gin-gonic/gin"
)

var storeCardErrorRules = []handlershared.MappedHandlerError{
	{Target: service.ErrCardNotFound, Code: response.CodeNotFound, Key: "card.not_found"},
	{Target: service.ErrCardExpired, Code: response.CodeBadRequest, Key: "card.expired"},
	{Target: service.ErrCardInactive, Code: response.CodeBadRequest, Key: "card.inactive"},
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.forbidden"},
	{Target: service.ErrCustomerNotFound, Code: response.CodeNotFound, Key: "customer.not_found"},
	{Target: service.ErrStoreInactive, Code: response.CodeForbidden, Key: "store.inactive"},
}

// LookupCard 按卡号或二维码令牌检索本店会员卡 (Store)
func (h *Handler) LookupCard(c *gin.Context) {
	principal, _, ok := getStorePrincipal(c)
	if !ok {
		return
	}

	cardNumber := strings.TrimSpace(c.Query("card_number"))
	qrToken := strings.TrimSpace(c.Query("qr_token"))
	if cardNumber == "" && qrToken == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var (
		card *models.Card
		err  error
	)
	if cardNumber != "" {
		card, err = h.CardService.ResolveByCardNumber(principal, cardNumber)
	} else {
		card, err = h.CardService.ResolveByQRToken(principal, qrToken)
	}
	if err != nil {
		handlershared.RespondWithMappedError(c, err, storeCardErrorRules, response.CodeInternal, "error.internal")
		return
	}

	response.Success(c, card)
}

// GetCustomerByPhone 按手机号查找客户并返回其在本店的会员卡 (Store)
func (h *Handler) GetCustomerByPhone(c *gin.Context) {
	_, storeID, ok := getStorePrincipal(c)
	if !ok {
		return
	}

	phone := strings.TrimSpace(c.Query("phone"))
	if phone == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	customer, err := h.CustomerService.GetCustomerByPhone(phone)
	if err != nil {
		handlershared.RespondWithMappedError(c, err, storeCardErrorRules, response.CodeInternal, "error.internal")
		return
	}

	card, _, err := h.CardService.GetOrCreateCard(customer.ID, storeID)
	if err != nil {
		handlershared.RespondWithMappedError(c, err, storeCardErrorRules, response.CodeInternal, "error.internal")
		return
	}

	response.Success(c, gin.H{
		"customer": customer,
		"card":     card,
	})
}
