package customer

import (
	"errors"

	"github.com/walaa-next/internal/http/response"
	"github.com/walaa-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProfile 获取本人资料 (Customer)
func (h *Handler) GetProfile(c *gin.Context) {
	_, customerID, ok := getCustomerPrincipal(c)
	if !ok {
		return
	}

	customer, err := h.CustomerService.GetCustomer(customerID)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			respondError(c, response.CodeNotFound, "customer.not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, customer)
}
