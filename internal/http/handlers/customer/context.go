package customer

import (
	"strconv"

	"github.com/walaa-next/internal/authz"
	handlershared "github.com/walaa-next/internal/http/handlers/shared"
	"github.com/walaa-next/internal/http/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

// getCustomerPrincipal 获取当前客户身份
func getCustomerPrincipal(c *gin.Context) (authz.Principal, uint, bool) {
	principal, ok := handlershared.GetPrincipal(c)
	if !ok {
		return authz.Principal{}, 0, false
	}
	if !principal.IsCustomer() || principal.CustomerID == 0 {
		respondError(c, response.CodeForbidden, "error.forbidden", nil)
		return authz.Principal{}, 0, false
	}
	return principal, principal.CustomerID, true
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return 0, false
	}
	return uint(id), true
}
