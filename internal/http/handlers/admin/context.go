package admin

import (
	"strconv"

	"github.com/walaa-next/internal/authz"
	handlershared "github.com/walaa-next/internal/http/handlers/shared"
	"github.com/walaa-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

func getPrincipal(c *gin.Context) (authz.Principal, bool) {
	return handlershared.GetPrincipal(c)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return 0, false
	}
	return uint(id), true
}
