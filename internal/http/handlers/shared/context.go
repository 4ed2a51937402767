package shared

import (
	"github.com/walaa-next/internal/authz"
	"github.com/walaa-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// PrincipalContextKey 鉴权中间件写入主体的上下文键。
const PrincipalContextKey = "principal"

// GetPrincipal 从上下文读取请求主体并统一处理错误响应。
func GetPrincipal(c *gin.Context) (authz.Principal, bool) {
	value, exists := c.Get(PrincipalContextKey)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return authz.Principal{}, false
	}
	principal, ok := value.(authz.Principal)
	if !ok || principal.Role == "" {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return authz.Principal{}, false
	}
	return principal, true
}
