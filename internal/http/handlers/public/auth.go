package public

import (
	"errors"

	"github.com/walaa-next/internal/constants"
	"github.com/walaa-next/internal/http/response"
	"github.com/walaa-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UserLoginRequest 平台用户登录请求
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CustomerLoginRequest 客户登录请求
type CustomerLoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginUser 平台用户登录（管理员/商户）
func (h *Handler) LoginUser(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.AuthService.LoginUser(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuthInvalidCredentials):
			respondError(c, response.CodeUnauthorized, "error.login_failed", nil)
		case errors.Is(err, service.ErrAuthUserDisabled):
			respondError(c, response.CodeForbidden, "error.forbidden", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	h.AuditService.Record(service.AuditEntry{
		Principal:  result.Principal,
		Action:     constants.AuditActionLogin,
		EntityType: "user",
		EntityID:   result.Principal.UserID,
		IP:         c.ClientIP(),
	})

	response.Success(c, gin.H{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"role":       result.Principal.Role,
		"store_id":   result.Principal.StoreID,
	})
}

// LoginCustomer 客户登录
func (h *Handler) LoginCustomer(c *gin.Context) {
	var req CustomerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.AuthService.LoginCustomer(req.Phone, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuthInvalidCredentials):
			respondError(c, response.CodeUnauthorized, "error.login_failed", nil)
		case errors.Is(err, service.ErrAuthUserDisabled):
			respondError(c, response.CodeForbidden, "error.forbidden", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	h.AuditService.Record(service.AuditEntry{
		Principal:  result.Principal,
		Action:     constants.AuditActionLogin,
		EntityType: "customer",
		EntityID:   result.Principal.CustomerID,
		IP:         c.ClientIP(),
	})

	response.Success(c, gin.H{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"role":       result.Principal.Role,
	})
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}
