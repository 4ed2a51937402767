package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/walaa-next/internal/constants"
	handlershared "github.com/walaa-next/internal/http/handlers/shared"
	"github.com/walaa-next/internal/http/response"
	"github.com/walaa-next/internal/models"
	"github.com/walaa-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest 创建客户请求
type CreateCustomerRequest struct {
	NameAr                 string `json:"name_ar" binding:"required"`
	NameEn                 string `json:"name_en"`
	Phone                  string `json:"phone" binding:"required"`
	Email                  string `json:"email"`
	Password               string `json:"password" binding:"required"`
	DefaultDiscountPercent string `json:"default_discount_percent"`
}

// UpdateCustomerRequest 更新客户请求
type UpdateCustomerRequest struct {
	NameAr                 *string `json:"name_ar"`
	NameEn                 *string `json:"name_en"`
	Email                  *string `json:"email"`
	DefaultDiscountPercent *string `json:"default_discount_percent"`
	Status                 *string `json:"status"`
}

// CreateCustomer 创建客户 (Admin)
func (h *Handler) CreateCustomer(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	percent := models.NewMoneyFromDecimal(decimal.Zero)
	if strings.TrimSpace(req.DefaultDiscountPercent) != "" {
		var err error
		percent, err = parseMoneyField(req.DefaultDiscountPercent)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}

	customer, err := h.CustomerService.CreateCustomer(service.CreateCustomerInput{
		NameAr:                 req.NameAr,
		NameEn:                 req.NameEn,
		Phone:                  req.Phone,
		Email:                  req.Email,
		Password:               req.Password,
		DefaultDiscountPercent: percent,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerExists):
			respondError(c, response.CodeConflict, "customer.exists", nil)
		case errors.Is(err, service.ErrCustomerInvalid):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	h.AuditService.Record(service.AuditEntry{
		Principal:  principal,
		Action:     constants.AuditActionCreate,
		EntityType: "customer",
		EntityID:   customer.ID,
		IP:         c.ClientIP(),
	})

	response.SuccessWithMsg(c, "customer.created", customer)
}

// ListCustomers 获取客户列表 (Admin)
func (h *Handler) ListCustomers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	customers, total, err := h.CustomerService.ListCustomers(service.CustomerListInput{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, customers, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: handlershared.TotalPages(total, pageSize),
	})
}

// GetCustomer 获取客户详情 (Admin)
func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.CustomerService.GetCustomer(id)
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

// UpdateCustomer 更新客户 (Admin)
func (h *Handler) UpdateCustomer(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	percent, err := parseMoneyFieldNullable(req.DefaultDiscountPercent)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	customer, err := h.CustomerService.UpdateCustomer(id, service.UpdateCustomerInput{
		NameAr:                 req.NameAr,
		NameEn:                 req.NameEn,
		Email:                  req.Email,
		DefaultDiscountPercent: percent,
		Status:                 req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerNotFound):
			respondError(c, response.CodeNotFound, "customer.not_found", nil)
		case errors.Is(err, service.ErrCustomerInvalid):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	h.AuditService.Record(service.AuditEntry{
		Principal:  principal,
		Action:     constants.AuditActionUpdate,
		EntityType: "customer",
		EntityID:   customer.ID,
		IP:         c.ClientIP(),
	})

	response.SuccessWithMsg(c, "customer.updated", customer)
}
