package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/walaa-next/internal/cache"
	"github.com/walaa-next/internal/constants"
	handlershared "github.com/walaa-next/internal/http/handlers/shared"
	"github.com/walaa-next/internal/http/response"
	"github.com/walaa-next/internal/models"
	"github.com/walaa-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateStoreRequest 创建商户请求
type CreateStoreRequest struct {
	NameAr             string `json:"name_ar" binding:"required"`
	NameEn             string `json:"name_en"`
	Phone              string `json:"phone"`
	City               string `json:"city"`
	MaxDiscountPercent string `json:"max_discount_percent" binding:"required"`
	CommissionPercent  string `json:"commission_percent"`
	LoginEmail         string `json:"login_email"`
	LoginPassword      string `json:"login_password"`
}

// UpdateStoreRequest 更新商户请求
type UpdateStoreRequest struct {
	NameAr             *string `json:"name_ar"`
	NameEn             *string `json:"name_en"`
	Phone              *string `json:"phone"`
	City               *string `json:"city"`
	MaxDiscountPercent *string `json:"max_discount_percent"`
	CommissionPercent  *string `json:"commission_percent"`
	IsActive           *bool   `json:"is_active"`
}

func parseMoneyField(raw string) (models.Money, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return models.Money{}, err
	}
	return models.NewMoneyFromDecimal(value), nil
}

func parseMoneyFieldNullable(raw *string) (*models.Money, error) {
	if raw == nil {
		return nil, nil
	}
	value, err := parseMoneyField(*raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// CreateStore 创建商户 (Admin)
func (h *Handler) CreateStore(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	var req CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	maxPercent, err := parseMoneyField(req.MaxDiscountPercent)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	commission := models.NewMoneyFromDecimal(decimal.Zero)
	if strings.TrimSpace(req.CommissionPercent) != "" {
		commission, err = parseMoneyField(req.CommissionPercent)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}

	store, err := h.StoreService.CreateStore(service.CreateStoreInput{
		NameAr:             req.NameAr,
		NameEn:             req.NameEn,
		Phone:              req.Phone,
		City:               req.City,
		MaxDiscountPercent: maxPercent,
		CommissionPercent:  commission,
		LoginEmail:         req.LoginEmail,
		LoginPassword:      req.LoginPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreInvalid):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	h.invalidateStoreDirectory(c)
	h.AuditService.Record(service.AuditEntry{
		Principal:  principal,
		Action:     constants.AuditActionCreate,
		EntityType: "store",
		EntityID:   store.ID,
		IP:         c.ClientIP(),
	})

	response.SuccessWithMsg(c, "store.created", store)
}

// ListStores 获取商户列表 (Admin)
func (h *Handler) ListStores(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	stores, total, err := h.StoreService.ListStores(service.StoreListInput{
		Page:       page,
		PageSize:   pageSize,
		Keyword:    strings.TrimSpace(c.Query("keyword")),
		City:       strings.TrimSpace(c.Query("city")),
		OnlyActive: c.Query("only_active") == "true",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, stores, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: handlershared.TotalPages(total, pageSize),
	})
}

// GetStore 获取商户详情 (Admin)
func (h *Handler) GetStore(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	store, err := h.StoreService.GetStore(id)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			respondError(c, response.CodeNotFound, "store.not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, store)
}

// UpdateStore 更新商户 (Admin)
func (h *Handler) UpdateStore(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	maxPercent, err := parseMoneyFieldNullable(req.MaxDiscountPercent)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	commission, err := parseMoneyFieldNullable(req.CommissionPercent)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	store, err := h.StoreService.UpdateStore(id, service.UpdateStoreInput{
		NameAr:             req.NameAr,
		NameEn:             req.NameEn,
		Phone:              req.Phone,
		City:               req.City,
		MaxDiscountPercent: maxPercent,
		CommissionPercent:  commission,
		IsActive:           req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreNotFound):
			respondError(c, response.CodeNotFound, "store.not_found", nil)
		case errors.Is(err, service.ErrStoreInvalid):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	h.invalidateStoreDirectory(c)
	h.AuditService.Record(service.AuditEntry{
		Principal:  principal,
		Action:     constants.AuditActionUpdate,
		EntityType: "store",
		EntityID:   store.ID,
		IP:         c.ClientIP(),
	})

	response.SuccessWithMsg(c, "store.updated", store)
}

// DeleteStore 删除商户 (Admin)
func (h *Handler) DeleteStore(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.StoreService.DeleteStore(id); err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			respondError(c, response.CodeNotFound, "store.not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	h.invalidateStoreDirectory(c)
	h.AuditService.Record(service.AuditEntry{
		Principal:  principal,
		Action:     constants.AuditActionDelete,
		EntityType: "store",
		EntityID:   id,
		IP:         c.ClientIP(),
	})

	response.SuccessWithMsg(c, "store.deleted", nil)
}

// invalidateStoreDirectory 商户数据变更后清理目录缓存，失败仅记录日志。
func (h *Handler) invalidateStoreDirectory(c *gin.Context) {
	if err := cache.DelStoreDirectory(c.Request.Context()); err != nil {
		requestLog(c).Warnw("store_directory_cache_invalidate_failed", "error", err)
	}
}
