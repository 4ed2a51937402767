package admin

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/walaa-next/internal/http/handlers/shared"
	"github.com/walaa-next/internal/http/response"
	"github.com/walaa-next/internal/repository"

	"github.com/gin-gonic/gin"
)

func parseTimeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return nil, false
	}
	return &parsed, true
}

// ListInvoices 获取发票列表 (Admin)
func (h *Handler) ListInvoices(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	storeID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("store_id")), 10, 64)
	customerID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("customer_id")), 10, 64)
	cardID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("card_id")), 10, 64)

	createdFrom, ok := parseTimeQuery(c, "created_from")
	if !ok {
		return
	}
	createdTo, ok := parseTimeQuery(c, "created_to")
	if !ok {
		return
	}

	invoices, total, err := h.InvoiceRepo.List(repository.InvoiceListFilter{
		Page:        page,
		PageSize:    pageSize,
		StoreID:     uint(storeID),
		CustomerID:  uint(customerID),
		CardID:      uint(cardID),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, invoices, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: handlershared.TotalPages(total, pageSize),
	})
}

// ListPointsTransactions 获取积分流水列表 (Admin)
func (h *Handler) ListPointsTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	customerID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("customer_id")), 10, 64)

	txns, total, err := h.PointsTxnRepo.List(repository.PointsTransactionListFilter{
		Page:       page,
		PageSize:   pageSize,
		CustomerID: uint(customerID),
		Type:       strings.TrimSpace(c.Query("type")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, txns, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: handlershared.TotalPages(total, pageSize),
	})
}

// ListVouchers 获取代金券列表 (Admin)
func (h *Handler) ListVouchers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	customerID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("customer_id")), 10, 64)
	rewardID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("reward_id")), 10, 64)

	vouchers, total, err := h.VoucherRepo.List(repository.VoucherListFilter{
		Page:       page,
		PageSize:   pageSize,
		CustomerID: uint(customerID),
		RewardID:   uint(rewardID),
		OnlyUsable: c.Query("only_usable") == "true",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, vouchers, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: handlershared.TotalPages(total, pageSize),
	})
}

// ListAuditLogs 获取审计日志列表 (Admin)
func (h *Handler) ListAuditLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	actorID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("actor_id")), 10, 64)

	createdFrom, ok := parseTimeQuery(c, "created_from")
	if !ok {
		return
	}
	createdTo, ok := parseTimeQuery(c, "created_to")
	if !ok {
		return
	}

	logs, total, err := h.AuditService.ListLogs(repository.AuditLogListFilter{
		Page:        page,
		PageSize:    pageSize,
		ActorRole:   strings.TrimSpace(c.Query("actor_role")),
		ActorID:     uint(actorID),
		Action:      strings.TrimSpace(c.Query("action")),
		EntityType:  strings.TrimSpace(c.Query("entity_type")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, logs, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: handlershared.TotalPages(total, pageSize),
	})
}
