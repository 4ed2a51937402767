package store

import (
	"strconv"

	handlershared "github.com/walaa-next/internal/http/handlers/shared"
	"github.com/walaa-next/internal/http/response"
	"github.com/walaa-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListInvoices 获取本店发票列表 (Store)
func (h *Handler) ListInvoices(c *gin.Context) {
	_, storeID, ok := getStorePrincipal(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	customerID, _ := strconv.ParseUint(c.Query("customer_id"), 10, 64)

	invoices, total, err := h.InvoiceRepo.List(repository.InvoiceListFilter{
		Page:       page,
		PageSize:   pageSize,
		StoreID:    storeID,
		CustomerID: uint(customerID),
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

// ListRecentInvoices 获取本店最近核销记录 (Store)
func (h *Handler) ListRecentInvoices(c *gin.Context) {
	_, storeID, ok := getStorePrincipal(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	invoices, err := h.InvoiceRepo.ListRecentByStore(storeID, limit)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, invoices)
}
