package customer

import (
	"github.com/walaa-next/internal/cache"
	"github.com/walaa-next/internal/http/response"
	"github.com/walaa-next/internal/service"

	"github.com/gin-gonic/gin"
)

// 目录缓存最多 200 家商户；超过时直接查库分页。
const storeDirectoryLimit = 200

// ListStores 浏览可用商户目录 (Customer)
func (h *Handler) ListStores(c *gin.Context) {
	if _, _, ok := getCustomerPrincipal(c); !ok {
		return
	}

	ctx := c.Request.Context()
	if directory, hit, err := cache.GetStoreDirectory(ctx); err == nil && hit {
		response.Success(c, directory)
		return
	}

	stores, total, err := h.StoreService.ListStores(service.StoreListInput{
		Page:       1,
		PageSize:   storeDirectoryLimit,
		OnlyActive: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	if err := cache.SetStoreDirectory(ctx, stores, total); err != nil {
		requestLog(c).Warnw("store_directory_cache_set_failed", "error", err)
	}

	response.Success(c, gin.H{
		"stores": stores,
		"total":  total,
	})
}
