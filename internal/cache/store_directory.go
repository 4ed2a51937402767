package cache

import (
	"context"
	"time"

	"github.com/walaa-next/internal/models"
)

const storeDirectoryCacheTTL = 5 * time.Minute

const storeDirectoryKey = "stores:directory"

// StoreDirectory 面向客户端的商户目录快照
// 客户端浏览商户列表频繁且数据变化少，走短时缓存。
type StoreDirectory struct {
	Stores    []models.Store `json:"stores"`
	Total     int64          `json:"total"`
	UpdatedAt int64          `json:"updated_at"`
}

// GetStoreDirectory 获取商户目录快照
func GetStoreDirectory(ctx context.Context) (*StoreDirectory, bool, error) {
	var directory StoreDirectory
	hit, err := GetJSON(ctx, storeDirectoryKey, &directory)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &directory, true, nil
}

// SetStoreDirectory 写入商户目录快照
func SetStoreDirectory(ctx context.Context, stores []models.Store, total int64) error {
	directory := StoreDirectory{
		Stores:    stores,
		Total:     total,
		UpdatedAt: time.Now().Unix(),
	}
	return SetJSON(ctx, storeDirectoryKey, directory, storeDirectoryCacheTTL)
}

// DelStoreDirectory 删除商户目录快照（商户变更后调用）
func DelStoreDirectory(ctx context.Context) error {
	return Del(ctx, storeDirectoryKey)
}
