package repository

import (
	"errors"
	"strings"

	"github.com/walaa-next/internal/models"

	"gorm.io/gorm"
)

// RewardRepository 兑换目录仓储接口
type RewardRepository interface {
	Create(reward *models.RewardItem) error
	GetByID(id uint) (*models.RewardItem, error)
	List(filter RewardListFilter) ([]models.RewardItem, int64, error)
	Update(reward *models.RewardItem) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormRewardRepository
}

// GormRewardRepository GORM 兑换目录仓储实现
type GormRewardRepository struct {
	db *gorm.DB
}

// NewRewardRepository 创建兑换目录仓储
func NewRewardRepository(db *gorm.DB) *GormRewardRepository {
	return &GormRewardRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRewardRepository) WithTx(tx *gorm.DB) *GormRewardRepository {
	if tx == nil {
		return r
	}
	return &GormRewardRepository{db: tx}
}

// Create 创建兑换目录项
func (r *GormRewardRepository) Create(reward *models.RewardItem) error {
	if reward == nil {
		return errors.New("invalid reward item")
	}
	return r.db.Create(reward).Error
}

// GetByID 根据 ID 查询兑换目录项
func (r *GormRewardRepository) GetByID(id uint) (*models.RewardItem, error) {
	if id == 0 {
		return nil, nil
	}
	var reward models.RewardItem
	if err := r.db.Preload("Store").First(&reward, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reward, nil
}

// List 查询兑换目录列表
// StoreID 非空时返回全平台项与该商户限定项。
func (r *GormRewardRepository) List(filter RewardListFilter) ([]models.RewardItem, int64, error) {
	query := r.db.Model(&models.RewardItem{}).Preload("Store")
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("name_ar LIKE ? OR name_en LIKE ?", like, like)
	}
	if rewardType := strings.TrimSpace(filter.Type); rewardType != "" {
		query = query.Where("type = ?", rewardType)
	}
	if filter.StoreID != nil {
		if *filter.StoreID == 0 {
			query = query.Where("store_id IS NULL")
		} else {
			query = query.Where("store_id IS NULL OR store_id = ?", *filter.StoreID)
		}
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.OnlyVisible {
		if len(filter.VisibleStoreIDs) > 0 {
			query = query.Where("store_id IS NULL OR store_id IN ?", filter.VisibleStoreIDs)
		} else {
			query = query.Where("store_id IS NULL")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var rewards []models.RewardItem
	if err := query.Order("points_cost asc, id desc").Find(&rewards).Error; err != nil {
		return nil, 0, err
	}
	return rewards, total, nil
}

// Update 更新兑换目录项
func (r *GormRewardRepository) Update(reward *models.RewardItem) error {
	if reward == nil {
		return errors.New("invalid reward item")
	}
	return r.db.Save(reward).Error
}

// Delete 删除兑换目录项
func (r *GormRewardRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.RewardItem{}, id).Error
}
