package repository

import (
	"errors"
	"strings"

	"github.com/walaa-next/internal/models"

	"gorm.io/gorm"
)

// StoreRepository 商户仓储接口
type StoreRepository interface {
	Create(store *models.Store) error
	GetByID(id uint) (*models.Store, error)
	List(filter StoreListFilter) ([]models.Store, int64, error)
	Update(store *models.Store) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormStoreRepository
}

// GormStoreRepository GORM 商户仓储实现
type GormStoreRepository struct {
	db *gorm.DB
}

// NewStoreRepository 创建商户仓储
func NewStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// WithTx 绑定事务
func (r *GormStoreRepository) WithTx(tx *gorm.DB) *GormStoreRepository {
	if tx == nil {
		return r
	}
	return &GormStoreRepository{db: tx}
}

// Create 创建商户
func (r *GormStoreRepository) Create(store *models.Store) error {
	if store == nil {
		return errors.New("invalid store")
	}
	return r.db.Create(store).Error
}

// GetByID 根据 ID 查询商户
func (r *GormStoreRepository) GetByID(id uint) (*models.Store, error) {
	if id == 0 {
		return nil, nil
	}
	var store models.Store
	if err := r.db.First(&store, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

// List 查询商户列表
func (r *GormStoreRepository) List(filter StoreListFilter) ([]models.Store, int64, error) {
	query := r.db.Model(&models.Store{})
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("name_ar LIKE ? OR name_en LIKE ? OR phone LIKE ?", like, like, like)
	}
	if city := strings.TrimSpace(filter.City); city != "" {
		query = query.Where("city = ?", city)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var stores []models.Store
	if err := query.Order("id desc").Find(&stores).Error; err != nil {
		return nil, 0, err
	}
	return stores, total, nil
}

// Update 更新商户
func (r *GormStoreRepository) Update(store *models.Store) error {
	if store == nil {
		return errors.New("invalid store")
	}
	return r.db.Save(store).Error
}

// Delete 删除商户
func (r *GormStoreRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Store{}, id).Error
}
