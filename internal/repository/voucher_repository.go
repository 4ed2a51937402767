package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/walaa-next/internal/models"

	"gorm.io/gorm"
)

// VoucherRepository 代金券仓储接口
type VoucherRepository interface {
	Create(voucher *models.CustomerVoucher) error
	GetByCode(code string) (*models.CustomerVoucher, error)
	MarkUsed(code string, now time.Time, storeID uint) (int64, error)
	List(filter VoucherListFilter) ([]models.CustomerVoucher, int64, error)
	WithTx(tx *gorm.DB) *GormVoucherRepository
}

// GormVoucherRepository GORM 代金券仓储实现
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository 创建代金券仓储
func NewVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVoucherRepository) WithTx(tx *gorm.DB) *GormVoucherRepository {
	if tx == nil {
		return r
	}
	return &GormVoucherRepository{db: tx}
}

// Create 创建代金券
func (r *GormVoucherRepository) Create(voucher *models.CustomerVoucher) error {
	if voucher == nil {
		return errors.New("invalid voucher")
	}
	return r.db.Create(voucher).Error
}

// GetByCode 根据券码查询代金券
func (r *GormVoucherRepository) GetByCode(code string) (*models.CustomerVoucher, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if code == "" {
		return nil, nil
	}
	var voucher models.CustomerVoucher
	if err := r.db.Preload("Customer").Preload("Reward").
		Where("code = ?", code).
		First(&voucher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// MarkUsed 条件更新核销代金券：仅当未用且未过期时成功，影响行数为 0 表示核销失败。
func (r *GormVoucherRepository) MarkUsed(code string, now time.Time, storeID uint) (int64, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if code == "" {
		return 0, nil
	}
	result := r.db.Model(&models.CustomerVoucher{}).
		Where("code = ? AND used_at IS NULL AND expires_at > ?", code, now).
		Updates(map[string]interface{}{
			"used_at":       now,
			"used_store_id": storeID,
		})
	return result.RowsAffected, result.Error
}

// List 查询代金券列表
func (r *GormVoucherRepository) List(filter VoucherListFilter) ([]models.CustomerVoucher, int64, error) {
	query := r.db.Model(&models.CustomerVoucher{}).Preload("Reward")
	if filter.CustomerID > 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.RewardID > 0 {
		query = query.Where("reward_id = ?", filter.RewardID)
	}
	if filter.OnlyUsable {
		query = query.Where("used_at IS NULL AND expires_at > ?", time.Now())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var vouchers []models.CustomerVoucher
	if err := query.Order("id desc").Find(&vouchers).Error; err != nil {
		return nil, 0, err
	}
	return vouchers, total, nil
}
