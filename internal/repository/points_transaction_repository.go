package repository

import (
	"errors"
	"strings"

	"github.com/walaa-next/internal/constants"
	"github.com/walaa-next/internal/models"

	"gorm.io/gorm"
)

// PointsTransactionRepository 积分流水仓储接口
type PointsTransactionRepository interface {
	Create(txn *models.PointsTransaction) error
	List(filter PointsTransactionListFilter) ([]models.PointsTransaction, int64, error)
	SumByCustomer(customerID uint) (int64, error)
	WithTx(tx *gorm.DB) *GormPointsTransactionRepository
}

// GormPointsTransactionRepository GORM 积分流水仓储实现
type GormPointsTransactionRepository struct {
	db *gorm.DB
}

// NewPointsTransactionRepository 创建积分流水仓储
func NewPointsTransactionRepository(db *gorm.DB) *GormPointsTransactionRepository {
	return &GormPointsTransactionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPointsTransactionRepository) WithTx(tx *gorm.DB) *GormPointsTransactionRepository {
	if tx == nil {
		return r
	}
	return &GormPointsTransactionRepository{db: tx}
}

// Create 追加积分流水
func (r *GormPointsTransactionRepository) Create(txn *models.PointsTransaction) error {
	if txn == nil {
		return errors.New("invalid points transaction")
	}
	return r.db.Create(txn).Error
}

// List 查询积分流水列表
func (r *GormPointsTransactionRepository) List(filter PointsTransactionListFilter) ([]models.PointsTransaction, int64, error) {
	query := r.db.Model(&models.PointsTransaction{}).Preload("Invoice").Preload("Invoice.Store")
	if filter.CustomerID > 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if txnType := strings.TrimSpace(filter.Type); txnType != "" {
		query = query.Where("type = ?", txnType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var txns []models.PointsTransaction
	if err := query.Order("id desc").Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// SumByCustomer 按方向汇总客户积分流水（earn 为正，redeem 为负）
func (r *GormPointsTransactionRepository) SumByCustomer(customerID uint) (int64, error) {
	if customerID == 0 {
		return 0, nil
	}
	var sum int64
	err := r.db.Model(&models.PointsTransaction{}).
		Where("customer_id = ?", customerID).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN points ELSE -points END), 0)", constants.PointsTxnTypeEarn).
		Scan(&sum).Error
	return sum, err
}
