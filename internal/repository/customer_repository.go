package repository

import (
	"errors"
	"strings"

	"github.com/walaa-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CustomerRepository 客户仓储接口
type CustomerRepository interface {
	Create(customer *models.Customer) error
	GetByID(id uint) (*models.Customer, error)
	GetByIDForUpdate(id uint) (*models.Customer, error)
	GetByPhone(phone string) (*models.Customer, error)
	List(filter CustomerListFilter) ([]models.Customer, int64, error)
	Update(customer *models.Customer) error
	IncrementPoints(id uint, delta int64) (int64, error)
	DecrementPointsIfEnough(id uint, cost int64) (int64, error)
	WithTx(tx *gorm.DB) *GormCustomerRepository
}

// GormCustomerRepository GORM 客户仓储实现
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建客户仓储
func NewCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCustomerRepository) WithTx(tx *gorm.DB) *GormCustomerRepository {
	if tx == nil {
		return r
	}
	return &GormCustomerRepository{db: tx}
}

// Create 创建客户
func (r *GormCustomerRepository) Create(customer *models.Customer) error {
	if customer == nil {
		return errors.New("invalid customer")
	}
	return r.db.Create(customer).Error
}

// GetByID 根据 ID 查询客户
func (r *GormCustomerRepository) GetByID(id uint) (*models.Customer, error) {
	if id == 0 {
		return nil, nil
	}
	var customer models.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// GetByIDForUpdate 根据 ID 加锁查询客户
func (r *GormCustomerRepository) GetByIDForUpdate(id uint) (*models.Customer, error) {
	if id == 0 {
		return nil, nil
	}
	var customer models.Customer
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// GetByPhone 根据手机号查询客户
func (r *GormCustomerRepository) GetByPhone(phone string) (*models.Customer, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, nil
	}
	var customer models.Customer
	if err := r.db.Where("phone = ?", phone).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// List 查询客户列表
func (r *GormCustomerRepository) List(filter CustomerListFilter) ([]models.Customer, int64, error) {
	query := r.db.Model(&models.Customer{})
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("phone LIKE ? OR name_ar LIKE ? OR name_en LIKE ?", like, like, like)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var customers []models.Customer
	if err := query.Order("id desc").Find(&customers).Error; err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// Update 更新客户
func (r *GormCustomerRepository) Update(customer *models.Customer) error {
	if customer == nil {
		return errors.New("invalid customer")
	}
	return r.db.Save(customer).Error
}

// IncrementPoints 增加客户积分余额
func (r *GormCustomerRepository) IncrementPoints(id uint, delta int64) (int64, error) {
	if id == 0 || delta == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Customer{}).
		Where("id = ?", id).
		Update("points_balance", gorm.Expr("points_balance + ?", delta))
	return result.RowsAffected, result.Error
}

// DecrementPointsIfEnough 条件扣减积分：仅当余额充足时成功，影响行数为 0 表示余额不足。
func (r *GormCustomerRepository) DecrementPointsIfEnough(id uint, cost int64) (int64, error) {
	if id == 0 || cost <= 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Customer{}).
		Where("id = ? AND points_balance >= ?", id, cost).
		Update("points_balance", gorm.Expr("points_balance - ?", cost))
	return result.RowsAffected, result.Error
}
