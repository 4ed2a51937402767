package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/walaa-next/internal/constants"
	"github.com/walaa-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CardRepository 会员卡仓储接口
type CardRepository interface {
	Create(card *models.Card) error
	GetByID(id uint) (*models.Card, error)
	GetByCardNumber(cardNumber string) (*models.Card, error)
	GetByQRToken(qrToken string) (*models.Card, error)
	GetActiveByCustomerStore(customerID, storeID uint) (*models.Card, error)
	GetActiveByCustomerStoreForUpdate(customerID, storeID uint) (*models.Card, error)
	List(filter CardListFilter) ([]models.Card, int64, error)
	ListByCustomer(customerID uint) ([]models.Card, error)
	ActiveStoreIDs(customerID uint, now time.Time, defaultTTL time.Duration) ([]uint, error)
	Update(card *models.Card) error
	UpdateStatus(id uint, status string) (int64, error)
	WithTx(tx *gorm.DB) *GormCardRepository
}

// GormCardRepository GORM 会员卡仓储实现
type GormCardRepository struct {
	db *gorm.DB
}

// NewCardRepository 创建会员卡仓储
func NewCardRepository(db *gorm.DB) *GormCardRepository {
	return &GormCardRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCardRepository) WithTx(tx *gorm.DB) *GormCardRepository {
	if tx == nil {
		return r
	}
	return &GormCardRepository{db: tx}
}

// Create 创建会员卡
func (r *GormCardRepository) Create(card *models.Card) error {
	if card == nil {
		return errors.New("invalid card")
	}
	return r.db.Create(card).Error
}

// GetByID 根据 ID 查询会员卡
func (r *GormCardRepository) GetByID(id uint) (*models.Card, error) {
	if id == 0 {
		return nil, nil
	}
	var card models.Card
	if err := r.db.Preload("Customer").Preload("Store").First(&card, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// GetByCardNumber 根据卡号查询会员卡
func (r *GormCardRepository) GetByCardNumber(cardNumber string) (*models.Card, error) {
	cardNumber = strings.TrimSpace(cardNumber)
	if cardNumber == "" {
		return nil, nil
	}
	var card models.Card
	if err := r.db.Preload("Customer").Preload("Store").
		Where("card_number = ?", cardNumber).
		First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// GetByQRToken 根据展示用二维码标识查询会员卡
func (r *GormCardRepository) GetByQRToken(qrToken string) (*models.Card, error) {
	qrToken = strings.TrimSpace(qrToken)
	if qrToken == "" {
		return nil, nil
	}
	var card models.Card
	if err := r.db.Preload("Customer").Preload("Store").
		Where("qr_token = ?", qrToken).
		First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// GetActiveByCustomerStore 查询客户在商户下的有效卡
func (r *GormCardRepository) GetActiveByCustomerStore(customerID, storeID uint) (*models.Card, error) {
	return r.getActiveByCustomerStore(r.db, customerID, storeID)
}

// GetActiveByCustomerStoreForUpdate 加锁查询客户在商户下的有效卡
func (r *GormCardRepository) GetActiveByCustomerStoreForUpdate(customerID, storeID uint) (*models.Card, error) {
	return r.getActiveByCustomerStore(r.db.Clauses(clause.Locking{Strength: "UPDATE"}), customerID, storeID)
}

func (r *GormCardRepository) getActiveByCustomerStore(db *gorm.DB, customerID, storeID uint) (*models.Card, error) {
	if customerID == 0 || storeID == 0 {
		return nil, nil
	}
	var card models.Card
	if err := db.Where("customer_id = ? AND store_id = ? AND status = ?", customerID, storeID, constants.CardStatusActive).
		Order("id desc").
		First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// List 查询会员卡列表
func (r *GormCardRepository) List(filter CardListFilter) ([]models.Card, int64, error) {
	query := r.db.Model(&models.Card{}).Preload("Customer").Preload("Store")
	if filter.CustomerID > 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.StoreID > 0 {
		query = query.Where("store_id = ?", filter.StoreID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if cardNumber := strings.TrimSpace(filter.CardNumber); cardNumber != "" {
		query = query.Where("card_number LIKE ?", "%"+cardNumber+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var cards []models.Card
	if err := query.Order("id desc").Find(&cards).Error; err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

// ListByCustomer 查询客户名下全部会员卡
func (r *GormCardRepository) ListByCustomer(customerID uint) ([]models.Card, error) {
	if customerID == 0 {
		return []models.Card{}, nil
	}
	var cards []models.Card
	if err := r.db.Preload("Store").
		Where("customer_id = ?", customerID).
		Order("id desc").
		Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// ActiveStoreIDs 查询客户当前持有效卡的商户集合
// ExpiresAt 为空的卡按 IssuedAt+defaultTTL 推导有效期。
func (r *GormCardRepository) ActiveStoreIDs(customerID uint, now time.Time, defaultTTL time.Duration) ([]uint, error) {
	if customerID == 0 {
		return []uint{}, nil
	}
	var storeIDs []uint
	if err := r.db.Model(&models.Card{}).
		Where("customer_id = ? AND status = ?", customerID, constants.CardStatusActive).
		Where("(expires_at IS NOT NULL AND expires_at > ?) OR (expires_at IS NULL AND issued_at > ?)", now, now.Add(-defaultTTL)).
		Distinct().
		Pluck("store_id", &storeIDs).Error; err != nil {
		return nil, err
	}
	return storeIDs, nil
}

// Update 更新会员卡
func (r *GormCardRepository) Update(card *models.Card) error {
	if card == nil {
		return errors.New("invalid card")
	}
	return r.db.Save(card).Error
}

// UpdateStatus 更新会员卡状态
func (r *GormCardRepository) UpdateStatus(id uint, status string) (int64, error) {
	if id == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Card{}).
		Where("id = ?", id).
		Update("status", strings.TrimSpace(status))
	return result.RowsAffected, result.Error
}
