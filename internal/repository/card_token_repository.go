package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/walaa-next/internal/models"

	"gorm.io/gorm"
)

// CardTokenRepository 一次性二维码令牌仓储接口
type CardTokenRepository interface {
	Create(token *models.CardToken) error
	GetByToken(token string) (*models.CardToken, error)
	GetActiveByCard(cardID uint, now time.Time) (*models.CardToken, error)
	InvalidateActiveForCard(cardID uint, now time.Time) (int64, error)
	MarkUsed(token string, now time.Time) (int64, error)
	List(filter CardTokenListFilter) ([]models.CardToken, int64, error)
	WithTx(tx *gorm.DB) *GormCardTokenRepository
}

// GormCardTokenRepository GORM 一次性二维码令牌仓储实现
type GormCardTokenRepository struct {
	db *gorm.DB
}

// NewCardTokenRepository 创建二维码令牌仓储
func NewCardTokenRepository(db *gorm.DB) *GormCardTokenRepository {
	return &GormCardTokenRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCardTokenRepository) WithTx(tx *gorm.DB) *GormCardTokenRepository {
	if tx == nil {
		return r
	}
	return &GormCardTokenRepository{db: tx}
}

// Create 创建令牌
func (r *GormCardTokenRepository) Create(token *models.CardToken) error {
	if token == nil {
		return errors.New("invalid card token")
	}
	return r.db.Create(token).Error
}

// GetByToken 根据令牌值查询，预加载卡与客户、商户
func (r *GormCardTokenRepository) GetByToken(token string) (*models.CardToken, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	var record models.CardToken
	if err := r.db.Preload("Card").Preload("Card.Customer").Preload("Card.Store").
		Where("token = ?", token).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetActiveByCard 查询卡当前有效令牌（最近签发且未用未过期）
func (r *GormCardTokenRepository) GetActiveByCard(cardID uint, now time.Time) (*models.CardToken, error) {
	if cardID == 0 {
		return nil, nil
	}
	var record models.CardToken
	if err := r.db.Where("card_id = ? AND used_at IS NULL AND expires_at > ?", cardID, now).
		Order("id desc").
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// InvalidateActiveForCard 作废卡下全部未用未过期令牌，返回影响行数
func (r *GormCardTokenRepository) InvalidateActiveForCard(cardID uint, now time.Time) (int64, error) {
	if cardID == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.CardToken{}).
		Where("card_id = ? AND used_at IS NULL AND expires_at > ?", cardID, now).
		Update("used_at", now)
	return result.RowsAffected, result.Error
}

// MarkUsed 条件更新核销令牌：仅当未用且未过期时成功，影响行数为 0 表示核销失败。
func (r *GormCardTokenRepository) MarkUsed(token string, now time.Time) (int64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, nil
	}
	result := r.db.Model(&models.CardToken{}).
		Where("token = ? AND used_at IS NULL AND expires_at > ?", token, now).
		Update("used_at", now)
	return result.RowsAffected, result.Error
}

// List 查询令牌列表
func (r *GormCardTokenRepository) List(filter CardTokenListFilter) ([]models.CardToken, int64, error) {
	query := r.db.Model(&models.CardToken{}).Preload("Card")
	if filter.CardID > 0 {
		query = query.Where("card_id = ?", filter.CardID)
	}
	if filter.CustomerID > 0 {
		query = query.Joins("LEFT JOIN cards ON cards.id = card_tokens.card_id").
			Where("cards.customer_id = ?", filter.CustomerID)
	}
	if source := strings.TrimSpace(filter.Source); source != "" {
		query = query.Where("source = ?", source)
	}
	if filter.OnlyActive {
		query = query.Where("used_at IS NULL AND expires_at > ?", time.Now())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var records []models.CardToken
	if err := query.Order("card_tokens.id desc").Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
