package service

import (
	"time"

	"github.com/walaa-next/internal/authz"
	"github.com/walaa-next/internal/constants"
	"github.com/walaa-next/internal/logger"
	"github.com/walaa-next/internal/models"
	"github.com/walaa-next/internal/repository"

	"gorm.io/gorm"
)

// CardTokenService 一次性兑换令牌服务
// 同一张卡任一时刻最多一个有效令牌：签发新令牌前先作废旧令牌。
type CardTokenService struct {
	repo           repository.CardTokenRepository
	cardSvc        *CardService
	customerOTPTTL time.Duration
	storeOTPTTL    time.Duration
}

// IssueTokenInput 签发令牌输入
// CardID 为空时走客户自助路径：按 StoreID 取（或签发）本人卡。
type IssueTokenInput struct {
	Principal authz.Principal
	CardID    uint
	StoreID   uint
}

// IssuedToken 签发结果
type IssuedToken struct {
	Token     string       `json:"token"`
	Source    string       `json:"source"`
	ExpiresAt time.Time    `json:"expires_at"`
	Card      *models.Card `json:"card,omitempty"`
}

// NewCardTokenService 创建令牌服务
func NewCardTokenService(repo repository.CardTokenRepository, cardSvc *CardService, customerOTPTTL, storeOTPTTL time.Duration) *CardTokenService {
	if customerOTPTTL <= 0 {
		customerOTPTTL = time.Duration(constants.DefaultCustomerOTPTTLMinutes) * time.Minute
	}
	if storeOTPTTL <= 0 {
		storeOTPTTL = time.Duration(constants.DefaultStoreOTPTTLMinutes) * time.Minute
	}
	return &CardTokenService{
		repo:           repo,
		cardSvc:        cardSvc,
		customerOTPTTL: customerOTPTTL,
		storeOTPTTL:    storeOTPTTL,
	}
}

// IssueToken 为卡签发新的一次性兑换令牌
func (s *CardTokenService) IssueToken(input IssueTokenInput) (*IssuedToken, error) {
	if s == nil || s.repo == nil || s.cardSvc == nil {
		return nil, ErrTokenIssueFailed
	}

	card, err := s.resolveCard(input)
	if err != nil {
		return nil, err
	}
	switch card.Status {
	case constants.CardStatusActive:
	case constants.CardStatusExpired:
		return nil, ErrCardExpired
	default:
		return nil, ErrCardInactive
	}

	source := constants.TokenSourceStore
	ttl := s.storeOTPTTL
	if input.Principal.IsCustomer() {
		source = constants.TokenSourceCustomer
		ttl = s.customerOTPTTL
	}

	now := time.Now()
	token := &models.CardToken{
		CardID:    card.ID,
		Token:     GenerateToken(constants.TokenPrefixOTP),
		Source:    source,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		invalidated, err := repo.InvalidateActiveForCard(card.ID, now)
		if err != nil {
			return ErrTokenIssueFailed
		}
		if invalidated > 0 {
			logger.Infow("card_tokens_invalidated", "card_id", card.ID, "count", invalidated)
		}
		if err := repo.Create(token); err != nil {
			return ErrTokenIssueFailed
		}
		return nil
	}); err != nil {
		return nil, ErrTokenIssueFailed
	}

	return &IssuedToken{
		Token:     token.Token,
		Source:    source,
		ExpiresAt: token.ExpiresAt,
		Card:      card,
	}, nil
}

// GetActiveToken 查询卡当前有效令牌
func (s *CardTokenService) GetActiveToken(principal authz.Principal, cardID uint) (*models.CardToken, error) {
	if s == nil || s.repo == nil || s.cardSvc == nil {
		return nil, ErrTokenIssueFailed
	}
	if _, err := s.cardSvc.GetCard(principal, cardID); err != nil {
		return nil, err
	}
	record, err := s.repo.GetActiveByCard(cardID, time.Now())
	if err != nil {
		return nil, ErrTokenIssueFailed
	}
	return record, nil
}

// ListTokens 查询令牌列表（管理端）
func (s *CardTokenService) ListTokens(filter repository.CardTokenListFilter) ([]models.CardToken, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrTokenIssueFailed
	}
	records, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, ErrTokenIssueFailed
	}
	return records, total, nil
}

func (s *CardTokenService) resolveCard(input IssueTokenInput) (*models.Card, error) {
	if input.CardID > 0 {
		return s.cardSvc.GetCard(input.Principal, input.CardID)
	}
	if input.Principal.IsCustomer() && input.StoreID > 0 {
		card, _, err := s.cardSvc.GetOrCreateCard(input.Principal.CustomerID, input.StoreID)
		return card, err
	}
	return nil, ErrCardInvalid
}
