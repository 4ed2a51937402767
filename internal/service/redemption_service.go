package service

import (
	"strings"
	"time"

	"github.com/walaa-next/internal/authz"
	"github.com/walaa-next/internal/constants"
	"github.com/walaa-next/internal/logger"
	"github.com/walaa-next/internal/models"
	"github.com/walaa-next/internal/repository"

	"gorm.io/gorm"
)

// RedemptionService 扫码核销服务
// 令牌单次使用的唯一裁决点是事务内的条件更新：
// 影响行数为 0 即判定令牌无效，事务整体回滚。
type RedemptionService struct {
	tokenRepo    repository.CardTokenRepository
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
	txnRepo      repository.PointsTransactionRepository
	cardSvc      *CardService
	discountSvc  *DiscountService
	currency     string
}

// RedeemInput 扫码核销输入
type RedeemInput struct {
	Principal authz.Principal
	Token     string
	Subtotal  models.Money
}

// RedeemResult 扫码核销结果
type RedeemResult struct {
	Invoice      *models.Invoice  `json:"invoice"`
	Customer     *models.Customer `json:"customer"`
	PointsEarned int64            `json:"points_earned"`
}

// NewRedemptionService 创建扫码核销服务
func NewRedemptionService(
	tokenRepo repository.CardTokenRepository,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	txnRepo repository.PointsTransactionRepository,
	cardSvc *CardService,
	discountSvc *DiscountService,
	currency string,
) *RedemptionService {
	currency = strings.TrimSpace(strings.ToUpper(currency))
	if currency == "" {
		currency = constants.SiteCurrencyDefault
	}
	return &RedemptionService{
		tokenRepo:    tokenRepo,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		txnRepo:      txnRepo,
		cardSvc:      cardSvc,
		discountSvc:  discountSvc,
		currency:     currency,
	}
}

// Redeem 核销兑换令牌并生成发票
func (s *RedemptionService) Redeem(input RedeemInput) (*RedeemResult, error) {
	if s == nil || s.tokenRepo == nil || s.invoiceRepo == nil || s.txnRepo == nil {
		return nil, ErrRedemptionFailed
	}
	tokenValue := strings.TrimSpace(input.Token)
	if tokenValue == "" {
		return nil, ErrTokenInvalid
	}

	record, err := s.tokenRepo.GetByToken(tokenValue)
	if err != nil {
		return nil, ErrRedemptionFailed
	}
	if record == nil || record.Card == nil {
		return nil, ErrTokenInvalid
	}

	card := record.Card
	now := time.Now()

	if !authz.CanAccessCard(input.Principal, card) {
		return nil, ErrForbidden
	}
	if card.Status == constants.CardStatusActive && card.IsExpired(now, s.cardSvc.CardTTL()) {
		s.cardSvc.applyLazyExpiry(card, now)
	}
	switch card.Status {
	case constants.CardStatusActive:
	case constants.CardStatusExpired:
		return nil, ErrCardExpired
	default:
		return nil, ErrCardInactive
	}

	customer := card.Customer
	store := card.Store
	if customer == nil || store == nil {
		return nil, ErrRedemptionFailed
	}

	// 预检仅用于提前返回友好错误，成败仍以条件更新为准。
	if record.UsedAt != nil || !record.ExpiresAt.After(now) {
		return nil, ErrTokenInvalid
	}

	discount, err := s.discountSvc.Compute(input.Subtotal, customer.DefaultDiscountPercent, store.MaxDiscountPercent)
	if err != nil {
		return nil, err
	}
	pointsEarned := s.discountSvc.PointsEarned(discount.DiscountAmount)
	commission := s.discountSvc.Commission(discount.Total, store.CommissionPercent)

	invoice := &models.Invoice{
		StoreID:                store.ID,
		CustomerID:             customer.ID,
		CardID:                 card.ID,
		Subtotal:               input.Subtotal,
		DiscountPercentApplied: discount.AppliedPercent,
		DiscountAmount:         discount.DiscountAmount,
		Total:                  discount.Total,
		Currency:               s.currency,
		PointsEarned:           pointsEarned,
		CommissionAmount:       commission,
		CreatedAt:              now,
	}

	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		rows, err := s.tokenRepo.WithTx(tx).MarkUsed(tokenValue, now)
		if err != nil {
			return ErrRedemptionFailed
		}
		if rows == 0 {
			return ErrTokenInvalid
		}

		if err := s.invoiceRepo.WithTx(tx).Create(invoice); err != nil {
			return ErrRedemptionFailed
		}

		if pointsEarned > 0 {
			if _, err := s.customerRepo.WithTx(tx).IncrementPoints(customer.ID, pointsEarned); err != nil {
				return ErrRedemptionFailed
			}
			earn := &models.PointsTransaction{
				CustomerID: customer.ID,
				InvoiceID:  &invoice.ID,
				Type:       constants.PointsTxnTypeEarn,
				Points:     pointsEarned,
				CreatedAt:  now,
			}
			if err := s.txnRepo.WithTx(tx).Create(earn); err != nil {
				return ErrRedemptionFailed
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	customer.PointsBalance += pointsEarned
	logger.Infow("invoice_scanned",
		"invoice_id", invoice.ID,
		"store_id", store.ID,
		"customer_id", customer.ID,
		"total", invoice.Total.String(),
		"points_earned", pointsEarned,
	)

	return &RedeemResult{
		Invoice:      invoice,
		Customer:     customer,
		PointsEarned: pointsEarned,
	}, nil
}

// Preview 按令牌预览折扣（不核销）
func (s *RedemptionService) Preview(input RedeemInput) (*DiscountResult, error) {
	if s == nil || s.tokenRepo == nil {
		return nil, ErrRedemptionFailed
	}
	record, err := s.tokenRepo.GetByToken(strings.TrimSpace(input.Token))
	if err != nil {
		return nil, ErrRedemptionFailed
	}
	if record == nil || record.Card == nil || record.Card.Customer == nil || record.Card.Store == nil {
		return nil, ErrTokenInvalid
	}
	if !authz.CanAccessCard(input.Principal, record.Card) {
		return nil, ErrForbidden
	}
	now := time.Now()
	if record.UsedAt != nil || !record.ExpiresAt.After(now) {
		return nil, ErrTokenInvalid
	}
	result, err := s.discountSvc.ComputeRounded(input.Subtotal, record.Card.Customer.DefaultDiscountPercent, record.Card.Store.MaxDiscountPercent)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
