package service

import (
	"strings"
	"time"

	"github.com/walaa-next/internal/authz"
	"github.com/walaa-next/internal/constants"
	"github.com/walaa-next/internal/logger"
	"github.com/walaa-next/internal/models"
	"github.com/walaa-next/internal/repository"
)

// CardService 会员卡生命周期服务
// 过期采用惰性策略：读取路径发现有效期已过时顺手落库改状态，
// 不依赖后台扫描任务。
type CardService struct {
	repo         repository.CardRepository
	customerRepo repository.CustomerRepository
	storeRepo    repository.StoreRepository
	cardTTL      time.Duration
}

// CardListInput 会员卡列表输入
type CardListInput struct {
	Page       int
	PageSize   int
	CustomerID uint
	StoreID    uint
	Status     string
	CardNumber string
}

// NewCardService 创建会员卡服务
func NewCardService(repo repository.CardRepository, customerRepo repository.CustomerRepository, storeRepo repository.StoreRepository, cardTTL time.Duration) *CardService {
	if cardTTL <= 0 {
		cardTTL = time.Duration(constants.DefaultCardTTLMinutes) * time.Minute
	}
	return &CardService{
		repo:         repo,
		customerRepo: customerRepo,
		storeRepo:    storeRepo,
		cardTTL:      cardTTL,
	}
}

// CardTTL 返回卡片默认有效期
func (s *CardService) CardTTL() time.Duration {
	return s.cardTTL
}

// ActiveStoreIDs 返回客户当前持有效卡的商户集合
func (s *CardService) ActiveStoreIDs(customerID uint) ([]uint, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCardFetchFailed
	}
	if customerID == 0 {
		return nil, ErrCustomerInvalid
	}
	storeIDs, err := s.repo.ActiveStoreIDs(customerID, time.Now(), s.cardTTL)
	if err != nil {
		return nil, ErrCardFetchFailed
	}
	return storeIDs, nil
}

// GetOrCreateCard 获取客户在商户下的有效卡，没有或已过期则签发新卡。
// 返回值第二项表示本次是否新签发。
func (s *CardService) GetOrCreateCard(customerID, storeID uint) (*models.Card, bool, error) {
	if s == nil || s.repo == nil {
		return nil, false, ErrCardFetchFailed
	}
	if customerID == 0 || storeID == 0 {
		return nil, false, ErrCardInvalid
	}

	customer, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, false, ErrCustomerFetchFailed
	}
	if customer == nil {
		return nil, false, ErrCustomerNotFound
	}
	if customer.Status != constants.UserStatusActive {
		return nil, false, ErrCustomerInvalid
	}

	store, err := s.storeRepo.GetByID(storeID)
	if err != nil {
		return nil, false, ErrStoreFetchFailed
	}
	if store == nil {
		return nil, false, ErrStoreNotFound
	}
	if !store.IsActive {
		return nil, false, ErrStoreInactive
	}

	now := time.Now()
	existing, err := s.repo.GetActiveByCustomerStore(customerID, storeID)
	if err != nil {
		return nil, false, ErrCardFetchFailed
	}
	if existing != nil {
		if !existing.IsExpired(now, s.cardTTL) {
			return existing, false, nil
		}
		s.expireLazily(existing, now)
	}

	expiresAt := now.Add(s.cardTTL)
	card := &models.Card{
		CustomerID: customerID,
		StoreID:    storeID,
		CardNumber: GenerateToken(constants.TokenPrefixCard),
		QRToken:    GenerateToken(constants.TokenPrefixQR),
		Status:     constants.CardStatusActive,
		IssuedAt:   now,
		ExpiresAt:  &expiresAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(card); err != nil {
		return nil, false, ErrCardCreateFailed
	}
	card.Customer = customer
	card.Store = store
	return card, true, nil
}

// GetCard 按主体权限读取卡
func (s *CardService) GetCard(principal authz.Principal, id uint) (*models.Card, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCardFetchFailed
	}
	card, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrCardFetchFailed
	}
	if card == nil {
		return nil, ErrCardNotFound
	}
	if !authz.CanAccessCard(principal, card) {
		return nil, ErrForbidden
	}
	s.applyLazyExpiry(card, time.Now())
	return card, nil
}

// ResolveByCardNumber 根据卡号解析卡（商户终端查卡）
func (s *CardService) ResolveByCardNumber(principal authz.Principal, cardNumber string) (*models.Card, error) {
	return s.resolveCard(principal, func() (*models.Card, error) {
		return s.repo.GetByCardNumber(cardNumber)
	})
}

// ResolveByQRToken 根据卡面 QR 解析卡
func (s *CardService) ResolveByQRToken(principal authz.Principal, qrToken string) (*models.Card, error) {
	return s.resolveCard(principal, func() (*models.Card, error) {
		return s.repo.GetByQRToken(qrToken)
	})
}

func (s *CardService) resolveCard(principal authz.Principal, fetch func() (*models.Card, error)) (*models.Card, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCardFetchFailed
	}
	card, err := fetch()
	if err != nil {
		return nil, ErrCardFetchFailed
	}
	if card == nil {
		return nil, ErrCardNotFound
	}
	if !authz.CanAccessCard(principal, card) {
		return nil, ErrForbidden
	}
	s.applyLazyExpiry(card, time.Now())
	return card, nil
}

// ListCards 查询会员卡列表（管理端）
func (s *CardService) ListCards(input CardListInput) ([]models.Card, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrCardFetchFailed
	}
	cards, total, err := s.repo.List(repository.CardListFilter{
		Page:       input.Page,
		PageSize:   input.PageSize,
		CustomerID: input.CustomerID,
		StoreID:    input.StoreID,
		Status:     strings.TrimSpace(strings.ToLower(input.Status)),
		CardNumber: input.CardNumber,
	})
	if err != nil {
		return nil, 0, ErrCardFetchFailed
	}
	now := time.Now()
	for i := range cards {
		s.applyLazyExpiry(&cards[i], now)
	}
	return cards, total, nil
}

// ListCustomerCards 查询客户名下会员卡
func (s *CardService) ListCustomerCards(customerID uint) ([]models.Card, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCardFetchFailed
	}
	cards, err := s.repo.ListByCustomer(customerID)
	if err != nil {
		return nil, ErrCardFetchFailed
	}
	now := time.Now()
	for i := range cards {
		s.applyLazyExpiry(&cards[i], now)
	}
	return cards, nil
}

// SetStatus 管理端设置卡状态
// 重新激活时刷新有效期窗口，否则刚激活就会被惰性过期打回。
func (s *CardService) SetStatus(id uint, status string) (*models.Card, error) {
	if s == nil || s.repo == nil || id == 0 {
		return nil, ErrCardInvalid
	}
	normalized := strings.TrimSpace(strings.ToLower(status))
	switch normalized {
	case constants.CardStatusActive, constants.CardStatusBlocked:
	default:
		return nil, ErrCardInvalid
	}

	card, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrCardFetchFailed
	}
	if card == nil {
		return nil, ErrCardNotFound
	}

	now := time.Now()
	card.Status = normalized
	if normalized == constants.CardStatusActive {
		expiresAt := now.Add(s.cardTTL)
		card.IssuedAt = now
		card.ExpiresAt = &expiresAt
	}
	card.UpdatedAt = now
	if err := s.repo.Update(card); err != nil {
		return nil, ErrCardUpdateFailed
	}
	return card, nil
}

// applyLazyExpiry 惰性过期：有效期已过的 active 卡顺手改状态。
func (s *CardService) applyLazyExpiry(card *models.Card, now time.Time) {
	if card == nil || card.Status != constants.CardStatusActive {
		return
	}
	if !card.IsExpired(now, s.cardTTL) {
		return
	}
	s.expireLazily(card, now)
}

func (s *CardService) expireLazily(card *models.Card, now time.Time) {
	card.Status = constants.CardStatusExpired
	card.UpdatedAt = now
	if _, err := s.repo.UpdateStatus(card.ID, constants.CardStatusExpired); err != nil {
		logger.Warnw("card_lazy_expire_failed", "card_id", card.ID, "error", err)
	}
}
