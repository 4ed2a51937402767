package service

import (
	"strings"
	"time"

	"github.com/walaa-next/internal/constants"
	"github.com/walaa-next/internal/logger"
	"github.com/walaa-next/internal/models"
	"github.com/walaa-next/internal/repository"

	"gorm.io/gorm"
)

// PointsService 积分与代金券服务
// 余额扣减、流水追加与代金券铸造在同一事务内完成，
// 余额不足由条件扣减的影响行数裁决。
type PointsService struct {
	customerRepo repository.CustomerRepository
	txnRepo      repository.PointsTransactionRepository
	rewardRepo   repository.RewardRepository
	voucherRepo  repository.VoucherRepository
	cardSvc      *CardService
	currency     string
}

// PointsHistoryInput 积分流水查询输入
type PointsHistoryInput struct {
	CustomerID uint
	Type       string
	Page       int
	PageSize   int
}

// RedeemRewardResult 积分兑换结果
type RedeemRewardResult struct {
	Voucher      *models.CustomerVoucher `json:"voucher"`
	PointsSpent  int64                   `json:"points_spent"`
	BalanceAfter int64                   `json:"balance_after"`
}

// NewPointsService 创建积分服务
func NewPointsService(
	customerRepo repository.CustomerRepository,
	txnRepo repository.PointsTransactionRepository,
	rewardRepo repository.RewardRepository,
	voucherRepo repository.VoucherRepository,
	cardSvc *CardService,
	currency string,
) *PointsService {
	currency = strings.TrimSpace(strings.ToUpper(currency))
	if currency == "" {
		currency = constants.SiteCurrencyDefault
	}
	return &PointsService{
		customerRepo: customerRepo,
		txnRepo:      txnRepo,
		rewardRepo:   rewardRepo,
		voucherRepo:  voucherRepo,
		cardSvc:      cardSvc,
		currency:     currency,
	}
}

// Balance 查询客户积分余额
func (s *PointsService) Balance(customerID uint) (int64, error) {
	if s == nil || s.customerRepo == nil {
		return 0, ErrPointsFetchFailed
	}
	customer, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		return 0, ErrPointsFetchFailed
	}
	if customer == nil {
		return 0, ErrCustomerNotFound
	}
	return customer.PointsBalance, nil
}

// History 查询客户积分流水
func (s *PointsService) History(input PointsHistoryInput) ([]models.PointsTransaction, int64, error) {
	if s == nil || s.txnRepo == nil {
		return nil, 0, ErrPointsFetchFailed
	}
	if input.CustomerID == 0 {
		return nil, 0, ErrCustomerInvalid
	}
	txns, total, err := s.txnRepo.List(repository.PointsTransactionListFilter{
		Page:       input.Page,
		PageSize:   input.PageSize,
		CustomerID: input.CustomerID,
		Type:       strings.TrimSpace(strings.ToLower(input.Type)),
	})
	if err != nil {
		return nil, 0, ErrPointsFetchFailed
	}
	return txns, total, nil
}

// RedeemPoints 扣减客户积分并追加 redeem 流水
// 扣减与记账在同一事务内，余额不足由条件扣减裁决。
func (s *PointsService) RedeemPoints(customerID uint, points int64) (int64, error) {
	if s == nil || s.customerRepo == nil || s.txnRepo == nil {
		return 0, ErrPointsRedeemFailed
	}
	if customerID == 0 || points <= 0 {
		return 0, ErrCustomerInvalid
	}

	customer, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		return 0, ErrPointsFetchFailed
	}
	if customer == nil {
		return 0, ErrCustomerNotFound
	}

	now := time.Now()
	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		rows, err := s.customerRepo.WithTx(tx).DecrementPointsIfEnough(customerID, points)
		if err != nil {
			return ErrPointsRedeemFailed
		}
		if rows == 0 {
			return ErrInsufficientPoints
		}
		redeem := &models.PointsTransaction{
			CustomerID: customerID,
			Type:       constants.PointsTxnTypeRedeem,
			Points:     points,
			CreatedAt:  now,
		}
		if err := s.txnRepo.WithTx(tx).Create(redeem); err != nil {
			return ErrPointsRedeemFailed
		}
		return nil
	}); err != nil {
		return 0, err
	}

	logger.Infow("points_redeemed", "customer_id", customerID, "points", points)
	return customer.PointsBalance - points, nil
}

// rewardVisibleToCustomer 判定店铺限定目录项对客户是否可见：
// 仅当客户在该商户持有效卡时可见。
func (s *PointsService) rewardVisibleToCustomer(customerID, storeID uint) (bool, error) {
	if s.cardSvc == nil {
		return false, ErrRewardFetchFailed
	}
	storeIDs, err := s.cardSvc.ActiveStoreIDs(customerID)
	if err != nil {
		return false, ErrRewardFetchFailed
	}
	for _, id := range storeIDs {
		if id == storeID {
			return true, nil
		}
	}
	return false, nil
}

// RedeemReward 用积分兑换目录项并铸造代金券
func (s *PointsService) RedeemReward(customerID, rewardID uint) (*RedeemRewardResult, error) {
	if s == nil || s.customerRepo == nil || s.rewardRepo == nil || s.voucherRepo == nil {
		return nil, ErrPointsRedeemFailed
	}
	if customerID == 0 || rewardID == 0 {
		return nil, ErrCustomerInvalid
	}

	customer, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, ErrPointsFetchFailed
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	reward, err := s.rewardRepo.GetByID(rewardID)
	if err != nil {
		return nil, ErrRewardFetchFailed
	}
	// 不可见的目录项一律按不存在处理：未知、停用与店铺范围外不可区分。
	if reward == nil || !reward.IsActive {
		return nil, ErrRewardNotFound
	}
	if reward.StoreID != nil && *reward.StoreID > 0 {
		visible, err := s.rewardVisibleToCustomer(customerID, *reward.StoreID)
		if err != nil {
			return nil, err
		}
		if !visible {
			return nil, ErrRewardNotFound
		}
	}
	if reward.PointsCost <= 0 {
		return nil, ErrRewardInvalid
	}

	now := time.Now()
	expiryDays := reward.ExpiryDays
	if expiryDays <= 0 {
		expiryDays = 7
	}
	currency := strings.TrimSpace(strings.ToUpper(reward.Currency))
	if currency == "" {
		currency = s.currency
	}
	voucher := &models.CustomerVoucher{
		CustomerID:  customerID,
		RewardID:    reward.ID,
		Code:        GenerateVoucherCode(),
		ValueAmount: reward.ValueAmount,
		Currency:    currency,
		ExpiresAt:   now.AddDate(0, 0, expiryDays),
		CreatedAt:   now,
	}

	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		rows, err := s.customerRepo.WithTx(tx).DecrementPointsIfEnough(customerID, reward.PointsCost)
		if err != nil {
			return ErrPointsRedeemFailed
		}
		if rows == 0 {
			return ErrInsufficientPoints
		}

		redeem := &models.PointsTransaction{
			CustomerID: customerID,
			Type:       constants.PointsTxnTypeRedeem,
			Points:     reward.PointsCost,
			CreatedAt:  now,
		}
		if err := s.txnRepo.WithTx(tx).Create(redeem); err != nil {
			return ErrPointsRedeemFailed
		}

		if err := s.voucherRepo.WithTx(tx).Create(voucher); err != nil {
			return ErrPointsRedeemFailed
		}
		return nil
	}); err != nil {
		return nil, err
	}

	logger.Infow("reward_redeemed",
		"customer_id", customerID,
		"reward_id", reward.ID,
		"voucher_code", voucher.Code,
		"points_spent", reward.PointsCost,
	)
	voucher.Reward = reward

	return &RedeemRewardResult{
		Voucher:      voucher,
		PointsSpent:  reward.PointsCost,
		BalanceAfter: customer.PointsBalance - reward.PointsCost,
	}, nil
}

// ListVouchers 查询客户代金券
func (s *PointsService) ListVouchers(customerID uint, onlyUsable bool, page, pageSize int) ([]models.CustomerVoucher, int64, error) {
	if s == nil || s.voucherRepo == nil {
		return nil, 0, ErrVoucherFetchFailed
	}
	if customerID == 0 {
		return nil, 0, ErrCustomerInvalid
	}
	vouchers, total, err := s.voucherRepo.List(repository.VoucherListFilter{
		Page:       page,
		PageSize:   pageSize,
		CustomerID: customerID,
		OnlyUsable: onlyUsable,
	})
	if err != nil {
		return nil, 0, ErrVoucherFetchFailed
	}
	return vouchers, total, nil
}

// RedeemVoucher 商户核销代金券
// 与兑换令牌同一纪律：条件更新影响行数为 0 即核销失败。
func (s *PointsService) RedeemVoucher(storeID uint, code string) (*models.CustomerVoucher, error) {
	if s == nil || s.voucherRepo == nil {
		return nil, ErrVoucherFetchFailed
	}
	code = strings.TrimSpace(strings.ToUpper(code))
	if storeID == 0 || code == "" {
		return nil, ErrVoucherInvalid
	}

	voucher, err := s.voucherRepo.GetByCode(code)
	if err != nil {
		return nil, ErrVoucherFetchFailed
	}
	if voucher == nil {
		return nil, ErrVoucherNotFound
	}

	now := time.Now()
	rows, err := s.voucherRepo.MarkUsed(code, now, storeID)
	if err != nil {
		return nil, ErrVoucherFetchFailed
	}
	if rows == 0 {
		return nil, ErrVoucherInvalid
	}

	voucher.UsedAt = &now
	voucher.UsedStoreID = &storeID
	logger.Infow("voucher_redeemed", "voucher_code", code, "store_id", storeID)
	return voucher, nil
}

// VerifyLedger 校验客户冗余余额与流水有符号和一致
func (s *PointsService) VerifyLedger(customerID uint) (bool, error) {
	if s == nil || s.customerRepo == nil || s.txnRepo == nil {
		return false, ErrPointsFetchFailed
	}
	customer, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		return false, ErrPointsFetchFailed
	}
	if customer == nil {
		return false, ErrCustomerNotFound
	}
	sum, err := s.txnRepo.SumByCustomer(customerID)
	if err != nil {
		return false, ErrPointsFetchFailed
	}
	return sum == customer.PointsBalance, nil
}
