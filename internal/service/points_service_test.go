package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/walaa-next/internal/constants"
	"github.com/walaa-next/internal/models"
	"github.com/walaa-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupPointsServiceTest(t *testing.T) (*PointsService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:points_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Store{},
		&models.Card{},
		&models.PointsTransaction{},
		&models.RewardItem{},
		&models.CustomerVoucher{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cardSvc := NewCardService(
		repository.NewCardRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewStoreRepository(db),
		3*time.Minute,
	)
	svc := NewPointsService(
		repository.NewCustomerRepository(db),
		repository.NewPointsTransactionRepository(db),
		repository.NewRewardRepository(db),
		repository.NewVoucherRepository(db),
		cardSvc,
		"ILS",
	)
	return svc, db
}

func seedPointsCustomer(t *testing.T, db *gorm.DB, id uint, balance int64) {
	t.Helper()
	customer := models.Customer{
		ID:                     id,
		NameAr:                 fmt.Sprintf("عميل %d", id),
		Phone:                  fmt.Sprintf("+97256%07d", id),
		PasswordHash:           "hash",
		DefaultDiscountPercent: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		PointsBalance:          balance,
		Status:                 constants.UserStatusActive,
		CreatedAt:              time.Now(),
		UpdatedAt:              time.Now(),
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
}

func seedReward(t *testing.T, db *gorm.DB, id uint, cost int64, active bool) {
	t.Helper()
	seedScopedReward(t, db, id, cost, active, nil)
}

func seedScopedReward(t *testing.T, db *gorm.DB, id uint, cost int64, active bool, storeID *uint) {
	t.Helper()
	reward := models.RewardItem{
		ID:          id,
		NameAr:      fmt.Sprintf("قسيمة %d", id),
		Type:        "voucher",
		PointsCost:  cost,
		ValueAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
		Currency:    "ILS",
		ExpiryDays:  7,
		StoreID:     storeID,
		IsActive:    active,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := db.Create(&reward).Error; err != nil {
		t.Fatalf("create reward failed: %v", err)
	}
}

func seedActiveCard(t *testing.T, db *gorm.DB, customerID, storeID uint) {
	t.Helper()
	now := time.Now()
	expires := now.Add(3 * time.Minute)
	card := models.Card{
		CustomerID: customerID,
		StoreID:    storeID,
		CardNumber: fmt.Sprintf("CARD_points_%d_%d", customerID, storeID),
		QRToken:    fmt.Sprintf("QR_points_%d_%d", customerID, storeID),
		Status:     constants.CardStatusActive,
		IssuedAt:   now,
		ExpiresAt:  &expires,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.Create(&card).Error; err != nil {
		t.Fatalf("create card failed: %v", err)
	}
}

func customerPoints(t *testing.T, db *gorm.DB, id uint) int64 {
	t.Helper()
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		t.Fatalf("load customer failed: %v", err)
	}
	return customer.PointsBalance
}

func TestPointsServiceRedeemRewardMintsVoucher(t *testing.T) {
	svc, db := setupPointsServiceTest(t)
	seedPointsCustomer(t, db, 1, 250)
	seedReward(t, db, 1, 200, true)

	result, err := svc.RedeemReward(1, 1)
	if err != nil {
		t.Fatalf("redeem reward failed: %v", err)
	}
	if result.PointsSpent != 200 || result.BalanceAfter != 50 {
		t.Fatalf("unexpected result: %+v", result)
	}
	voucher := result.Voucher
	if voucher == nil || !strings.HasPrefix(voucher.Code, "VCH_") {
		t.Fatalf("unexpected voucher: %+v", voucher)
	}
	if voucher.UsedAt != nil {
		t.Fatalf("new voucher must be unused")
	}
	if !voucher.ValueAmount.Decimal.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected value 20, got: %s", voucher.ValueAmount)
	}
	until := time.Until(voucher.ExpiresAt)
	if until <= 6*24*time.Hour || until > 7*24*time.Hour {
		t.Fatalf("unexpected voucher expiry: %v", voucher.ExpiresAt)
	}

	var customer models.Customer
	if err := db.First(&customer, 1).Error; err != nil {
		t.Fatalf("load customer failed: %v", err)
	}
	if customer.PointsBalance != 50 {
		t.Fatalf("expected balance 50, got: %d", customer.PointsBalance)
	}

	var txn models.PointsTransaction
	if err := db.Where("customer_id = ?", 1).First(&txn).Error; err != nil {
		t.Fatalf("load transaction failed: %v", err)
	}
	if txn.Type != constants.PointsTxnTypeRedeem || txn.Points != 200 {
		t.Fatalf("unexpected transaction: %+v", txn)
	}
}

func TestPointsServiceRedeemPoints(t *testing.T) {
	svc, db := setupPointsServiceTest(t)
	seedPointsCustomer(t, db, 1, 100)

	balance, err := svc.RedeemPoints(1, 60)
	if err != nil {
		t.Fatalf("redeem points failed: %v", err)
	}
	if balance != 40 {
		t.Fatalf("expected balance 40, got: %d", balance)
	}
	if got := customerPoints(t, db, 1); got != 40 {
		t.Fatalf("expected persisted balance 40, got: %d", got)
	}

	var txn models.PointsTransaction
	if err := db.Where("customer_id = ?", 1).First(&txn).Error; err != nil {
		t.Fatalf("load transaction failed: %v", err)
	}
	if txn.Type != constants.PointsTxnTypeRedeem || txn.Points != 60 {
		t.Fatalf("unexpected transaction: %+v", txn)
	}

	if _, err := svc.RedeemPoints(1, 60); !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got: %v", err)
	}
	if got := customerPoints(t, db, 1); got != 40 {
		t.Fatalf("expected balance unchanged, got: %d", got)
	}
	if _, err := svc.RedeemPoints(1, 0); !errors.Is(err, ErrCustomerInvalid) {
		t.Fatalf("expected ErrCustomerInvalid for non-positive points, got: %v", err)
	}
}

func TestPointsServiceRedeemRewardInsufficientPoints(t *testing.T) {
	svc, db := setupPointsServiceTest(t)
	seedPointsCustomer(t, db, 1, 100)
	seedReward(t, db, 1, 200, true)

	if _, err := svc.RedeemReward(1, 1); !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got: %v", err)
	}

	// 扣减失败后余额、流水与券都不得落库
	var customer models.Customer
	if err := db.First(&customer, 1).Error; err != nil {
		t.Fatalf("load customer failed: %v", err)
	}
	if customer.PointsBalance != 100 {
		t.Fatalf("expected balance untouched, got: %d", customer.PointsBalance)
	}
	var txnCount, voucherCount int64
	if err := db.Model(&models.PointsTransaction{}).Count(&txnCount).Error; err != nil {
		t.Fatalf("count transactions failed: %v", err)
	}
	if err := db.Model(&models.CustomerVoucher{}).Count(&voucherCount).Error; err != nil {
		t.Fatalf("count vouchers failed: %v", err)
	}
	if txnCount != 0 || voucherCount != 0 {
		t.Fatalf("expected no side effects, got txns=%d vouchers=%d", txnCount, voucherCount)
	}
}

func TestPointsServiceRedeemRewardRejectsInvisible(t *testing.T) {
	svc, db := setupPointsServiceTest(t)
	seedPointsCustomer(t, db, 1, 500)
	seedReward(t, db, 1, 200, false)

	// 停用与未知的目录项不可区分，一律按不存在处理
	if _, err := svc.RedeemReward(1, 1); !errors.Is(err, ErrRewardNotFound) {
		t.Fatalf("expected ErrRewardNotFound for inactive reward, got: %v", err)
	}
	if _, err := svc.RedeemReward(1, 99); !errors.Is(err, ErrRewardNotFound) {
		t.Fatalf("expected ErrRewardNotFound, got: %v", err)
	}
}

func TestPointsServiceRedeemRewardScopedToCardStores(t *testing.T) {
	svc, db := setupPointsServiceTest(t)
	seedPointsCustomer(t, db, 1, 500)
	storeID := uint(7)
	seedScopedReward(t, db, 1, 200, true, &storeID)

	// 未在该商户持有效卡：范围外目录项按不存在处理，不得铸券
	if _, err := svc.RedeemReward(1, 1); !errors.Is(err, ErrRewardNotFound) {
		t.Fatalf("expected ErrRewardNotFound for out-of-scope reward, got: %v", err)
	}
	var voucherCount int64
	if err := db.Model(&models.CustomerVoucher{}).Count(&voucherCount).Error; err != nil {
		t.Fatalf("count vouchers failed: %v", err)
	}
	if voucherCount != 0 {
		t.Fatalf("expected no voucher minted, got: %d", voucherCount)
	}

	// 持有该商户有效卡后可兑换
	seedActiveCard(t, db, 1, storeID)
	result, err := svc.RedeemReward(1, 1)
	if err != nil {
		t.Fatalf("redeem scoped reward failed: %v", err)
	}
	if result.Voucher == nil || result.Voucher.Code == "" {
		t.Fatalf("expected voucher, got: %+v", result)
	}
}

func TestPointsServiceRedeemVoucherSingleUse(t *testing.T) {
	svc, db := setupPointsServiceTest(t)
	seedPointsCustomer(t, db, 1, 250)
	seedReward(t, db, 1, 200, true)

	result, err := svc.RedeemReward(1, 1)
	if err != nil {
		t.Fatalf("redeem reward failed: %v", err)
	}
	code := result.Voucher.Code

	used, err := svc.RedeemVoucher(3, code)
	if err != nil {
		t.Fatalf("redeem voucher failed: %v", err)
	}
	if used.UsedAt == nil || used.UsedStoreID == nil || *used.UsedStoreID != 3 {
		t.Fatalf("unexpected voucher state: %+v", used)
	}

	if _, err := svc.RedeemVoucher(4, code); !errors.Is(err, ErrVoucherInvalid) {
		t.Fatalf("expected ErrVoucherInvalid on second use, got: %v", err)
	}
	if _, err := svc.RedeemVoucher(4, "VCH_FFFFFFFFFFFF"); !errors.Is(err, ErrVoucherNotFound) {
		t.Fatalf("expected ErrVoucherNotFound, got: %v", err)
	}
}

func TestPointsServiceRedeemVoucherRejectsExpired(t *testing.T) {
	svc, db := setupPointsServiceTest(t)
	seedPointsCustomer(t, db, 1, 250)
	seedReward(t, db, 1, 200, true)

	result, err := svc.RedeemReward(1, 1)
	if err != nil {
		t.Fatalf("redeem reward failed: %v", err)
	}
	past := time.Now().Add(-time.Hour)
	if err := db.Model(&models.CustomerVoucher{}).Where("code = ?", result.Voucher.Code).Update("expires_at", past).Error; err != nil {
		t.Fatalf("backdate voucher failed: %v", err)
	}

	if _, err := svc.RedeemVoucher(3, result.Voucher.Code); !errors.Is(err, ErrVoucherInvalid) {
		t.Fatalf("expected ErrVoucherInvalid for expired voucher, got: %v", err)
	}
}

func TestPointsServiceVerifyLedger(t *testing.T) {
	svc, db := setupPointsServiceTest(t)
	seedPointsCustomer(t, db, 1, 0)

	txns := []models.PointsTransaction{
		{CustomerID: 1, Type: constants.PointsTxnTypeEarn, Points: 120, CreatedAt: time.Now()},
		{CustomerID: 1, Type: constants.PointsTxnTypeEarn, Points: 80, CreatedAt: time.Now()},
		{CustomerID: 1, Type: constants.PointsTxnTypeRedeem, Points: 50, CreatedAt: time.Now()},
	}
	for i := range txns {
		if err := db.Create(&txns[i]).Error; err != nil {
			t.Fatalf("create transaction failed: %v", err)
		}
	}
	if err := db.Model(&models.Customer{}).Where("id = ?", 1).Update("points_balance", 150).Error; err != nil {
		t.Fatalf("set balance failed: %v", err)
	}

	ok, err := svc.VerifyLedger(1)
	if err != nil {
		t.Fatalf("verify ledger failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected consistent ledger")
	}

	if err := db.Model(&models.Customer{}).Where("id = ?", 1).Update("points_balance", 151).Error; err != nil {
		t.Fatalf("set balance failed: %v", err)
	}
	ok, err = svc.VerifyLedger(1)
	if err != nil {
		t.Fatalf("verify ledger failed: %v", err)
	}
	if ok {
		t.Fatalf("expected inconsistent ledger")
	}
}
