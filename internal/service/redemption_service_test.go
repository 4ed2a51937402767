package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/walaa-next/internal/authz"
	"github.com/walaa-next/internal/constants"
	"github.com/walaa-next/internal/models"
	"github.com/walaa-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type redemptionTestEnv struct {
	redemptionSvc *RedemptionService
	tokenSvc      *CardTokenService
	cardSvc       *CardService
	db            *gorm.DB
}

func setupRedemptionServiceTest(t *testing.T) redemptionTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:redemption_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Store{},
		&models.Card{},
		&models.CardToken{},
		&models.Invoice{},
		&models.PointsTransaction{},
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
	tokenSvc := NewCardTokenService(
		repository.NewCardTokenRepository(db),
		cardSvc,
		2*time.Minute,
		5*time.Minute,
	)
	redemptionSvc := NewRedemptionService(
		repository.NewCardTokenRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewInvoiceRepository(db),
		repository.NewPointsTransactionRepository(db),
		cardSvc,
		NewDiscountService(),
		"ILS",
	)
	return redemptionTestEnv{
		redemptionSvc: redemptionSvc,
		tokenSvc:      tokenSvc,
		cardSvc:       cardSvc,
		db:            db,
	}
}

func (env redemptionTestEnv) issueToken(t *testing.T) string {
	t.Helper()
	customer := authz.Principal{Role: constants.RoleCustomer, CustomerID: 1}
	issued, err := env.tokenSvc.IssueToken(IssueTokenInput{Principal: customer, StoreID: 1})
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	return issued.Token
}

func TestRedemptionServiceRedeemCreatesInvoiceAndPoints(t *testing.T) {
	env := setupRedemptionServiceTest(t)
	seedCardCustomer(t, env.db, 1)
	seedCardStore(t, env.db, 1)
	token := env.issueToken(t)

	clerk := authz.Principal{Role: constants.RoleStore, UserID: 7, StoreID: 1}
	result, err := env.redemptionSvc.Redeem(RedeemInput{
		Principal: clerk,
		Token:     token,
		Subtotal:  money(t, "1000"),
	})
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	// 客户默认 15%，商户上限 10% → 生效 10%
	invoice := result.Invoice
	if invoice == nil || invoice.ID == 0 {
		t.Fatalf("invalid invoice: %+v", invoice)
	}
	if !invoice.DiscountPercentApplied.Decimal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected applied percent 10, got: %s", invoice.DiscountPercentApplied)
	}
	if !invoice.DiscountAmount.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected discount 100, got: %s", invoice.DiscountAmount)
	}
	if !invoice.Total.Decimal.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("expected total 900, got: %s", invoice.Total)
	}
	if invoice.PointsEarned != 10 {
		t.Fatalf("expected 10 points earned, got: %d", invoice.PointsEarned)
	}
	if !invoice.CommissionAmount.Decimal.Equal(decimal.NewFromInt(45)) {
		t.Fatalf("expected commission 45, got: %s", invoice.CommissionAmount)
	}
	if invoice.Currency != "ILS" {
		t.Fatalf("expected ILS currency, got: %s", invoice.Currency)
	}

	var customer models.Customer
	if err := env.db.First(&customer, 1).Error; err != nil {
		t.Fatalf("load customer failed: %v", err)
	}
	if customer.PointsBalance != 10 {
		t.Fatalf("expected balance 10, got: %d", customer.PointsBalance)
	}

	var txn models.PointsTransaction
	if err := env.db.Where("customer_id = ?", 1).First(&txn).Error; err != nil {
		t.Fatalf("load points transaction failed: %v", err)
	}
	if txn.Type != constants.PointsTxnTypeEarn || txn.Points != 10 {
		t.Fatalf("unexpected transaction: %+v", txn)
	}
	if txn.InvoiceID == nil || *txn.InvoiceID != invoice.ID {
		t.Fatalf("expected transaction linked to invoice %d", invoice.ID)
	}
}

func TestRedemptionServiceSecondRedeemFails(t *testing.T) {
	env := setupRedemptionServiceTest(t)
	seedCardCustomer(t, env.db, 1)
	seedCardStore(t, env.db, 1)
	token := env.issueToken(t)

	clerk := authz.Principal{Role: constants.RoleStore, UserID: 7, StoreID: 1}
	input := RedeemInput{Principal: clerk, Token: token, Subtotal: money(t, "100")}
	if _, err := env.redemptionSvc.Redeem(input); err != nil {
		t.Fatalf("first redeem failed: %v", err)
	}
	if _, err := env.redemptionSvc.Redeem(input); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid on replay, got: %v", err)
	}

	var invoiceCount int64
	if err := env.db.Model(&models.Invoice{}).Count(&invoiceCount).Error; err != nil {
		t.Fatalf("count invoices failed: %v", err)
	}
	if invoiceCount != 1 {
		t.Fatalf("expected exactly one invoice, got: %d", invoiceCount)
	}
}

func TestRedemptionServiceConcurrentDoubleScan(t *testing.T) {
	env := setupRedemptionServiceTest(t)
	seedCardCustomer(t, env.db, 1)
	seedCardStore(t, env.db, 1)
	token := env.issueToken(t)

	// 单连接串行化写入，避免 sqlite 并发写锁干扰裁决本身
	sqlDB, err := env.db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	clerk := authz.Principal{Role: constants.RoleStore, UserID: 7, StoreID: 1}
	input := RedeemInput{Principal: clerk, Token: token, Subtotal: money(t, "1000")}

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.redemptionSvc.Redeem(input)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes, invalids int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrTokenInvalid):
			invalids++
		default:
			t.Fatalf("unexpected redeem error: %v", err)
		}
	}
	if successes != 1 || invalids != 1 {
		t.Fatalf("expected exactly one success and one invalid, got success=%d invalid=%d", successes, invalids)
	}

	var invoiceCount int64
	if err := env.db.Model(&models.Invoice{}).Count(&invoiceCount).Error; err != nil {
		t.Fatalf("count invoices failed: %v", err)
	}
	if invoiceCount != 1 {
		t.Fatalf("expected exactly one invoice, got: %d", invoiceCount)
	}
	var customer models.Customer
	if err := env.db.First(&customer, 1).Error; err != nil {
		t.Fatalf("load customer failed: %v", err)
	}
	if customer.PointsBalance != 10 {
		t.Fatalf("expected points credited once, got: %d", customer.PointsBalance)
	}
}

func TestRedemptionServiceRejectsForeignStore(t *testing.T) {
	env := setupRedemptionServiceTest(t)
	seedCardCustomer(t, env.db, 1)
	seedCardStore(t, env.db, 1)
	seedCardStore(t, env.db, 2)
	token := env.issueToken(t)

	otherClerk := authz.Principal{Role: constants.RoleStore, UserID: 8, StoreID: 2}
	_, err := env.redemptionSvc.Redeem(RedeemInput{
		Principal: otherClerk,
		Token:     token,
		Subtotal:  money(t, "100"),
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got: %v", err)
	}

	// 越权尝试不得消耗令牌
	var record models.CardToken
	if err := env.db.Where("token = ?", token).First(&record).Error; err != nil {
		t.Fatalf("load token failed: %v", err)
	}
	if record.UsedAt != nil {
		t.Fatalf("expected token untouched after forbidden attempt")
	}
}

func TestRedemptionServiceRejectsExpiredToken(t *testing.T) {
	env := setupRedemptionServiceTest(t)
	seedCardCustomer(t, env.db, 1)
	seedCardStore(t, env.db, 1)
	token := env.issueToken(t)

	past := time.Now().Add(-time.Second)
	if err := env.db.Model(&models.CardToken{}).Where("token = ?", token).Update("expires_at", past).Error; err != nil {
		t.Fatalf("backdate token failed: %v", err)
	}

	clerk := authz.Principal{Role: constants.RoleStore, UserID: 7, StoreID: 1}
	_, err := env.redemptionSvc.Redeem(RedeemInput{
		Principal: clerk,
		Token:     token,
		Subtotal:  money(t, "100"),
	})
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for expired token, got: %v", err)
	}
}

func TestRedemptionServiceRejectsUnknownToken(t *testing.T) {
	env := setupRedemptionServiceTest(t)
	seedCardCustomer(t, env.db, 1)
	seedCardStore(t, env.db, 1)

	clerk := authz.Principal{Role: constants.RoleStore, UserID: 7, StoreID: 1}
	_, err := env.redemptionSvc.Redeem(RedeemInput{
		Principal: clerk,
		Token:     "OTP_deadbeef",
		Subtotal:  money(t, "100"),
	})
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got: %v", err)
	}
}

func TestRedemptionServicePreviewRoundsAndKeepsToken(t *testing.T) {
	env := setupRedemptionServiceTest(t)
	seedCardCustomer(t, env.db, 1)
	seedCardStore(t, env.db, 1)
	token := env.issueToken(t)

	clerk := authz.Principal{Role: constants.RoleStore, UserID: 7, StoreID: 1}
	result, err := env.redemptionSvc.Preview(RedeemInput{
		Principal: clerk,
		Token:     token,
		Subtotal:  money(t, "99.99"),
	})
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	// 99.99 * 10% = 9.999 → 预览展示 10.00
	if !result.DiscountAmount.Decimal.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected rounded discount 10.00, got: %s", result.DiscountAmount)
	}

	var record models.CardToken
	if err := env.db.Where("token = ?", token).First(&record).Error; err != nil {
		t.Fatalf("load token failed: %v", err)
	}
	if record.UsedAt != nil {
		t.Fatalf("preview must not consume the token")
	}
}
