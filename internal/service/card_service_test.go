package service

import (
	"errors"
	"fmt"
	"strings"
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

func setupCardServiceTest(t *testing.T) (*CardService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:card_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Store{},
		&models.Card{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewCardService(
		repository.NewCardRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewStoreRepository(db),
		3*time.Minute,
	)
	return svc, db
}

func seedCardCustomer(t *testing.T, db *gorm.DB, id uint) {
	t.Helper()
	customer := models.Customer{
		ID:                     id,
		NameAr:                 fmt.Sprintf("عميل %d", id),
		Phone:                  fmt.Sprintf("+97259%07d", id),
		PasswordHash:           "hash",
		DefaultDiscountPercent: models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
		Status:                 constants.UserStatusActive,
		CreatedAt:              time.Now(),
		UpdatedAt:              time.Now(),
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
}

func seedCardStore(t *testing.T, db *gorm.DB, id uint) {
	t.Helper()
	store := models.Store{
		ID:                 id,
		NameAr:             fmt.Sprintf("محل %d", id),
		MaxDiscountPercent: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		CommissionPercent:  models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		IsActive:           true,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
	if err := db.Create(&store).Error; err != nil {
		t.Fatalf("create store failed: %v", err)
	}
}

func TestCardServiceGetOrCreateCardIssuesNewCard(t *testing.T) {
	svc, db := setupCardServiceTest(t)
	seedCardCustomer(t, db, 1)
	seedCardStore(t, db, 1)

	card, created, err := svc.GetOrCreateCard(1, 1)
	if err != nil {
		t.Fatalf("get or create card failed: %v", err)
	}
	if !created {
		t.Fatalf("expected a new card to be issued")
	}
	if card.Status != constants.CardStatusActive {
		t.Fatalf("expected active status, got: %s", card.Status)
	}
	if !strings.HasPrefix(card.CardNumber, constants.TokenPrefixCard+"_") {
		t.Fatalf("unexpected card number format: %s", card.CardNumber)
	}
	if !strings.HasPrefix(card.QRToken, constants.TokenPrefixQR+"_") {
		t.Fatalf("unexpected qr token format: %s", card.QRToken)
	}
	if card.ExpiresAt == nil || !card.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got: %v", card.ExpiresAt)
	}
}

func TestCardServiceGetOrCreateCardReusesActiveCard(t *testing.T) {
	svc, db := setupCardServiceTest(t)
	seedCardCustomer(t, db, 1)
	seedCardStore(t, db, 1)

	first, _, err := svc.GetOrCreateCard(1, 1)
	if err != nil {
		t.Fatalf("first issue failed: %v", err)
	}
	second, created, err := svc.GetOrCreateCard(1, 1)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if created {
		t.Fatalf("expected existing card to be reused")
	}
	if second.ID != first.ID {
		t.Fatalf("expected same card, got %d and %d", first.ID, second.ID)
	}
}

func TestCardServiceGetOrCreateCardReplacesExpiredCard(t *testing.T) {
	svc, db := setupCardServiceTest(t)
	seedCardCustomer(t, db, 1)
	seedCardStore(t, db, 1)

	first, _, err := svc.GetOrCreateCard(1, 1)
	if err != nil {
		t.Fatalf("first issue failed: %v", err)
	}

	past := time.Now().Add(-time.Minute)
	if err := db.Model(&models.Card{}).Where("id = ?", first.ID).Update("expires_at", past).Error; err != nil {
		t.Fatalf("backdate expiry failed: %v", err)
	}

	second, created, err := svc.GetOrCreateCard(1, 1)
	if err != nil {
		t.Fatalf("reissue failed: %v", err)
	}
	if !created {
		t.Fatalf("expected a fresh card after expiry")
	}
	if second.ID == first.ID {
		t.Fatalf("expected a different card id")
	}

	var old models.Card
	if err := db.First(&old, first.ID).Error; err != nil {
		t.Fatalf("load old card failed: %v", err)
	}
	if old.Status != constants.CardStatusExpired {
		t.Fatalf("expected old card marked expired, got: %s", old.Status)
	}
}

func TestCardServiceGetOrCreateCardRejectsInactiveStore(t *testing.T) {
	svc, db := setupCardServiceTest(t)
	seedCardCustomer(t, db, 1)
	seedCardStore(t, db, 1)
	if err := db.Model(&models.Store{}).Where("id = ?", 1).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate store failed: %v", err)
	}

	_, _, err := svc.GetOrCreateCard(1, 1)
	if !errors.Is(err, ErrStoreInactive) {
		t.Fatalf("expected ErrStoreInactive, got: %v", err)
	}
}

func TestCardServiceGetCardLazilyExpires(t *testing.T) {
	svc, db := setupCardServiceTest(t)
	seedCardCustomer(t, db, 1)
	seedCardStore(t, db, 1)

	card, _, err := svc.GetOrCreateCard(1, 1)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	past := time.Now().Add(-time.Minute)
	if err := db.Model(&models.Card{}).Where("id = ?", card.ID).Update("expires_at", past).Error; err != nil {
		t.Fatalf("backdate expiry failed: %v", err)
	}

	admin := authz.Principal{Role: constants.RoleAdmin, UserID: 1}
	got, err := svc.GetCard(admin, card.ID)
	if err != nil {
		t.Fatalf("get card failed: %v", err)
	}
	if got.Status != constants.CardStatusExpired {
		t.Fatalf("expected expired status, got: %s", got.Status)
	}

	var stored models.Card
	if err := db.First(&stored, card.ID).Error; err != nil {
		t.Fatalf("load card failed: %v", err)
	}
	if stored.Status != constants.CardStatusExpired {
		t.Fatalf("expected persisted expired status, got: %s", stored.Status)
	}
}

func TestCardServiceGetCardEnforcesAccess(t *testing.T) {
	svc, db := setupCardServiceTest(t)
	seedCardCustomer(t, db, 1)
	seedCardStore(t, db, 1)

	card, _, err := svc.GetOrCreateCard(1, 1)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	otherCustomer := authz.Principal{Role: constants.RoleCustomer, CustomerID: 99}
	if _, err := svc.GetCard(otherCustomer, card.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign customer, got: %v", err)
	}

	otherStore := authz.Principal{Role: constants.RoleStore, UserID: 5, StoreID: 42}
	if _, err := svc.GetCard(otherStore, card.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign store, got: %v", err)
	}

	owner := authz.Principal{Role: constants.RoleCustomer, CustomerID: 1}
	if _, err := svc.GetCard(owner, card.ID); err != nil {
		t.Fatalf("expected owner access, got: %v", err)
	}
}

func TestCardServiceSetStatusBlockAndReactivate(t *testing.T) {
	svc, db := setupCardServiceTest(t)
	seedCardCustomer(t, db, 1)
	seedCardStore(t, db, 1)

	card, _, err := svc.GetOrCreateCard(1, 1)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	blocked, err := svc.SetStatus(card.ID, constants.CardStatusBlocked)
	if err != nil {
		t.Fatalf("block failed: %v", err)
	}
	if blocked.Status != constants.CardStatusBlocked {
		t.Fatalf("expected blocked status, got: %s", blocked.Status)
	}

	reactivated, err := svc.SetStatus(card.ID, constants.CardStatusActive)
	if err != nil {
		t.Fatalf("reactivate failed: %v", err)
	}
	if reactivated.Status != constants.CardStatusActive {
		t.Fatalf("expected active status, got: %s", reactivated.Status)
	}
	if reactivated.ExpiresAt == nil || !reactivated.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected refreshed expiry window, got: %v", reactivated.ExpiresAt)
	}

	if _, err := svc.SetStatus(card.ID, "frozen"); !errors.Is(err, ErrCardInvalid) {
		t.Fatalf("expected ErrCardInvalid for unknown status, got: %v", err)
	}
}
