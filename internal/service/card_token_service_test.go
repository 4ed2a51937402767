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
	"gorm.io/gorm"
)

func setupCardTokenServiceTest(t *testing.T) (*CardTokenService, *CardService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:card_token_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Store{},
		&models.Card{},
		&models.CardToken{},
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
	return tokenSvc, cardSvc, db
}

func TestCardTokenServiceIssueTokenForCustomer(t *testing.T) {
	tokenSvc, cardSvc, _ := setupCardTokenServiceTest(t)
	db := models.DB
	seedCardCustomer(t, db, 1)
	seedCardStore(t, db, 1)

	card, _, err := cardSvc.GetOrCreateCard(1, 1)
	if err != nil {
		t.Fatalf("issue card failed: %v", err)
	}

	customer := authz.Principal{Role: constants.RoleCustomer, CustomerID: 1}
	issued, err := tokenSvc.IssueToken(IssueTokenInput{Principal: customer, CardID: card.ID})
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	if !strings.HasPrefix(issued.Token, constants.TokenPrefixOTP+"_") {
		t.Fatalf("unexpected token format: %s", issued.Token)
	}
	if issued.Source != constants.TokenSourceCustomer {
		t.Fatalf("expected customer source, got: %s", issued.Source)
	}
	// 客户端 OTP 有效期应为 2 分钟档
	ttl := time.Until(issued.ExpiresAt)
	if ttl > 2*time.Minute || ttl < time.Minute {
		t.Fatalf("unexpected customer token ttl: %v", ttl)
	}
}

func TestCardTokenServiceIssueTokenForStoreUsesStoreTTL(t *testing.T) {
	tokenSvc, cardSvc, _ := setupCardTokenServiceTest(t)
	db := models.DB
	seedCardCustomer(t, db, 1)
	seedCardStore(t, db, 1)

	card, _, err := cardSvc.GetOrCreateCard(1, 1)
	if err != nil {
		t.Fatalf("issue card failed: %v", err)
	}

	clerk := authz.Principal{Role: constants.RoleStore, UserID: 9, StoreID: 1}
	issued, err := tokenSvc.IssueToken(IssueTokenInput{Principal: clerk, CardID: card.ID, StoreID: 1})
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	if issued.Source != constants.TokenSourceStore {
		t.Fatalf("expected store source, got: %s", issued.Source)
	}
	ttl := time.Until(issued.ExpiresAt)
	if ttl > 5*time.Minute || ttl < 4*time.Minute {
		t.Fatalf("unexpected store token ttl: %v", ttl)
	}
}

func TestCardTokenServiceIssueTokenInvalidatesPrevious(t *testing.T) {
	tokenSvc, cardSvc, db := setupCardTokenServiceTest(t)
	seedCardCustomer(t, db, 1)
	seedCardStore(t, db, 1)

	card, _, err := cardSvc.GetOrCreateCard(1, 1)
	if err != nil {
		t.Fatalf("issue card failed: %v", err)
	}

	customer := authz.Principal{Role: constants.RoleCustomer, CustomerID: 1}
	first, err := tokenSvc.IssueToken(IssueTokenInput{Principal: customer, CardID: card.ID})
	if err != nil {
		t.Fatalf("first token failed: %v", err)
	}
	second, err := tokenSvc.IssueToken(IssueTokenInput{Principal: customer, CardID: card.ID})
	if err != nil {
		t.Fatalf("second token failed: %v", err)
	}
	if first.Token == second.Token {
		t.Fatalf("expected distinct tokens")
	}

	var old models.CardToken
	if err := db.Where("token = ?", first.Token).First(&old).Error; err != nil {
		t.Fatalf("load first token failed: %v", err)
	}
	if old.UsedAt == nil {
		t.Fatalf("expected first token to be invalidated")
	}

	active, err := tokenSvc.GetActiveToken(customer, card.ID)
	if err != nil {
		t.Fatalf("get active token failed: %v", err)
	}
	if active == nil || active.Token != second.Token {
		t.Fatalf("expected second token to be the active one")
	}
}

func TestCardTokenServiceIssueTokenRejectsBlockedCard(t *testing.T) {
	tokenSvc, cardSvc, db := setupCardTokenServiceTest(t)
	seedCardCustomer(t, db, 1)
	seedCardStore(t, db, 1)

	card, _, err := cardSvc.GetOrCreateCard(1, 1)
	if err != nil {
		t.Fatalf("issue card failed: %v", err)
	}
	if _, err := cardSvc.SetStatus(card.ID, constants.CardStatusBlocked); err != nil {
		t.Fatalf("block card failed: %v", err)
	}

	customer := authz.Principal{Role: constants.RoleCustomer, CustomerID: 1}
	if _, err := tokenSvc.IssueToken(IssueTokenInput{Principal: customer, CardID: card.ID}); !errors.Is(err, ErrCardInactive) {
		t.Fatalf("expected ErrCardInactive, got: %v", err)
	}
}

func TestCardTokenServiceIssueTokenRejectsExpiredCard(t *testing.T) {
	tokenSvc, cardSvc, db := setupCardTokenServiceTest(t)
	seedCardCustomer(t, db, 1)
	seedCardStore(t, db, 1)

	card, _, err := cardSvc.GetOrCreateCard(1, 1)
	if err != nil {
		t.Fatalf("issue card failed: %v", err)
	}
	past := time.Now().Add(-time.Minute)
	if err := db.Model(&models.Card{}).Where("id = ?", card.ID).Update("expires_at", past).Error; err != nil {
		t.Fatalf("backdate expiry failed: %v", err)
	}

	customer := authz.Principal{Role: constants.RoleCustomer, CustomerID: 1}
	if _, err := tokenSvc.IssueToken(IssueTokenInput{Principal: customer, CardID: card.ID}); !errors.Is(err, ErrCardExpired) {
		t.Fatalf("expected ErrCardExpired, got: %v", err)
	}
}

func TestCardTokenServiceCustomerSelfServiceByStore(t *testing.T) {
	tokenSvc, _, db := setupCardTokenServiceTest(t)
	seedCardCustomer(t, db, 1)
	seedCardStore(t, db, 1)

	// 不传 CardID，按 StoreID 自助领卡并签发令牌
	customer := authz.Principal{Role: constants.RoleCustomer, CustomerID: 1}
	issued, err := tokenSvc.IssueToken(IssueTokenInput{Principal: customer, StoreID: 1})
	if err != nil {
		t.Fatalf("self-service token failed: %v", err)
	}
	if issued.Card == nil || issued.Card.StoreID != 1 {
		t.Fatalf("expected card bound to store 1, got: %+v", issued.Card)
	}
}
