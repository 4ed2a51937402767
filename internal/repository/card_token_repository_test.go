package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/walaa-next/internal/constants"
	"github.com/walaa-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCardTokenRepoTest(t *testing.T) (*GormCardTokenRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:card_token_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Card{}, &models.CardToken{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewCardTokenRepository(db), db
}

func seedToken(t *testing.T, repo *GormCardTokenRepository, cardID uint, token string, expiresAt time.Time) {
	t.Helper()
	record := models.CardToken{
		CardID:    cardID,
		Token:     token,
		Source:    constants.TokenSourceCustomer,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := repo.Create(&record); err != nil {
		t.Fatalf("create token failed: %v", err)
	}
}

func TestCardTokenRepositoryMarkUsedOnce(t *testing.T) {
	repo, _ := setupCardTokenRepoTest(t)
	future := time.Now().Add(2 * time.Minute)
	seedToken(t, repo, 1, "OTP_aaaa", future)

	now := time.Now()
	rows, err := repo.MarkUsed("OTP_aaaa", now)
	if err != nil {
		t.Fatalf("mark used failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row affected, got: %d", rows)
	}

	// 第二次核销必须影响 0 行
	rows, err = repo.MarkUsed("OTP_aaaa", time.Now())
	if err != nil {
		t.Fatalf("mark used failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 rows on replay, got: %d", rows)
	}
}

func TestCardTokenRepositoryMarkUsedExpired(t *testing.T) {
	repo, _ := setupCardTokenRepoTest(t)
	seedToken(t, repo, 1, "OTP_bbbb", time.Now().Add(-time.Second))

	rows, err := repo.MarkUsed("OTP_bbbb", time.Now())
	if err != nil {
		t.Fatalf("mark used failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 rows for expired token, got: %d", rows)
	}
}

func TestCardTokenRepositoryMarkUsedUnknownOrEmpty(t *testing.T) {
	repo, _ := setupCardTokenRepoTest(t)

	rows, err := repo.MarkUsed("OTP_missing", time.Now())
	if err != nil || rows != 0 {
		t.Fatalf("expected 0 rows for unknown token, got rows=%d err=%v", rows, err)
	}
	rows, err = repo.MarkUsed("  ", time.Now())
	if err != nil || rows != 0 {
		t.Fatalf("expected 0 rows for empty token, got rows=%d err=%v", rows, err)
	}
}

func TestCardTokenRepositoryInvalidateActiveForCard(t *testing.T) {
	repo, _ := setupCardTokenRepoTest(t)
	future := time.Now().Add(2 * time.Minute)
	seedToken(t, repo, 1, "OTP_one", future)
	seedToken(t, repo, 1, "OTP_two", future)
	seedToken(t, repo, 1, "OTP_old", time.Now().Add(-time.Minute))
	seedToken(t, repo, 2, "OTP_other", future)

	rows, err := repo.InvalidateActiveForCard(1, time.Now())
	if err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}
	if rows != 2 {
		t.Fatalf("expected 2 tokens invalidated, got: %d", rows)
	}

	active, err := repo.GetActiveByCard(1, time.Now())
	if err != nil {
		t.Fatalf("get active failed: %v", err)
	}
	if active != nil {
		t.Fatalf("expected no active token, got: %+v", active)
	}

	// 其他卡的令牌不受影响
	other, err := repo.GetActiveByCard(2, time.Now())
	if err != nil {
		t.Fatalf("get active failed: %v", err)
	}
	if other == nil || other.Token != "OTP_other" {
		t.Fatalf("expected other card token untouched, got: %+v", other)
	}
}

func TestCardTokenRepositoryGetActiveByCardPicksLatest(t *testing.T) {
	repo, _ := setupCardTokenRepoTest(t)
	future := time.Now().Add(2 * time.Minute)
	seedToken(t, repo, 1, "OTP_first", future)
	seedToken(t, repo, 1, "OTP_second", future)

	active, err := repo.GetActiveByCard(1, time.Now())
	if err != nil {
		t.Fatalf("get active failed: %v", err)
	}
	if active == nil || active.Token != "OTP_second" {
		t.Fatalf("expected latest token, got: %+v", active)
	}
}
