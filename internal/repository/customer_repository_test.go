package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/walaa-next/internal/constants"
	"github.com/walaa-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCustomerRepoTest(t *testing.T) (*GormCustomerRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:customer_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Customer{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewCustomerRepository(db), db
}

func seedCustomerWithBalance(t *testing.T, db *gorm.DB, id uint, balance int64) {
	t.Helper()
	customer := models.Customer{
		ID:                     id,
		NameAr:                 fmt.Sprintf("عميل %d", id),
		Phone:                  fmt.Sprintf("+97258%07d", id),
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

func customerBalance(t *testing.T, db *gorm.DB, id uint) int64 {
	t.Helper()
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		t.Fatalf("load customer failed: %v", err)
	}
	return customer.PointsBalance
}

func TestCustomerRepositoryIncrementPoints(t *testing.T) {
	repo, db := setupCustomerRepoTest(t)
	seedCustomerWithBalance(t, db, 1, 5)

	rows, err := repo.IncrementPoints(1, 10)
	if err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row affected, got: %d", rows)
	}
	if got := customerBalance(t, db, 1); got != 15 {
		t.Fatalf("expected balance 15, got: %d", got)
	}

	rows, err = repo.IncrementPoints(99, 10)
	if err != nil || rows != 0 {
		t.Fatalf("expected 0 rows for unknown customer, got rows=%d err=%v", rows, err)
	}
	rows, err = repo.IncrementPoints(1, 0)
	if err != nil || rows != 0 {
		t.Fatalf("expected 0 rows for zero delta, got rows=%d err=%v", rows, err)
	}
}

func TestCustomerRepositoryDecrementPointsIfEnough(t *testing.T) {
	repo, db := setupCustomerRepoTest(t)
	seedCustomerWithBalance(t, db, 1, 100)

	rows, err := repo.DecrementPointsIfEnough(1, 60)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row affected, got: %d", rows)
	}
	if got := customerBalance(t, db, 1); got != 40 {
		t.Fatalf("expected balance 40, got: %d", got)
	}

	// 余额不足时影响 0 行且余额不变
	rows, err = repo.DecrementPointsIfEnough(1, 60)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 rows when insufficient, got: %d", rows)
	}
	if got := customerBalance(t, db, 1); got != 40 {
		t.Fatalf("expected balance unchanged, got: %d", got)
	}

	// 恰好等额可扣到零
	rows, err = repo.DecrementPointsIfEnough(1, 40)
	if err != nil || rows != 1 {
		t.Fatalf("expected exact-balance decrement, got rows=%d err=%v", rows, err)
	}
	if got := customerBalance(t, db, 1); got != 0 {
		t.Fatalf("expected balance 0, got: %d", got)
	}

	rows, err = repo.DecrementPointsIfEnough(1, 0)
	if err != nil || rows != 0 {
		t.Fatalf("expected 0 rows for non-positive cost, got rows=%d err=%v", rows, err)
	}
}
