package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/walaa-next/internal/models"
	"github.com/walaa-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRewardServiceTest(t *testing.T) (*RewardService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:reward_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Store{}, &models.RewardItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewRewardService(repository.NewRewardRepository(db), repository.NewStoreRepository(db))
	return svc, db
}

func TestRewardServiceListVisibleScope(t *testing.T) {
	svc, db := setupRewardServiceTest(t)
	storeA := uint(1)
	storeB := uint(2)
	seedScopedReward(t, db, 1, 100, true, nil)
	seedScopedReward(t, db, 2, 200, true, &storeA)
	seedScopedReward(t, db, 3, 300, true, &storeB)

	// 持 A 店卡：全平台项加 A 店限定项
	rewards, total, err := svc.ListRewards(RewardListInput{
		Page:            1,
		PageSize:        20,
		OnlyActive:      true,
		OnlyVisible:     true,
		VisibleStoreIDs: []uint{storeA},
	})
	if err != nil {
		t.Fatalf("list rewards failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 visible rewards, got: %d", total)
	}
	for _, reward := range rewards {
		if reward.StoreID != nil && *reward.StoreID != storeA {
			t.Fatalf("unexpected reward in scope: %+v", reward)
		}
	}

	// 无任何有效卡：仅全平台项
	_, total, err = svc.ListRewards(RewardListInput{
		Page:        1,
		PageSize:    20,
		OnlyActive:  true,
		OnlyVisible: true,
	})
	if err != nil {
		t.Fatalf("list rewards failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected only the platform reward, got: %d", total)
	}
}
