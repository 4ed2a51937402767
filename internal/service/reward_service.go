package service

import (
	"strings"
	"time"

	"github.com/walaa-next/internal/models"
	"github.com/walaa-next/internal/repository"

	"github.com/shopspring/decimal"
)

// RewardService 兑换目录服务
type RewardService struct {
	repo      repository.RewardRepository
	storeRepo repository.StoreRepository
}

// CreateRewardInput 创建兑换目录项输入
type CreateRewardInput struct {
	NameAr      string
	NameEn      string
	Type        string
	PointsCost  int64
	ValueAmount models.Money
	Currency    string
	ExpiryDays  int
	StoreID     *uint
	IsActive    bool
}

// UpdateRewardInput 更新兑换目录项输入
type UpdateRewardInput struct {
	NameAr      *string
	NameEn      *string
	PointsCost  *int64
	ValueAmount *models.Money
	ExpiryDays  *int
	IsActive    *bool
}

// RewardListInput 兑换目录列表输入
type RewardListInput struct {
	Page            int
	PageSize        int
	Keyword         string
	Type            string
	StoreID         *uint
	OnlyActive      bool
	OnlyVisible     bool
	VisibleStoreIDs []uint
}

// NewRewardService 创建兑换目录服务
func NewRewardService(repo repository.RewardRepository, storeRepo repository.StoreRepository) *RewardService {
	return &RewardService{repo: repo, storeRepo: storeRepo}
}

// CreateReward 创建兑换目录项
func (s *RewardService) CreateReward(input CreateRewardInput) (*models.RewardItem, error) {
	if s == nil || s.repo == nil {
		return nil, ErrRewardCreateFailed
	}
	nameAr := strings.TrimSpace(input.NameAr)
	if nameAr == "" {
		return nil, ErrRewardInvalid
	}
	if input.PointsCost <= 0 {
		return nil, ErrRewardInvalid
	}
	if input.ValueAmount.Decimal.LessThanOrEqual(decimal.Zero) {
		return nil, ErrRewardInvalid
	}
	if input.StoreID != nil && *input.StoreID > 0 {
		store, err := s.storeRepo.GetByID(*input.StoreID)
		if err != nil {
			return nil, ErrStoreFetchFailed
		}
		if store == nil {
			return nil, ErrStoreNotFound
		}
	}

	expiryDays := input.ExpiryDays
	if expiryDays <= 0 {
		expiryDays = 7
	}
	now := time.Now()
	reward := &models.RewardItem{
		NameAr:      nameAr,
		NameEn:      strings.TrimSpace(input.NameEn),
		Type:        strings.TrimSpace(strings.ToLower(input.Type)),
		PointsCost:  input.PointsCost,
		ValueAmount: input.ValueAmount,
		Currency:    strings.TrimSpace(strings.ToUpper(input.Currency)),
		ExpiryDays:  expiryDays,
		StoreID:     input.StoreID,
		IsActive:    input.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(reward); err != nil {
		return nil, ErrRewardCreateFailed
	}
	return reward, nil
}

// GetReward 查询兑换目录项
func (s *RewardService) GetReward(id uint) (*models.RewardItem, error) {
	if s == nil || s.repo == nil {
		return nil, ErrRewardFetchFailed
	}
	reward, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrRewardFetchFailed
	}
	if reward == nil {
		return nil, ErrRewardNotFound
	}
	return reward, nil
}

// ListRewards 查询兑换目录列表
func (s *RewardService) ListRewards(input RewardListInput) ([]models.RewardItem, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrRewardFetchFailed
	}
	rewards, total, err := s.repo.List(repository.RewardListFilter{
		Page:            input.Page,
		PageSize:        input.PageSize,
		Keyword:         strings.TrimSpace(input.Keyword),
		Type:            strings.TrimSpace(strings.ToLower(input.Type)),
		StoreID:         input.StoreID,
		OnlyActive:      input.OnlyActive,
		OnlyVisible:     input.OnlyVisible,
		VisibleStoreIDs: input.VisibleStoreIDs,
	})
	if err != nil {
		return nil, 0, ErrRewardFetchFailed
	}
	return rewards, total, nil
}

// UpdateReward 更新兑换目录项
func (s *RewardService) UpdateReward(id uint, input UpdateRewardInput) (*models.RewardItem, error) {
	if s == nil || s.repo == nil || id == 0 {
		return nil, ErrRewardInvalid
	}
	reward, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrRewardFetchFailed
	}
	if reward == nil {
		return nil, ErrRewardNotFound
	}

	if input.NameAr != nil {
		nameAr := strings.TrimSpace(*input.NameAr)
		if nameAr == "" {
			return nil, ErrRewardInvalid
		}
		reward.NameAr = nameAr
	}
	if input.NameEn != nil {
		reward.NameEn = strings.TrimSpace(*input.NameEn)
	}
	if input.PointsCost != nil {
		if *input.PointsCost <= 0 {
			return nil, ErrRewardInvalid
		}
		reward.PointsCost = *input.PointsCost
	}
	if input.ValueAmount != nil {
		if input.ValueAmount.Decimal.LessThanOrEqual(decimal.Zero) {
			return nil, ErrRewardInvalid
		}
		reward.ValueAmount = *input.ValueAmount
	}
	if input.ExpiryDays != nil {
		if *input.ExpiryDays <= 0 {
			return nil, ErrRewardInvalid
		}
		reward.ExpiryDays = *input.ExpiryDays
	}
	if input.IsActive != nil {
		reward.IsActive = *input.IsActive
	}
	reward.UpdatedAt = time.Now()
	if err := s.repo.Update(reward); err != nil {
		return nil, ErrRewardUpdateFailed
	}
	return reward, nil
}

// DeleteReward 删除兑换目录项
func (s *RewardService) DeleteReward(id uint) error {
	if s == nil || s.repo == nil || id == 0 {
		return ErrRewardInvalid
	}
	reward, err := s.repo.GetByID(id)
	if err != nil {
		return ErrRewardFetchFailed
	}
	if reward == nil {
		return ErrRewardNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return ErrRewardDeleteFailed
	}
	return nil
}
