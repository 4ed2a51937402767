package service

import (
	"strings"
	"time"

	"github.com/walaa-next/internal/constants"
	"github.com/walaa-next/internal/models"
	"github.com/walaa-next/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// StoreService 商户管理服务
type StoreService struct {
	repo     repository.StoreRepository
	userRepo repository.UserRepository
}

// CreateStoreInput 创建商户输入
// LoginEmail 非空时同时创建商户登录账号。
type CreateStoreInput struct {
	NameAr             string
	NameEn             string
	Phone              string
	City               string
	MaxDiscountPercent models.Money
	CommissionPercent  models.Money
	LoginEmail         string
	LoginPassword      string
}

// UpdateStoreInput 更新商户输入
type UpdateStoreInput struct {
	NameAr             *string
	NameEn             *string
	Phone              *string
	City               *string
	MaxDiscountPercent *models.Money
	CommissionPercent  *models.Money
	IsActive           *bool
}

// StoreListInput 商户列表输入
type StoreListInput struct {
	Page       int
	PageSize   int
	Keyword    string
	City       string
	OnlyActive bool
}

// NewStoreService 创建商户管理服务
func NewStoreService(repo repository.StoreRepository, userRepo repository.UserRepository) *StoreService {
	return &StoreService{repo: repo, userRepo: userRepo}
}

// CreateStore 创建商户（可同时开通登录账号）
func (s *StoreService) CreateStore(input CreateStoreInput) (*models.Store, error) {
	if s == nil || s.repo == nil {
		return nil, ErrStoreCreateFailed
	}
	nameAr := strings.TrimSpace(input.NameAr)
	if nameAr == "" {
		return nil, ErrStoreInvalid
	}
	if err := validatePercent(input.MaxDiscountPercent); err != nil {
		return nil, ErrStoreInvalid
	}
	if err := validatePercent(input.CommissionPercent); err != nil {
		return nil, ErrStoreInvalid
	}

	loginEmail := strings.ToLower(strings.TrimSpace(input.LoginEmail))
	if loginEmail != "" {
		existing, err := s.userRepo.GetByEmail(loginEmail)
		if err != nil {
			return nil, ErrStoreCreateFailed
		}
		if existing != nil {
			return nil, ErrStoreInvalid
		}
		if len(strings.TrimSpace(input.LoginPassword)) < 8 {
			return nil, ErrStoreInvalid
		}
	}

	now := time.Now()
	store := &models.Store{
		NameAr:             nameAr,
		NameEn:             strings.TrimSpace(input.NameEn),
		Phone:              strings.TrimSpace(input.Phone),
		City:               strings.TrimSpace(input.City),
		MaxDiscountPercent: input.MaxDiscountPercent,
		CommissionPercent:  input.CommissionPercent,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(store); err != nil {
			return ErrStoreCreateFailed
		}
		if loginEmail == "" {
			return nil
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.LoginPassword), bcrypt.DefaultCost)
		if err != nil {
			return ErrStoreCreateFailed
		}
		user := &models.User{
			Email:        loginEmail,
			PasswordHash: string(hash),
			DisplayName:  store.DisplayName(),
			Role:         constants.RoleStore,
			StoreID:      &store.ID,
			Status:       constants.UserStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.userRepo.WithTx(tx).Create(user); err != nil {
			return ErrStoreCreateFailed
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return store, nil
}

// GetStore 查询商户
func (s *StoreService) GetStore(id uint) (*models.Store, error) {
	if s == nil || s.repo == nil {
		return nil, ErrStoreFetchFailed
	}
	store, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrStoreFetchFailed
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

// ListStores 查询商户列表
func (s *StoreService) ListStores(input StoreListInput) ([]models.Store, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrStoreFetchFailed
	}
	stores, total, err := s.repo.List(repository.StoreListFilter{
		Page:       input.Page,
		PageSize:   input.PageSize,
		Keyword:    strings.TrimSpace(input.Keyword),
		City:       strings.TrimSpace(input.City),
		OnlyActive: input.OnlyActive,
	})
	if err != nil {
		return nil, 0, ErrStoreFetchFailed
	}
	return stores, total, nil
}

// UpdateStore 更新商户
func (s *StoreService) UpdateStore(id uint, input UpdateStoreInput) (*models.Store, error) {
	if s == nil || s.repo == nil || id == 0 {
		return nil, ErrStoreInvalid
	}
	store, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrStoreFetchFailed
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}

	if input.NameAr != nil {
		nameAr := strings.TrimSpace(*input.NameAr)
		if nameAr == "" {
			return nil, ErrStoreInvalid
		}
		store.NameAr = nameAr
	}
	if input.NameEn != nil {
		store.NameEn = strings.TrimSpace(*input.NameEn)
	}
	if input.Phone != nil {
		store.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.City != nil {
		store.City = strings.TrimSpace(*input.City)
	}
	if input.MaxDiscountPercent != nil {
		if err := validatePercent(*input.MaxDiscountPercent); err != nil {
			return nil, ErrStoreInvalid
		}
		store.MaxDiscountPercent = *input.MaxDiscountPercent
	}
	if input.CommissionPercent != nil {
		if err := validatePercent(*input.CommissionPercent); err != nil {
			return nil, ErrStoreInvalid
		}
		store.CommissionPercent = *input.CommissionPercent
	}
	if input.IsActive != nil {
		store.IsActive = *input.IsActive
	}
	store.UpdatedAt = time.Now()
	if err := s.repo.Update(store); err != nil {
		return nil, ErrStoreUpdateFailed
	}
	return store, nil
}

// DeleteStore 删除商户
func (s *StoreService) DeleteStore(id uint) error {
	if s == nil || s.repo == nil || id == 0 {
		return ErrStoreInvalid
	}
	store, err := s.repo.GetByID(id)
	if err != nil {
		return ErrStoreFetchFailed
	}
	if store == nil {
		return ErrStoreNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return ErrStoreDeleteFailed
	}
	return nil
}

func validatePercent(value models.Money) error {
	if value.Decimal.Sign() < 0 || value.Decimal.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidDiscountInput
	}
	return nil
}
