package service

import (
	"strings"
	"time"

	"github.com/walaa-next/internal/constants"
	"github.com/walaa-next/internal/models"
	"github.com/walaa-next/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// CustomerService 客户管理服务
type CustomerService struct {
	repo repository.CustomerRepository
}

// CreateCustomerInput 创建客户输入
type CreateCustomerInput struct {
	NameAr                 string
	NameEn                 string
	Phone                  string
	Email                  string
	Password               string
	DefaultDiscountPercent models.Money
}

// UpdateCustomerInput 更新客户输入
type UpdateCustomerInput struct {
	NameAr                 *string
	NameEn                 *string
	Email                  *string
	DefaultDiscountPercent *models.Money
	Status                 *string
}

// CustomerListInput 客户列表输入
type CustomerListInput struct {
	Page        int
	PageSize    int
	Keyword     string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// NewCustomerService 创建客户管理服务
func NewCustomerService(repo repository.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

// CreateCustomer 创建客户
func (s *CustomerService) CreateCustomer(input CreateCustomerInput) (*models.Customer, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCustomerCreateFailed
	}
	nameAr := strings.TrimSpace(input.NameAr)
	phone := strings.TrimSpace(input.Phone)
	if nameAr == "" || phone == "" {
		return nil, ErrCustomerInvalid
	}
	if len(strings.TrimSpace(input.Password)) < 8 {
		return nil, ErrCustomerInvalid
	}
	if err := validatePercent(input.DefaultDiscountPercent); err != nil {
		return nil, ErrCustomerInvalid
	}

	existing, err := s.repo.GetByPhone(phone)
	if err != nil {
		return nil, ErrCustomerFetchFailed
	}
	if existing != nil {
		return nil, ErrCustomerExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrCustomerCreateFailed
	}

	now := time.Now()
	customer := &models.Customer{
		NameAr:                 nameAr,
		NameEn:                 strings.TrimSpace(input.NameEn),
		Phone:                  phone,
		Email:                  strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash:           string(hash),
		DefaultDiscountPercent: input.DefaultDiscountPercent,
		Status:                 constants.UserStatusActive,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := s.repo.Create(customer); err != nil {
		return nil, ErrCustomerCreateFailed
	}
	return customer, nil
}

// GetCustomer 查询客户
func (s *CustomerService) GetCustomer(id uint) (*models.Customer, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCustomerFetchFailed
	}
	customer, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrCustomerFetchFailed
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

// GetCustomerByPhone 按手机号查询客户（商户终端查客）
func (s *CustomerService) GetCustomerByPhone(phone string) (*models.Customer, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCustomerFetchFailed
	}
	customer, err := s.repo.GetByPhone(phone)
	if err != nil {
		return nil, ErrCustomerFetchFailed
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

// ListCustomers 查询客户列表
func (s *CustomerService) ListCustomers(input CustomerListInput) ([]models.Customer, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrCustomerFetchFailed
	}
	customers, total, err := s.repo.List(repository.CustomerListFilter{
		Page:        input.Page,
		PageSize:    input.PageSize,
		Keyword:     strings.TrimSpace(input.Keyword),
		Status:      strings.TrimSpace(strings.ToLower(input.Status)),
		CreatedFrom: input.CreatedFrom,
		CreatedTo:   input.CreatedTo,
	})
	if err != nil {
		return nil, 0, ErrCustomerFetchFailed
	}
	return customers, total, nil
}

// UpdateCustomer 更新客户
func (s *CustomerService) UpdateCustomer(id uint, input UpdateCustomerInput) (*models.Customer, error) {
	if s == nil || s.repo == nil || id == 0 {
		return nil, ErrCustomerInvalid
	}
	customer, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrCustomerFetchFailed
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	if input.NameAr != nil {
		nameAr := strings.TrimSpace(*input.NameAr)
		if nameAr == "" {
			return nil, ErrCustomerInvalid
		}
		customer.NameAr = nameAr
	}
	if input.NameEn != nil {
		customer.NameEn = strings.TrimSpace(*input.NameEn)
	}
	if input.Email != nil {
		customer.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.DefaultDiscountPercent != nil {
		if err := validatePercent(*input.DefaultDiscountPercent); err != nil {
			return nil, ErrCustomerInvalid
		}
		customer.DefaultDiscountPercent = *input.DefaultDiscountPercent
	}
	if input.Status != nil {
		status := strings.TrimSpace(strings.ToLower(*input.Status))
		switch status {
		case constants.UserStatusActive, constants.UserStatusDisabled:
			customer.Status = status
		default:
			return nil, ErrCustomerInvalid
		}
	}
	customer.UpdatedAt = time.Now()
	if err := s.repo.Update(customer); err != nil {
		return nil, ErrCustomerUpdateFailed
	}
	return customer, nil
}
