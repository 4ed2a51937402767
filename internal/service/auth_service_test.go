package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/walaa-next/internal/authz"
	"github.com/walaa-next/internal/config"
	"github.com/walaa-next/internal/constants"
	"github.com/walaa-next/internal/models"
	"github.com/walaa-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Customer{}, &models.Store{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "auth-service-test-secret-key-0123456789"
	cfg.JWT.ExpireHours = 24

	svc := NewAuthService(cfg, repository.NewUserRepository(db), repository.NewCustomerRepository(db))
	return svc, db
}

func seedAuthUser(t *testing.T, db *gorm.DB, email, password, role, status string, storeID *uint) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		StoreID:      storeID,
		Status:       status,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
}

func seedAuthCustomer(t *testing.T, db *gorm.DB, phone, password, status string) uint {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	customer := models.Customer{
		NameAr:                 "عميل",
		Phone:                  phone,
		PasswordHash:           string(hash),
		DefaultDiscountPercent: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		Status:                 status,
		CreatedAt:              time.Now(),
		UpdatedAt:              time.Now(),
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	return customer.ID
}

func TestAuthServiceJWTRoundtrip(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	principal := authz.Principal{Role: constants.RoleStore, UserID: 7, StoreID: 3}
	token, expiresAt, err := svc.GenerateJWT(principal)
	if err != nil {
		t.Fatalf("generate jwt failed: %v", err)
	}
	if !expiresAt.After(time.Now().Add(23 * time.Hour)) {
		t.Fatalf("unexpected expiry: %v", expiresAt)
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse jwt failed: %v", err)
	}
	if got := claims.Principal(); got != principal {
		t.Fatalf("principal mismatch: %+v", got)
	}
}

func TestAuthServiceParseJWTRejectsWrongSecret(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	other, _ := setupAuthServiceTest(t)
	other.cfg.JWT.SecretKey = "another-secret-key-entirely-9876543210"

	token, _, err := svc.GenerateJWT(authz.Principal{Role: constants.RoleAdmin, UserID: 1})
	if err != nil {
		t.Fatalf("generate jwt failed: %v", err)
	}
	if _, err := other.ParseJWT(token); err == nil {
		t.Fatalf("expected parse failure with wrong secret")
	}
}

func TestAuthServiceLoginUser(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	seedAuthUser(t, db, "admin@example.com", "admin-pass", constants.RoleAdmin, constants.UserStatusActive, nil)

	result, err := svc.LoginUser("admin@example.com", "admin-pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Principal.Role != constants.RoleAdmin || result.Principal.UserID == 0 {
		t.Fatalf("unexpected principal: %+v", result.Principal)
	}
	if result.Token == "" {
		t.Fatalf("expected token")
	}

	var user models.User
	if err := db.Where("email = ?", "admin@example.com").First(&user).Error; err != nil {
		t.Fatalf("load user failed: %v", err)
	}
	if user.LastLoginAt == nil {
		t.Fatalf("expected last login recorded")
	}

	if _, err := svc.LoginUser("admin@example.com", "wrong"); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Fatalf("expected ErrAuthInvalidCredentials, got: %v", err)
	}
	if _, err := svc.LoginUser("nobody@example.com", "admin-pass"); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Fatalf("expected ErrAuthInvalidCredentials for unknown email, got: %v", err)
	}
}

func TestAuthServiceLoginUserDisabled(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	seedAuthUser(t, db, "blocked@example.com", "pass-1234", constants.RoleAdmin, constants.UserStatusDisabled, nil)

	if _, err := svc.LoginUser("blocked@example.com", "pass-1234"); !errors.Is(err, ErrAuthUserDisabled) {
		t.Fatalf("expected ErrAuthUserDisabled, got: %v", err)
	}
}

func TestAuthServiceLoginStoreUserRequiresStoreID(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	storeID := uint(5)
	seedAuthUser(t, db, "clerk@example.com", "pass-1234", constants.RoleStore, constants.UserStatusActive, &storeID)
	seedAuthUser(t, db, "orphan@example.com", "pass-1234", constants.RoleStore, constants.UserStatusActive, nil)

	result, err := svc.LoginUser("clerk@example.com", "pass-1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Principal.StoreID != 5 {
		t.Fatalf("expected store id 5, got: %d", result.Principal.StoreID)
	}

	if _, err := svc.LoginUser("orphan@example.com", "pass-1234"); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Fatalf("expected ErrAuthInvalidCredentials for store user without store, got: %v", err)
	}
}

func TestAuthServiceLoginCustomer(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	customerID := seedAuthCustomer(t, db, "+972590000001", "customer-pass", constants.UserStatusActive)

	result, err := svc.LoginCustomer("+972590000001", "customer-pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Principal.Role != constants.RoleCustomer || result.Principal.CustomerID != customerID {
		t.Fatalf("unexpected principal: %+v", result.Principal)
	}

	if _, err := svc.LoginCustomer("+972590000001", "wrong"); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Fatalf("expected ErrAuthInvalidCredentials, got: %v", err)
	}
}

func TestAuthServiceChangeUserPassword(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	seedAuthUser(t, db, "admin@example.com", "old-password", constants.RoleAdmin, constants.UserStatusActive, nil)

	var user models.User
	if err := db.Where("email = ?", "admin@example.com").First(&user).Error; err != nil {
		t.Fatalf("load user failed: %v", err)
	}

	if err := svc.ChangeUserPassword(user.ID, "wrong", "new-password-1"); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Fatalf("expected ErrAuthInvalidCredentials, got: %v", err)
	}
	if err := svc.ChangeUserPassword(user.ID, "old-password", "short"); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Fatalf("expected rejection of short password, got: %v", err)
	}
	if err := svc.ChangeUserPassword(user.ID, "old-password", "new-password-1"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, err := svc.LoginUser("admin@example.com", "new-password-1"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}
