package service

import (
	"errors"
	"strings"
	"time"

	"github.com/walaa-next/internal/authz"
	"github.com/walaa-next/internal/config"
	"github.com/walaa-next/internal/constants"
	"github.com/walaa-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 认证服务
// 平台用户（管理员/商户）用邮箱密码登录，客户用手机号密码登录，
// 三种主体共用一套 JWT 声明。
type AuthService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	customerRepo repository.CustomerRepository
}

// LoginResult 登录结果
type LoginResult struct {
	Principal authz.Principal `json:"principal"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, customerRepo repository.CustomerRepository) *AuthService {
	return &AuthService{
		cfg:          cfg,
		userRepo:     userRepo,
		customerRepo: customerRepo,
	}
}

// HashPassword 使用 bcrypt 加密密码
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// JWTClaims JWT 声明
type JWTClaims struct {
	Role       string `json:"role"`
	UserID     uint   `json:"user_id,omitempty"`
	StoreID    uint   `json:"store_id,omitempty"`
	CustomerID uint   `json:"customer_id,omitempty"`
	jwt.RegisteredClaims
}

// Principal 将声明转换为请求主体
func (c *JWTClaims) Principal() authz.Principal {
	return authz.Principal{
		Role:       c.Role,
		UserID:     c.UserID,
		StoreID:    c.StoreID,
		CustomerID: c.CustomerID,
	}
}

// GenerateJWT 为主体签发 JWT
func (s *AuthService) GenerateJWT(principal authz.Principal) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(s.cfg.JWT.ExpireHours) * time.Hour)

	claims := JWTClaims{
		Role:       principal.Role,
		UserID:     principal.UserID,
		StoreID:    principal.StoreID,
		CustomerID: principal.CustomerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ParseJWT 解析 JWT
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// LoginUser 平台用户登录（管理员/商户）
func (s *AuthService) LoginUser(email, password string) (*LoginResult, error) {
	if s == nil || s.userRepo == nil {
		return nil, ErrAuthInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrAuthInvalidCredentials
	}
	if user.Status != constants.UserStatusActive {
		return nil, ErrAuthUserDisabled
	}
	if err := s.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrAuthInvalidCredentials
	}

	principal := authz.Principal{Role: user.Role, UserID: user.ID}
	if user.Role == constants.RoleStore {
		if user.StoreID == nil || *user.StoreID == 0 {
			return nil, ErrAuthInvalidCredentials
		}
		principal.StoreID = *user.StoreID
	}

	token, expiresAt, err := s.GenerateJWT(principal)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(user.ID, time.Now()); err != nil {
		return nil, err
	}

	return &LoginResult{Principal: principal, Token: token, ExpiresAt: expiresAt}, nil
}

// LoginCustomer 客户登录
func (s *AuthService) LoginCustomer(phone, password string) (*LoginResult, error) {
	if s == nil || s.customerRepo == nil {
		return nil, ErrAuthInvalidCredentials
	}
	customer, err := s.customerRepo.GetByPhone(strings.TrimSpace(phone))
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrAuthInvalidCredentials
	}
	if customer.Status != constants.UserStatusActive {
		return nil, ErrAuthUserDisabled
	}
	if err := s.VerifyPassword(customer.PasswordHash, password); err != nil {
		return nil, ErrAuthInvalidCredentials
	}

	principal := authz.Principal{Role: constants.RoleCustomer, CustomerID: customer.ID}
	token, expiresAt, err := s.GenerateJWT(principal)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Principal: principal, Token: token, ExpiresAt: expiresAt}, nil
}

// ChangeUserPassword 修改平台用户密码
func (s *AuthService) ChangeUserPassword(userID uint, oldPassword, newPassword string) error {
	if s == nil || s.userRepo == nil {
		return ErrAuthInvalidCredentials
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrAuthInvalidCredentials
	}
	if err := s.VerifyPassword(user.PasswordHash, oldPassword); err != nil {
		return ErrAuthInvalidCredentials
	}
	if len(strings.TrimSpace(newPassword)) < 8 {
		return ErrAuthInvalidCredentials
	}

	hashed, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed
	return s.userRepo.Update(user)
}
