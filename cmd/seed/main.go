package main

import (
	"github.com/walaa-next/internal/config"
	"github.com/walaa-next/internal/logger"
	"github.com/walaa-next/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加商户
	stores := []models.Store{
		{
			NameAr:             "مقهى القدس",
			NameEn:             "Al-Quds Cafe",
			Phone:              "+972590000001",
			City:               "Ramallah",
			MaxDiscountPercent: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			CommissionPercent:  models.NewMoneyFromDecimal(decimal.NewFromInt(3)),
			IsActive:           true,
		},
		{
			NameAr:             "مطعم الزيتونة",
			NameEn:             "Olive Restaurant",
			Phone:              "+972590000002",
			City:               "Nablus",
			MaxDiscountPercent: models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
			CommissionPercent:  models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
			IsActive:           true,
		},
	}
	for i := range stores {
		if err := models.DB.Where("name_ar = ?", stores[i].NameAr).FirstOrCreate(&stores[i]).Error; err != nil {
			stdLog.Fatalf("Failed to seed store: %v", err)
		}
	}

	// 添加演示客户
	hash, err := bcrypt.GenerateFromPassword([]byte("customer123"), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash password: %v", err)
	}
	customer := models.Customer{
		NameAr:                 "محمد خليل",
		NameEn:                 "Mohammad Khalil",
		Phone:                  "+972590000100",
		PasswordHash:           string(hash),
		DefaultDiscountPercent: models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
		Status:                 "active",
	}
	if err := models.DB.Where("phone = ?", customer.Phone).FirstOrCreate(&customer).Error; err != nil {
		stdLog.Fatalf("Failed to seed customer: %v", err)
	}

	// 添加兑换目录
	rewards := []models.RewardItem{
		{
			NameAr:      "قسيمة ٢٠ شيكل",
			NameEn:      "20 ILS Voucher",
			Type:        "voucher",
			PointsCost:  200,
			ValueAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
			Currency:    "ILS",
			ExpiryDays:  7,
			IsActive:    true,
		},
		{
			NameAr:      "قسيمة ٥٠ شيكل",
			NameEn:      "50 ILS Voucher",
			Type:        "voucher",
			PointsCost:  450,
			ValueAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
			Currency:    "ILS",
			ExpiryDays:  14,
			IsActive:    true,
		},
	}
	for i := range rewards {
		if err := models.DB.Where("name_ar = ?", rewards[i].NameAr).FirstOrCreate(&rewards[i]).Error; err != nil {
			stdLog.Fatalf("Failed to seed reward: %v", err)
		}
	}

	stdLog.Printf("Seed data created: %d stores, 1 customer, %d rewards", len(stores), len(rewards))
}
