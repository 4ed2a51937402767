package router

import (
	"fmt"
	"strings"

	"github.com/walaa-next/internal/cache"
	"github.com/walaa-next/internal/config"
	adminhandlers "github.com/walaa-next/internal/http/handlers/admin"
	customerhandlers "github.com/walaa-next/internal/http/handlers/customer"
	publichandlers "github.com/walaa-next/internal/http/handlers/public"
	storehandlers "github.com/walaa-next/internal/http/handlers/store"
	"github.com/walaa-next/internal/logger"
	"github.com/walaa-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按角色分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	storeHandler := storehandlers.New(c)
	customerHandler := customerhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "wl"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}
	otpRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:otp", redisPrefix),
		WindowSeconds: cfg.Security.OTPRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.OTPRateLimit.MaxAttempts,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/health", publicHandler.Health)

		// 认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.LoginUser)
			auth.POST("/customer/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("phone")), publicHandler.LoginCustomer)
		}

		// 管理端接口
		admin := apiV1.Group("/admin")
		admin.Use(JWTAuthMiddleware(c.AuthService))
		admin.Use(RBACMiddleware(c.AuthzService))
		{
			admin.PUT("/password", adminHandler.ChangePassword)

			admin.POST("/stores", adminHandler.CreateStore)
			admin.GET("/stores", adminHandler.ListStores)
			admin.GET("/stores/:id", adminHandler.GetStore)
			admin.PUT("/stores/:id", adminHandler.UpdateStore)
			admin.DELETE("/stores/:id", adminHandler.DeleteStore)

			admin.POST("/customers", adminHandler.CreateCustomer)
			admin.GET("/customers", adminHandler.ListCustomers)
			admin.GET("/customers/:id", adminHandler.GetCustomer)
			admin.PUT("/customers/:id", adminHandler.UpdateCustomer)

			admin.GET("/cards", adminHandler.ListCards)
			admin.GET("/cards/:id", adminHandler.GetCard)
			admin.PATCH("/cards/:id/status", adminHandler.UpdateCardStatus)
			admin.GET("/card-tokens", adminHandler.ListCardTokens)

			admin.POST("/rewards", adminHandler.CreateReward)
			admin.GET("/rewards", adminHandler.ListRewards)
			admin.GET("/rewards/:id", adminHandler.GetReward)
			admin.PUT("/rewards/:id", adminHandler.UpdateReward)
			admin.DELETE("/rewards/:id", adminHandler.DeleteReward)

			admin.GET("/invoices", adminHandler.ListInvoices)
			admin.GET("/points-transactions", adminHandler.ListPointsTransactions)
			admin.GET("/vouchers", adminHandler.ListVouchers)
			admin.GET("/audit-logs", adminHandler.ListAuditLogs)
		}

		// 商户端接口
		store := apiV1.Group("/store")
		store.Use(JWTAuthMiddleware(c.AuthService))
		store.Use(RBACMiddleware(c.AuthzService))
		{
			store.PUT("/password", adminHandler.ChangePassword)

			store.GET("/cards/lookup", storeHandler.LookupCard)
			store.GET("/customers/by-phone", storeHandler.GetCustomerByPhone)
			store.POST("/cards/:id/token", RateLimitMiddleware(redisClient, otpRule, KeyByIP), storeHandler.IssueToken)

			store.POST("/scan", storeHandler.Scan)
			store.POST("/scan/preview", storeHandler.PreviewScan)

			store.POST("/vouchers/redeem", storeHandler.RedeemVoucher)

			store.GET("/invoices", storeHandler.ListInvoices)
			store.GET("/invoices/recent", storeHandler.ListRecentInvoices)
		}

		// 客户端接口
		customer := apiV1.Group("/customer")
		customer.Use(JWTAuthMiddleware(c.AuthService))
		customer.Use(RBACMiddleware(c.AuthzService))
		{
			customer.GET("/profile", customerHandler.GetProfile)
			customer.GET("/stores", customerHandler.ListStores)

			customer.GET("/cards", customerHandler.ListCards)
			customer.POST("/stores/:id/card", customerHandler.GetStoreCard)
			customer.GET("/cards/:id/qr", customerHandler.GetCardQR)
			customer.POST("/cards/:id/token", RateLimitMiddleware(redisClient, otpRule, KeyByIP), customerHandler.IssueToken)

			customer.GET("/points/balance", customerHandler.GetPointsBalance)
			customer.GET("/points/history", customerHandler.ListPointsHistory)
			customer.POST("/points/redeem", customerHandler.RedeemPoints)
			customer.GET("/rewards", customerHandler.ListRewards)
			customer.POST("/rewards/redeem", customerHandler.RedeemReward)
			customer.GET("/vouchers", customerHandler.ListVouchers)
		}
	}

	return r
}
