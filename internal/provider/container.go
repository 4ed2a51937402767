package provider

import (
	"time"

	"github.com/walaa-next/internal/authz"
	"github.com/walaa-next/internal/cache"
	"github.com/walaa-next/internal/config"
	"github.com/walaa-next/internal/logger"
	"github.com/walaa-next/internal/models"
	"github.com/walaa-next/internal/queue"
	"github.com/walaa-next/internal/repository"
	"github.com/walaa-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo      repository.UserRepository
	CustomerRepo  repository.CustomerRepository
	StoreRepo     repository.StoreRepository
	CardRepo      repository.CardRepository
	CardTokenRepo repository.CardTokenRepository
	InvoiceRepo   repository.InvoiceRepository
	PointsTxnRepo repository.PointsTransactionRepository
	RewardRepo    repository.RewardRepository
	VoucherRepo   repository.VoucherRepository
	AuditLogRepo  repository.AuditLogRepository

	// Services
	AuthzService      *authz.Service
	AuthService       *service.AuthService
	CustomerService   *service.CustomerService
	StoreService      *service.StoreService
	CardService       *service.CardService
	CardTokenService  *service.CardTokenService
	DiscountService   *service.DiscountService
	RedemptionService *service.RedemptionService
	PointsService     *service.PointsService
	RewardService     *service.RewardService
	AuditService      *service.AuditService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.CustomerRepo = repository.NewCustomerRepository(db)
	c.StoreRepo = repository.NewStoreRepository(db)
	c.CardRepo = repository.NewCardRepository(db)
	c.CardTokenRepo = repository.NewCardTokenRepository(db)
	c.InvoiceRepo = repository.NewInvoiceRepository(db)
	c.PointsTxnRepo = repository.NewPointsTransactionRepository(db)
	c.RewardRepo = repository.NewRewardRepository(db)
	c.VoucherRepo = repository.NewVoucherRepository(db)
	c.AuditLogRepo = repository.NewAuditLogRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	cardTTL := time.Duration(c.Config.Card.CardTTLMinutes()) * time.Minute
	customerOTPTTL := time.Duration(c.Config.Card.CustomerOTPMinutes()) * time.Minute
	storeOTPTTL := time.Duration(c.Config.Card.StoreOTPMinutes()) * time.Minute
	currency := c.Config.Site.DefaultCurrency()

	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, c.CustomerRepo)
	c.CustomerService = service.NewCustomerService(c.CustomerRepo)
	c.StoreService = service.NewStoreService(c.StoreRepo, c.UserRepo)
	c.CardService = service.NewCardService(c.CardRepo, c.CustomerRepo, c.StoreRepo, cardTTL)
	c.CardTokenService = service.NewCardTokenService(c.CardTokenRepo, c.CardService, customerOTPTTL, storeOTPTTL)
	c.DiscountService = service.NewDiscountService()
	c.RedemptionService = service.NewRedemptionService(c.CardTokenRepo, c.CustomerRepo, c.InvoiceRepo, c.PointsTxnRepo, c.CardService, c.DiscountService, currency)
	c.PointsService = service.NewPointsService(c.CustomerRepo, c.PointsTxnRepo, c.RewardRepo, c.VoucherRepo, c.CardService, currency)
	c.RewardService = service.NewRewardService(c.RewardRepo, c.StoreRepo)
	c.AuditService = service.NewAuditService(c.AuditLogRepo, c.QueueClient)
}
