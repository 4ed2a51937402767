package constants

// 角色常量
const (
	RoleAdmin    = "admin"
	RoleStore    = "store"
	RoleCustomer = "customer"
)

// 卡片状态常量
const (
	CardStatusActive  = "active"
	CardStatusBlocked = "blocked"
	CardStatusExpired = "expired"
)

// 兑换令牌来源常量
const (
	TokenSourceCustomer = "customer"
	TokenSourceStore    = "store"
)

// 积分流水类型常量
const (
	PointsTxnTypeEarn   = "earn"
	PointsTxnTypeRedeem = "redeem"
)

// 令牌前缀常量
const (
	TokenPrefixCard   = "CARD"
	TokenPrefixQR     = "QR"
	TokenPrefixOTP    = "OTP"
	VoucherCodePrefix = "VCH"
	VoucherCodeBytes  = 6
	TokenRandomBytes  = 16
)

// 默认站点货币
const SiteCurrencyDefault = "ILS"

// 积分换算策略：每节省 10 个货币单位获得 1 积分
const PointsPerDiscountUnit = 10

// 卡片与令牌有效期默认值（分钟）
const (
	DefaultCardTTLMinutes        = 3
	DefaultCustomerOTPTTLMinutes = 2
	DefaultStoreOTPTTLMinutes    = 5
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 审计动作常量
const (
	AuditActionCreate        = "create"
	AuditActionUpdate        = "update"
	AuditActionDelete        = "delete"
	AuditActionStatusSet     = "status_set"
	AuditActionCardIssue     = "card_issue"
	AuditActionCardExpire    = "card_expire"
	AuditActionTokenIssue    = "token_issue"
	AuditActionInvoiceScan   = "invoice_scan"
	AuditActionPointsRedeem  = "points_redeem"
	AuditActionRewardRedeem  = "reward_redeem"
	AuditActionVoucherRedeem = "voucher_redeem"
	AuditActionLogin         = "login"
)

// 队列名称与任务类型常量
const (
	QueueDefault = "default"
	TaskAuditLog = "audit:log"
)
