package repository

import "time"

// CardListFilter 查询卡列表的过滤条件
type CardListFilter struct {
	Page       int
	PageSize   int
	CustomerID uint
	StoreID    uint
	Status     string
	CardNumber string
}

// CardTokenListFilter 查询二维码令牌列表的过滤条件
type CardTokenListFilter struct {
	Page       int
	PageSize   int
	CardID     uint
	CustomerID uint
	Source     string
	OnlyActive bool
}

// CustomerListFilter 查询客户列表的过滤条件
type CustomerListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// StoreListFilter 查询商户列表的过滤条件
type StoreListFilter struct {
	Page       int
	PageSize   int
	Keyword    string
	City       string
	OnlyActive bool
}

// InvoiceListFilter 查询发票列表的过滤条件
type InvoiceListFilter struct {
	Page        int
	PageSize    int
	StoreID     uint
	CustomerID  uint
	CardID      uint
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PointsTransactionListFilter 查询积分流水列表的过滤条件
type PointsTransactionListFilter struct {
	Page       int
	PageSize   int
	CustomerID uint
	Type       string
}

// RewardListFilter 查询兑换目录列表的过滤条件
// OnlyVisible 限定客户可见范围：全平台项加 VisibleStoreIDs 内商户的限定项。
type RewardListFilter struct {
	Page            int
	PageSize        int
	Keyword         string
	Type            string
	StoreID         *uint
	OnlyActive      bool
	OnlyVisible     bool
	VisibleStoreIDs []uint
}

// VoucherListFilter 查询代金券列表的过滤条件
type VoucherListFilter struct {
	Page       int
	PageSize   int
	CustomerID uint
	RewardID   uint
	OnlyUsable bool
}

// AuditLogListFilter 查询审计日志列表的过滤条件
type AuditLogListFilter struct {
	Page        int
	PageSize    int
	ActorRole   string
	ActorID     uint
	Action      string
	EntityType  string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
