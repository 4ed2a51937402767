package authz

import (
	"github.com/walaa-next/internal/constants"
	"github.com/walaa-next/internal/models"
)

// Principal 请求主体
// 商户角色携带 StoreID，客户角色携带 CustomerID。
type Principal struct {
	Role       string `json:"role"`
	UserID     uint   `json:"user_id,omitempty"`
	StoreID    uint   `json:"store_id,omitempty"`
	CustomerID uint   `json:"customer_id,omitempty"`
}

// IsAdmin 是否管理员
func (p Principal) IsAdmin() bool {
	return p.Role == constants.RoleAdmin
}

// IsStore 是否商户
func (p Principal) IsStore() bool {
	return p.Role == constants.RoleStore
}

// IsCustomer 是否客户
func (p Principal) IsCustomer() bool {
	return p.Role == constants.RoleCustomer
}

// CanAccessCard 判定主体是否可访问指定卡：
// 管理员全可见，商户仅限本店卡，客户仅限本人卡。
func CanAccessCard(p Principal, card *models.Card) bool {
	if card == nil {
		return false
	}
	switch p.Role {
	case constants.RoleAdmin:
		return true
	case constants.RoleStore:
		return p.StoreID != 0 && p.StoreID == card.StoreID
	case constants.RoleCustomer:
		return p.CustomerID != 0 && p.CustomerID == card.CustomerID
	default:
		return false
	}
}
