package service

import "errors"

// 认证与授权
var (
	ErrAuthInvalidCredentials = errors.New("invalid credentials")
	ErrAuthUserDisabled       = errors.New("user disabled")
	ErrForbidden              = errors.New("forbidden")
)

// 一次性令牌
var (
	ErrTokenInvalid     = errors.New("token invalid")
	ErrTokenIssueFailed = errors.New("token issue failed")
)

// 会员卡
var (
	ErrCardNotFound     = errors.New("card not found")
	ErrCardExpired      = errors.New("card expired")
	ErrCardInactive     = errors.New("card inactive")
	ErrCardInvalid      = errors.New("invalid card input")
	ErrCardFetchFailed  = errors.New("card fetch failed")
	ErrCardCreateFailed = errors.New("card create failed")
	ErrCardUpdateFailed = errors.New("card update failed")
)

// 客户
var (
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrCustomerExists       = errors.New("customer already exists")
	ErrCustomerInvalid      = errors.New("invalid customer input")
	ErrCustomerFetchFailed  = errors.New("customer fetch failed")
	ErrCustomerCreateFailed = errors.New("customer create failed")
	ErrCustomerUpdateFailed = errors.New("customer update failed")
)

// 商户
var (
	ErrStoreNotFound     = errors.New("store not found")
	ErrStoreInactive     = errors.New("store inactive")
	ErrStoreInvalid      = errors.New("invalid store input")
	ErrStoreFetchFailed  = errors.New("store fetch failed")
	ErrStoreCreateFailed = errors.New("store create failed")
	ErrStoreUpdateFailed = errors.New("store update failed")
	ErrStoreDeleteFailed = errors.New("store delete failed")
)

// 折扣计算
var (
	ErrInvalidDiscountInput = errors.New("invalid discount input")
)

// 积分
var (
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrPointsFetchFailed  = errors.New("points fetch failed")
	ErrPointsRedeemFailed = errors.New("points redeem failed")
)

// 兑换目录
var (
	ErrRewardNotFound     = errors.New("reward not found")
	ErrRewardInvalid      = errors.New("invalid reward input")
	ErrRewardFetchFailed  = errors.New("reward fetch failed")
	ErrRewardCreateFailed = errors.New("reward create failed")
	ErrRewardUpdateFailed = errors.New("reward update failed")
	ErrRewardDeleteFailed = errors.New("reward delete failed")
)

// 代金券
var (
	ErrVoucherNotFound    = errors.New("voucher not found")
	ErrVoucherInvalid     = errors.New("voucher invalid")
	ErrVoucherFetchFailed = errors.New("voucher fetch failed")
)

// 发票与核销
var (
	ErrInvoiceFetchFailed = errors.New("invoice fetch failed")
	ErrRedemptionFailed   = errors.New("redemption failed")
)
