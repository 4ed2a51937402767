package service

import (
	"github.com/walaa-next/internal/constants"
	"github.com/walaa-next/internal/models"

	"github.com/shopspring/decimal"
)

var percentHundred = decimal.NewFromInt(100)

// DiscountResult 折扣计算结果
type DiscountResult struct {
	AppliedPercent models.Money `json:"applied_percent"`
	DiscountAmount models.Money `json:"discount_amount"`
	Total          models.Money `json:"total"`
}

// DiscountService 折扣计算服务
// 生效折扣率取客户默认折扣与商户上限中的较小者。
type DiscountService struct{}

// NewDiscountService 创建折扣计算服务
func NewDiscountService() *DiscountService {
	return &DiscountService{}
}

// Compute 计算折扣，金额不做舍入（核销入账路径使用）。
func (s *DiscountService) Compute(subtotal, customerPercent, storeMaxPercent models.Money) (DiscountResult, error) {
	if err := validateDiscountInput(subtotal, customerPercent, storeMaxPercent); err != nil {
		return DiscountResult{}, err
	}

	applied := customerPercent.Decimal
	if storeMaxPercent.Decimal.LessThan(applied) {
		applied = storeMaxPercent.Decimal
	}

	discountAmount := subtotal.Decimal.Mul(applied).Div(percentHundred)
	total := subtotal.Decimal.Sub(discountAmount)

	return DiscountResult{
		AppliedPercent: models.NewMoneyFromDecimal(applied),
		DiscountAmount: models.NewMoneyFromDecimal(discountAmount),
		Total:          models.NewMoneyFromDecimal(total),
	}, nil
}

// ComputeRounded 计算折扣并将金额舍入到两位小数（报价预览路径使用）。
func (s *DiscountService) ComputeRounded(subtotal, customerPercent, storeMaxPercent models.Money) (DiscountResult, error) {
	result, err := s.Compute(subtotal, customerPercent, storeMaxPercent)
	if err != nil {
		return DiscountResult{}, err
	}
	result.DiscountAmount = models.NewMoneyFromDecimal(result.DiscountAmount.Decimal.Round(2))
	result.Total = models.NewMoneyFromDecimal(subtotal.Decimal.Sub(result.DiscountAmount.Decimal))
	return result, nil
}

// PointsEarned 根据折扣节省金额换算积分：每满 10 个货币单位得 1 分，向下取整。
func (s *DiscountService) PointsEarned(discountAmount models.Money) int64 {
	if discountAmount.Decimal.Sign() <= 0 {
		return 0
	}
	return discountAmount.Decimal.Div(decimal.NewFromInt(constants.PointsPerDiscountUnit)).IntPart()
}

// Commission 计算商户佣金：实付金额乘以商户佣金率。
func (s *DiscountService) Commission(total, commissionPercent models.Money) models.Money {
	if total.Decimal.Sign() <= 0 || commissionPercent.Decimal.Sign() <= 0 {
		return models.NewMoneyFromDecimal(decimal.Zero)
	}
	return models.NewMoneyFromDecimal(total.Decimal.Mul(commissionPercent.Decimal).Div(percentHundred))
}

// 金额为零合法：全部输出为零。只拒绝负数与越界折扣率。
func validateDiscountInput(subtotal, customerPercent, storeMaxPercent models.Money) error {
	if subtotal.Decimal.Sign() < 0 {
		return ErrInvalidDiscountInput
	}
	for _, percent := range []decimal.Decimal{customerPercent.Decimal, storeMaxPercent.Decimal} {
		if percent.Sign() < 0 || percent.GreaterThan(percentHundred) {
			return ErrInvalidDiscountInput
		}
	}
	return nil
}
