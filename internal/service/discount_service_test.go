package service

import (
	"errors"
	"testing"

	"github.com/walaa-next/internal/models"

	"github.com/shopspring/decimal"
)

func money(t *testing.T, value string) models.Money {
	t.Helper()
	return models.NewMoneyFromDecimal(decimal.RequireFromString(value))
}

func TestDiscountServiceComputeAppliesStoreCap(t *testing.T) {
	svc := NewDiscountService()
	result, err := svc.Compute(money(t, "1000"), money(t, "15"), money(t, "10"))
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if !result.AppliedPercent.Decimal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected applied percent 10, got: %s", result.AppliedPercent)
	}
	if !result.DiscountAmount.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected discount 100, got: %s", result.DiscountAmount)
	}
	if !result.Total.Decimal.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("expected total 900, got: %s", result.Total)
	}
}

func TestDiscountServiceComputeUsesCustomerPercentBelowCap(t *testing.T) {
	svc := NewDiscountService()
	result, err := svc.Compute(money(t, "200"), money(t, "5"), money(t, "20"))
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if !result.AppliedPercent.Decimal.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected applied percent 5, got: %s", result.AppliedPercent)
	}
	if !result.Total.Decimal.Equal(decimal.NewFromInt(190)) {
		t.Fatalf("expected total 190, got: %s", result.Total)
	}
}

func TestDiscountServiceComputeRejectsInvalidInput(t *testing.T) {
	svc := NewDiscountService()
	cases := []struct {
		name     string
		subtotal string
		customer string
		storeMax string
	}{
		{name: "negative subtotal", subtotal: "-5", customer: "10", storeMax: "10"},
		{name: "negative percent", subtotal: "100", customer: "-1", storeMax: "10"},
		{name: "percent above hundred", subtotal: "100", customer: "10", storeMax: "101"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Compute(money(t, tc.subtotal), money(t, tc.customer), money(t, tc.storeMax))
			if !errors.Is(err, ErrInvalidDiscountInput) {
				t.Fatalf("expected ErrInvalidDiscountInput, got: %v", err)
			}
		})
	}
}

func TestDiscountServiceComputeZeroSubtotal(t *testing.T) {
	svc := NewDiscountService()
	result, err := svc.Compute(money(t, "0"), money(t, "10"), money(t, "10"))
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	// 金额为零时全部输出为零
	if !result.DiscountAmount.Decimal.IsZero() || !result.Total.Decimal.IsZero() {
		t.Fatalf("expected zero outputs, got discount=%s total=%s", result.DiscountAmount, result.Total)
	}
}

func TestDiscountServiceComputeRoundedTwoDecimals(t *testing.T) {
	svc := NewDiscountService()
	result, err := svc.ComputeRounded(money(t, "99.99"), money(t, "7"), money(t, "15"))
	if err != nil {
		t.Fatalf("compute rounded failed: %v", err)
	}
	// 99.99 * 7% = 6.9993 → 取两位小数 7.00
	if !result.DiscountAmount.Decimal.Equal(decimal.RequireFromString("7.00")) {
		t.Fatalf("expected rounded discount 7.00, got: %s", result.DiscountAmount)
	}
	if !result.Total.Decimal.Equal(decimal.RequireFromString("92.99")) {
		t.Fatalf("expected total 92.99, got: %s", result.Total)
	}
}

func TestDiscountServicePointsEarnedFloors(t *testing.T) {
	svc := NewDiscountService()
	if got := svc.PointsEarned(money(t, "100")); got != 10 {
		t.Fatalf("expected 10 points for 100, got: %d", got)
	}
	if got := svc.PointsEarned(money(t, "99.99")); got != 9 {
		t.Fatalf("expected 9 points for 99.99, got: %d", got)
	}
	if got := svc.PointsEarned(money(t, "9.99")); got != 0 {
		t.Fatalf("expected 0 points for 9.99, got: %d", got)
	}
	if got := svc.PointsEarned(money(t, "0")); got != 0 {
		t.Fatalf("expected 0 points for 0, got: %d", got)
	}
}

func TestDiscountServiceCommission(t *testing.T) {
	svc := NewDiscountService()
	commission := svc.Commission(money(t, "900"), money(t, "5"))
	if !commission.Decimal.Equal(decimal.NewFromInt(45)) {
		t.Fatalf("expected commission 45, got: %s", commission)
	}
	zero := svc.Commission(money(t, "900"), money(t, "0"))
	if !zero.Decimal.IsZero() {
		t.Fatalf("expected zero commission, got: %s", zero)
	}
}
