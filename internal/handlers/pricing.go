package handlers

import (
	"fmt"
	"math"
	"strings"
	"time"

	"essence-backend/internal/models"
)

// shippingCostForCity looks up the flat price by exact city id match.
// Unknown or empty city ids cost 0.
func shippingCostForCity(configs []models.ShippingConfig, cityID string) float64 {
	target := strings.TrimSpace(cityID)
	if target == "" {
		return 0
	}
	for _, cfg := range configs {
		if cfg.ID.Hex() == target && cfg.IsActive {
			return cfg.ShippingPrice
		}
	}
	return 0
}

// couponDiscount applies the coupon to the subtotal. The discount never
// exceeds the subtotal.
func couponDiscount(coupon models.Coupon, subtotal float64, now time.Time) (float64, error) {
	if !coupon.IsActive {
		return 0, fmt.Errorf("coupon is not active")
	}
	if coupon.ExpiresAt != nil && now.After(*coupon.ExpiresAt) {
		return 0, fmt.Errorf("coupon has expired")
	}
	if subtotal < coupon.MinOrderTotal {
		return 0, fmt.Errorf("order total below coupon minimum of %.2f", coupon.MinOrderTotal)
	}

	var discount float64
	switch coupon.DiscountType {
	case models.CouponTypePercent:
		discount = subtotal * coupon.Value / 100
	case models.CouponTypeFixed:
		discount = coupon.Value
	default:
		return 0, fmt.Errorf("unknown coupon type")
	}

	if discount > subtotal {
		discount = subtotal
	}
	return roundMoney(discount), nil
}

type orderTotals struct {
	Subtotal float64
	Tax      float64
	Shipping float64
	Discount float64
	Total    float64
}

// computeOrderTotals derives all money fields server-side. Tax applies to
// the discounted subtotal; shipping is a flat add.
func computeOrderTotals(subtotal, taxRate, shipping, discount float64) orderTotals {
	if discount > subtotal {
		discount = subtotal
	}
	taxable := subtotal - discount
	tax := roundMoney(taxable * taxRate / 100)

	return orderTotals{
		Subtotal: roundMoney(subtotal),
		Tax:      tax,
		Shipping: roundMoney(shipping),
		Discount: roundMoney(discount),
		Total:    roundMoney(taxable + tax + shipping),
	}
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
