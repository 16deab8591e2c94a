package handlers

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"essence-backend/internal/models"
)

func TestShippingCostForCityExactMatch(t *testing.T) {
	cityA := primitive.NewObjectID()
	cityB := primitive.NewObjectID()
	configs := []models.ShippingConfig{
		{ID: cityA, City: "Riverton", ShippingPrice: 25, IsActive: true},
		{ID: cityB, City: "Eastvale", ShippingPrice: 40, IsActive: true},
	}

	if got := shippingCostForCity(configs, cityA.Hex()); got != 25 {
		t.Fatalf("expected 25 for Riverton, got %v", got)
	}
	if got := shippingCostForCity(configs, cityB.Hex()); got != 40 {
		t.Fatalf("expected 40 for Eastvale, got %v", got)
	}
}

func TestShippingCostForCityUnknownOrClearedIsZero(t *testing.T) {
	configs := []models.ShippingConfig{
		{ID: primitive.NewObjectID(), City: "Riverton", ShippingPrice: 25, IsActive: true},
	}

	if got := shippingCostForCity(configs, primitive.NewObjectID().Hex()); got != 0 {
		t.Fatalf("expected 0 for unknown city, got %v", got)
	}
	if got := shippingCostForCity(configs, ""); got != 0 {
		t.Fatalf("expected 0 for cleared city, got %v", got)
	}
}

func TestShippingCostForCityIgnoresInactiveConfig(t *testing.T) {
	city := primitive.NewObjectID()
	configs := []models.ShippingConfig{
		{ID: city, City: "Riverton", ShippingPrice: 25, IsActive: false},
	}

	if got := shippingCostForCity(configs, city.Hex()); got != 0 {
		t.Fatalf("expected 0 for inactive config, got %v", got)
	}
}

func TestCouponDiscountPercent(t *testing.T) {
	coupon := models.Coupon{
		Code:         "WELCOME10",
		DiscountType: models.CouponTypePercent,
		Value:        10,
		IsActive:     true,
	}

	discount, err := couponDiscount(coupon, 200, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if discount != 20 {
		t.Fatalf("expected discount 20, got %v", discount)
	}
}

func TestCouponDiscountFixedCappedAtSubtotal(t *testing.T) {
	coupon := models.Coupon{
		Code:         "BIG50",
		DiscountType: models.CouponTypeFixed,
		Value:        50,
		IsActive:     true,
	}

	discount, err := couponDiscount(coupon, 30, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if discount != 30 {
		t.Fatalf("expected discount capped at 30, got %v", discount)
	}
}

func TestCouponDiscountRejectsExpiredAndInactive(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	expired := models.Coupon{
		DiscountType: models.CouponTypeFixed,
		Value:        10,
		IsActive:     true,
		ExpiresAt:    &past,
	}
	if _, err := couponDiscount(expired, 100, time.Now()); err == nil {
		t.Fatal("expected error for expired coupon")
	}

	inactive := models.Coupon{
		DiscountType: models.CouponTypeFixed,
		Value:        10,
		IsActive:     false,
	}
	if _, err := couponDiscount(inactive, 100, time.Now()); err == nil {
		t.Fatal("expected error for inactive coupon")
	}
}

func TestCouponDiscountRejectsBelowMinimum(t *testing.T) {
	coupon := models.Coupon{
		DiscountType:  models.CouponTypeFixed,
		Value:         10,
		MinOrderTotal: 100,
		IsActive:      true,
	}
	if _, err := couponDiscount(coupon, 99.99, time.Now()); err == nil {
		t.Fatal("expected error below coupon minimum")
	}
}

func TestComputeOrderTotals(t *testing.T) {
	totals := computeOrderTotals(250, 8, 25, 0)

	if totals.Subtotal != 250 {
		t.Fatalf("expected subtotal 250, got %v", totals.Subtotal)
	}
	if totals.Tax != 20 {
		t.Fatalf("expected tax 20, got %v", totals.Tax)
	}
	if totals.Total != 295 {
		t.Fatalf("expected total 295, got %v", totals.Total)
	}
}

func TestComputeOrderTotalsTaxAppliesAfterDiscount(t *testing.T) {
	totals := computeOrderTotals(100, 10, 0, 20)

	if totals.Tax != 8 {
		t.Fatalf("expected tax on discounted subtotal to be 8, got %v", totals.Tax)
	}
	if totals.Total != 88 {
		t.Fatalf("expected total 88, got %v", totals.Total)
	}
}
