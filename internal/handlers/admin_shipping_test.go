package handlers

import (
	"testing"
	"time"

	"essence-backend/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestSettingsUpdateDocumentAcceptsPercentRates(t *testing.T) {
	now := time.Now()
	update, err := settingsUpdateDocument(SettingsUpdateRequest{
		TaxRate:          floatPtr(8),
		DriverCommission: floatPtr(10),
	}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if update["taxRate"] != 8.0 || update["driverCommission"] != 10.0 {
		t.Fatalf("unexpected rates in update: %v", update)
	}
	if update["updatedAt"] != now {
		t.Fatalf("expected updatedAt to be stamped, got %v", update["updatedAt"])
	}
}

func TestSettingsUpdateDocumentRejectsOutOfRangeRates(t *testing.T) {
	if _, err := settingsUpdateDocument(SettingsUpdateRequest{TaxRate: floatPtr(101)}, time.Now()); err == nil {
		t.Fatal("expected error for taxRate above 100")
	}
	if _, err := settingsUpdateDocument(SettingsUpdateRequest{TaxRate: floatPtr(-1)}, time.Now()); err == nil {
		t.Fatal("expected error for negative taxRate")
	}
	if _, err := settingsUpdateDocument(SettingsUpdateRequest{DriverCommission: floatPtr(150)}, time.Now()); err == nil {
		t.Fatal("expected error for driverCommission above 100")
	}
}

func TestSettingsUpdateDocumentRejectsEmptyUpdate(t *testing.T) {
	if _, err := settingsUpdateDocument(SettingsUpdateRequest{}, time.Now()); err == nil {
		t.Fatal("expected error for empty update")
	}
}

// A stored taxRate of 8 must come out as 8% of the taxable amount, and a
// commission of 10 as 10% of cash collected.
func TestSettingsRatesFlowThroughPricing(t *testing.T) {
	update, err := settingsUpdateDocument(SettingsUpdateRequest{
		TaxRate:          floatPtr(8),
		DriverCommission: floatPtr(10),
	}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	taxRate := update["taxRate"].(float64)
	totals := computeOrderTotals(250, taxRate, 25, 0)
	if totals.Tax != 20 {
		t.Fatalf("expected tax 20 for 8%% of 250, got %v", totals.Tax)
	}
	if totals.Total != 295 {
		t.Fatalf("expected total 295, got %v", totals.Total)
	}

	commission := update["driverCommission"].(float64)
	cash := 300.0
	delivered := []models.DeliveryAssignment{
		{Status: models.AssignmentStatusDelivered, CashCollected: &cash},
	}
	summary := driverPaymentSummary(delivered, commission)
	if summary.Commission != 30 {
		t.Fatalf("expected commission 30 for 10%% of 300, got %v", summary.Commission)
	}
	if summary.Payable != 270 {
		t.Fatalf("expected payable 270, got %v", summary.Payable)
	}
}
