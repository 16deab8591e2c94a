package handlers

import (
	"testing"

	"essence-backend/internal/models"
)

func TestValidateDeliverRequestRejectsMissingCash(t *testing.T) {
	if err := validateDeliverRequest(nil); err == nil {
		t.Fatal("expected error when cashCollected is missing")
	}
}

func TestValidateDeliverRequestRejectsNegativeCash(t *testing.T) {
	cash := -5.0
	if err := validateDeliverRequest(&cash); err == nil {
		t.Fatal("expected error for negative cashCollected")
	}
}

func TestValidateDeliverRequestAcceptsZeroAndPositive(t *testing.T) {
	for _, cash := range []float64{0, 120.50} {
		value := cash
		if err := validateDeliverRequest(&value); err != nil {
			t.Fatalf("expected %v to be accepted, got %v", cash, err)
		}
	}
}

func TestAssignmentTransitionsAreForwardOnly(t *testing.T) {
	required, ok := models.AssignmentPrecondition(models.AssignmentStatusPickedUp)
	if !ok || required != models.AssignmentStatusAssigned {
		t.Fatalf("picked_up must require assigned, got %q ok=%v", required, ok)
	}

	required, ok = models.AssignmentPrecondition(models.AssignmentStatusDelivered)
	if !ok || required != models.AssignmentStatusPickedUp {
		t.Fatalf("delivered must require picked_up, got %q ok=%v", required, ok)
	}

	// no transition targets assigned or cancelled, so there is no revert path
	if _, ok := models.AssignmentPrecondition(models.AssignmentStatusAssigned); ok {
		t.Fatal("nothing may transition back to assigned")
	}
	if _, ok := models.AssignmentPrecondition(models.AssignmentStatusCancelled); ok {
		t.Fatal("drivers cannot cancel assignments")
	}
}

func TestDriverPaymentSummary(t *testing.T) {
	cash1, cash2 := 200.0, 100.0
	delivered := []models.DeliveryAssignment{
		{Status: models.AssignmentStatusDelivered, CashCollected: &cash1},
		{Status: models.AssignmentStatusDelivered, CashCollected: &cash2},
		{Status: models.AssignmentStatusDelivered},
	}

	summary := driverPaymentSummary(delivered, 10)

	if summary.Deliveries != 3 {
		t.Fatalf("expected 3 deliveries, got %d", summary.Deliveries)
	}
	if summary.CashCollected != 300 {
		t.Fatalf("expected 300 cash collected, got %v", summary.CashCollected)
	}
	if summary.Commission != 30 {
		t.Fatalf("expected commission 30, got %v", summary.Commission)
	}
	if summary.Payable != 270 {
		t.Fatalf("expected payable 270, got %v", summary.Payable)
	}
}

func TestDriverPaymentSummaryZeroRate(t *testing.T) {
	cash := 150.0
	delivered := []models.DeliveryAssignment{
		{Status: models.AssignmentStatusDelivered, CashCollected: &cash},
	}

	summary := driverPaymentSummary(delivered, 0)
	if summary.Commission != 0 || summary.Payable != 150 {
		t.Fatalf("expected no commission, got %+v", summary)
	}
}
