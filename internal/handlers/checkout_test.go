package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"essence-backend/internal/cart"
)

func checkoutContext(t *testing.T, body string, userID *primitive.ObjectID) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest("POST", "/user/checkout", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	if userID != nil {
		c.Set("userId", *userID)
	}
	return c, w
}

const validCheckoutBody = `{
	"shippingCityId": "city-1",
	"fullName": "Test Customer",
	"detail": "Some street 1",
	"paymentMethod": "cash"
}`

func TestCheckoutRequiresAuthenticatedUser(t *testing.T) {
	c, w := checkoutContext(t, validCheckoutBody, nil)

	Checkout(nil, cart.NewStore(), nil, nil)(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestCheckoutRejectsUnknownPaymentMethod(t *testing.T) {
	userID := primitive.NewObjectID()
	body := strings.Replace(validCheckoutBody, `"cash"`, `"crypto"`, 1)
	c, w := checkoutContext(t, body, &userID)

	Checkout(nil, cart.NewStore(), nil, nil)(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	userID := primitive.NewObjectID()
	c, w := checkoutContext(t, validCheckoutBody, &userID)

	Checkout(nil, cart.NewStore(), nil, nil)(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "cart is empty") {
		t.Fatalf("expected empty cart error, got %s", w.Body.String())
	}
}

func TestCheckoutRejectsMissingShippingCity(t *testing.T) {
	userID := primitive.NewObjectID()
	body := `{"fullName": "Test Customer", "detail": "Some street 1", "paymentMethod": "cash"}`
	c, w := checkoutContext(t, body, &userID)

	Checkout(nil, cart.NewStore(), nil, nil)(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestNewOrderNumberShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := newOrderNumber()
		if !strings.HasPrefix(n, "EE-") || len(n) != 13 {
			t.Fatalf("unexpected order number: %s", n)
		}
		if seen[n] {
			t.Fatalf("duplicate order number: %s", n)
		}
		seen[n] = true
	}
}
