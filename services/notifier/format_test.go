package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/authenshop/paygate/services/checkoutapi"
)

var exampleSession = checkoutapi.OrderSession{
	SessionID: "chk_123",
	OrderRef:  "1234",
	Provider:  "sumup",
	Amount:    checkoutapi.Amount{Currency: "EUR", Value: 2500},
	Customer: checkoutapi.Customer{
		FirstName:  "Ana",
		LastName:   "García",
		Email:      "ana@home.es",
		Address:    "Calle Mayor 1",
		PostalCode: "28001",
		City:       "Madrid",
	},
	Cart: []checkoutapi.CartItem{
		{Title: "Widget", Quantity: 2, Price: 1000},
		{Title: "Gadget", Quantity: 1, Price: 500, LinePrice: 500},
	},
}

func TestFormatPaymentReceived(t *testing.T) {
	got := formatPaymentReceived(exampleSession)

	assert.Contains(t, got, "PAYMENT RECEIVED - SUMUP")
	assert.Contains(t, got, "EUR 25.00")
	assert.Contains(t, got, "Ana García")
	assert.Contains(t, got, "ana@home.es")
	assert.Contains(t, got, "Calle Mayor 1, 28001 Madrid")
	assert.Contains(t, got, "chk_123")
	assert.Contains(t, got, "• 2x Widget - 20.00")
	assert.Contains(t, got, "• 1x Gadget - 5.00")
	assert.Contains(t, got, "Status:</b> Paid")
}

func TestFormatOrderPlaced(t *testing.T) {
	got := formatOrderPlaced(exampleSession)

	assert.Contains(t, got, "NEW ORDER - AWAITING PAYMENT LINK")
	assert.Contains(t, got, "EUR 25.00")
	assert.Contains(t, got, "/pay 1234 YOUR_PAYMENT_LINK")
	assert.Contains(t, got, "Customer is waiting")
}

func TestFormatWithoutCart(t *testing.T) {
	session := exampleSession
	session.Cart = nil

	assert.NotContains(t, formatPaymentReceived(session), "Products")
}

func TestFormatWithoutCustomer(t *testing.T) {
	session := exampleSession
	session.Customer = checkoutapi.Customer{}

	got := formatPaymentReceived(session)
	assert.NotContains(t, got, "Customer:")
	assert.NotContains(t, got, "Email:")
	assert.Contains(t, got, "chk_123")
}
