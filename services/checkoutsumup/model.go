package checkoutsumup

import (
	"github.com/authenshop/paygate/services/checkoutapi"
)

// Wire shapes of the SumUp checkout API.

type CreateCheckoutRequest struct {
	CheckoutReference string  `json:"checkout_reference"`
	Amount            float64 `json:"amount"`
	Currency          string  `json:"currency"`
	PayToEmail        string  `json:"pay_to_email"`
	Description       string  `json:"description"`
}

type Checkout struct {
	ID                string        `json:"id"`
	CheckoutReference string        `json:"checkout_reference"`
	Amount            float64       `json:"amount"`
	Currency          string        `json:"currency"`
	Status            string        `json:"status"`
	Date              string        `json:"date,omitempty"`
	Transactions      []Transaction `json:"transactions,omitempty"`
}

type Transaction struct {
	ID     string  `json:"id"`
	Status string  `json:"status"`
	Amount float64 `json:"amount,omitempty"`
}

const (
	checkoutStatusPending = "PENDING"
	checkoutStatusPaid    = "PAID"
	checkoutStatusFailed  = "FAILED"

	transactionStatusSuccessful = "SUCCESSFUL"
)

// classifyCheckoutStatus maps a SumUp checkout onto the normalized
// vocabulary. The checkout-level status may lag the transaction-level
// outcome, so an unambiguous successful transaction wins over whatever
// the top level says.
func classifyCheckoutStatus(checkout Checkout) checkoutapi.SessionStatus {
	for _, txn := range checkout.Transactions {
		if txn.Status == transactionStatusSuccessful {
			return checkoutapi.SessionStatusPaid
		}
	}

	switch checkout.Status {
	case checkoutStatusPaid:
		return checkoutapi.SessionStatusPaid
	case checkoutStatusFailed:
		return checkoutapi.SessionStatusFailed
	case checkoutStatusPending:
		return checkoutapi.SessionStatusPending

	default:
		return checkoutapi.SessionStatusUnknown
	}
}
