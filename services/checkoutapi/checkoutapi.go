package checkoutapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	formcodec "github.com/go-playground/form/v4"

	"github.com/authenshop/paygate/lib/myerrors"
)

// CheckoutForm is the order submission every variant accepts on its
// checkout endpoint.
type CheckoutForm struct {
	Amount    string   `form:"amount"`
	Currency  string   `form:"currency"`
	OrderRef  string   `form:"order_id"`
	ReturnURL string   `form:"return_url"`
	CartItems string   `form:"cart_items"`
	Customer  Customer `form:"customer"`
}

func NewFromRequest(r *http.Request) (CheckoutForm, error) {
	err := r.ParseForm()
	if err != nil {
		return CheckoutForm{}, myerrors.NewInvalidInputError(err)
	}
	return NewFromValues(r.Form)
}

func NewFromValues(values url.Values) (CheckoutForm, error) {
	form := CheckoutForm{}
	err := formcodec.NewDecoder().Decode(&form, values)
	if err != nil {
		return form, fmt.Errorf("error decoding form: %s", err)
	}

	return form, nil
}

func (f CheckoutForm) Validate() error {
	if f.Amount == "" || f.Currency == "" {
		return myerrors.NewInvalidInputErrorf("missing required parameters amount and currency")
	}
	return nil
}

// ToAmount converts the submitted decimal amount into minor currency units.
func (f CheckoutForm) ToAmount() (Amount, error) {
	value, err := strconv.ParseFloat(f.Amount, 64)
	if err != nil {
		return Amount{}, myerrors.NewInvalidInputErrorf("malformed amount %q: %s", f.Amount, err)
	}

	return Amount{
		Currency: strings.ToUpper(f.Currency),
		Value:    int64(value*100 + 0.5),
	}, nil
}

// ParseCart decodes the optional cart_items JSON. A malformed cart is
// dropped rather than failing the checkout.
func (f CheckoutForm) ParseCart() []CartItem {
	if f.CartItems == "" {
		return nil
	}

	cart := struct {
		Items []CartItem `json:"items"`
	}{}
	err := json.Unmarshal([]byte(f.CartItems), &cart)
	if err != nil {
		return nil
	}

	return cart.Items
}

// CustomerDataRequest is the payer-submitted contact snapshot that the
// sumup poll page posts after the payment has been observed as paid.
type CustomerDataRequest struct {
	CheckoutID   string    `json:"checkoutId"`
	CustomerData Customer  `json:"customerData"`
	CartData     *CartData `json:"cartData"`
}

// NotifyOrderRequest is the manual-link order submission.
type NotifyOrderRequest struct {
	OrderRef     string    `json:"orderId"`
	Amount       string    `json:"amount"`
	Currency     string    `json:"currency"`
	ReturnURL    string    `json:"returnUrl"`
	CustomerData Customer  `json:"customerData"`
	CartData     *CartData `json:"cartData"`
}

type CartData struct {
	Items []CartItem `json:"items"`
}

func (c *CartData) ItemsOrNil() []CartItem {
	if c == nil {
		return nil
	}
	return c.Items
}

type StatusResponse struct {
	Status  SessionStatus `json:"status"`
	Details string        `json:"details,omitempty"`
}

type PaymentLinkResponse struct {
	PaymentLink *string `json:"paymentLink"`
}
