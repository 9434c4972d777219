package checkoutapi

import (
	"fmt"
	"time"
)

// SessionStatus is the common status vocabulary derived from
// provider-specific status fields.
type SessionStatus string

const (
	SessionStatusPending SessionStatus = "PENDING"
	SessionStatusPaid    SessionStatus = "PAID"
	SessionStatusFailed  SessionStatus = "FAILED"
	SessionStatusUnknown SessionStatus = "UNKNOWN"
)

// OrderSession correlates a provider-assigned session identifier with the
// locally known order context. It is the single entity tracked by the
// order ledger.
type OrderSession struct {
	SessionID     string
	OrderRef      string
	Provider      string
	Amount        Amount
	Customer      Customer
	Cart          []CartItem
	ReturnURL     string
	CreatedAt     time.Time
	LastModified  *time.Time
	Status        SessionStatus
	StatusDetails string

	// Settlement is set at most once and never cleared afterwards.
	Settlement *Settlement

	// AwaitingCustomer marks sessions created from provider data alone.
	// The operator notification is deferred until the payer-submitted
	// contact snapshot has been merged in.
	AwaitingCustomer bool

	// Notified guards against repeated operator notifications for the
	// same payment.
	Notified bool
}

// Settlement is the terminal artifact of a successful confirmation path:
// either a confirmed-paid marker or an operator-supplied redirect link.
type Settlement struct {
	Paid        bool
	RedirectURL string
}

type Amount struct {
	Currency string
	Value    int64 // in minor currency units
}

func (a Amount) String() string {
	return fmt.Sprintf("%s %.2f", a.Currency, float64(a.Value)/100.0)
}

type Customer struct {
	FirstName  string `json:"firstName" form:"firstName"`
	LastName   string `json:"lastName" form:"lastName"`
	Email      string `json:"email" form:"email"`
	Phone      string `json:"phone" form:"phone"`
	Address    string `json:"address" form:"address"`
	PostalCode string `json:"postalCode" form:"postalCode"`
	City       string `json:"city" form:"city"`
}

func (c Customer) IsEmpty() bool {
	return c == Customer{}
}

func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

type CartItem struct {
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"` // unit price in minor currency units
	LinePrice int64  `json:"line_price,omitempty"`
}

// Total returns the pre-computed line total when present, the unit price
// times quantity otherwise.
func (i CartItem) Total() int64 {
	if i.LinePrice != 0 {
		return i.LinePrice
	}
	return i.Price * int64(i.Quantity)
}
