package notifier

import (
	"context"

	"github.com/authenshop/paygate/services/checkoutapi"
)

// Notifier delivers human-readable order events to the operator channel.
// Delivery failures must never fail the payer-facing flow: callers log
// and continue.
//
//go:generate mockgen -source=api.go -package notifier -destination notifier_mock.go Notifier
type Notifier interface {
	OrderPlaced(c context.Context, session checkoutapi.OrderSession) error
	PaymentReceived(c context.Context, session checkoutapi.OrderSession) error
}
