package orderledger

import (
	"context"

	"github.com/authenshop/paygate/services/checkoutapi"
)

// UpdateFunc mutates a session in place under the ledger lock.
type UpdateFunc func(session *checkoutapi.OrderSession)

// Ledger is the in-memory registry of order sessions. Sessions are keyed
// by provider-assigned session id; the caller-facing order reference is a
// second, distinct keyspace kept as a lookup index.
//
// Entries live for the lifetime of the process: there is no eviction and
// no persistence across restarts.
type Ledger interface {
	Put(c context.Context, session checkoutapi.OrderSession) error
	Get(c context.Context, sessionID string) (checkoutapi.OrderSession, bool, error)
	GetByRef(c context.Context, orderRef string) (checkoutapi.OrderSession, bool, error)

	// Update applies fn atomically to the stored session.
	Update(c context.Context, sessionID string, fn UpdateFunc) (checkoutapi.OrderSession, bool, error)

	// AttachSettlement sets the settlement artifact if it is currently
	// unset. A repeated call is a no-op returning success, so that a
	// resent operator command cannot corrupt state. Unknown sessions
	// yield a not-found error.
	AttachSettlement(c context.Context, sessionID string, artifact checkoutapi.Settlement) error
	AttachSettlementByRef(c context.Context, orderRef string, artifact checkoutapi.Settlement) error

	// MergeCustomer stores the payer-submitted contact snapshot on an
	// existing session and clears its awaiting-customer marker.
	MergeCustomer(c context.Context, sessionID string, customer checkoutapi.Customer, cart []checkoutapi.CartItem) (checkoutapi.OrderSession, bool, error)
}

func New() Ledger {
	return newInMemoryLedger()
}
