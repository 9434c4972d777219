package orderledger

import (
	"context"
	"sync"

	"github.com/authenshop/paygate/lib/myerrors"
	"github.com/authenshop/paygate/services/checkoutapi"
)

type inMemoryLedger struct {
	sync.Mutex
	sessions map[string]checkoutapi.OrderSession
	refs     map[string]string // order ref -> session id
}

func newInMemoryLedger() *inMemoryLedger {
	return &inMemoryLedger{
		sessions: make(map[string]checkoutapi.OrderSession),
		refs:     make(map[string]string),
	}
}

func (l *inMemoryLedger) Put(c context.Context, session checkoutapi.OrderSession) error {
	l.Lock()
	defer l.Unlock()

	l.sessions[session.SessionID] = session
	if session.OrderRef != "" {
		l.refs[session.OrderRef] = session.SessionID
	}

	return nil
}

func (l *inMemoryLedger) Get(c context.Context, sessionID string) (checkoutapi.OrderSession, bool, error) {
	l.Lock()
	defer l.Unlock()

	session, exists := l.sessions[sessionID]

	return session, exists, nil
}

func (l *inMemoryLedger) GetByRef(c context.Context, orderRef string) (checkoutapi.OrderSession, bool, error) {
	l.Lock()
	defer l.Unlock()

	return l.getByRefLocked(orderRef)
}

func (l *inMemoryLedger) getByRefLocked(orderRef string) (checkoutapi.OrderSession, bool, error) {
	sessionID, exists := l.refs[orderRef]
	if !exists {
		return checkoutapi.OrderSession{}, false, nil
	}

	session, exists := l.sessions[sessionID]

	return session, exists, nil
}

func (l *inMemoryLedger) Update(c context.Context, sessionID string, fn UpdateFunc) (checkoutapi.OrderSession, bool, error) {
	l.Lock()
	defer l.Unlock()

	session, exists := l.sessions[sessionID]
	if !exists {
		return checkoutapi.OrderSession{}, false, nil
	}

	fn(&session)
	l.sessions[sessionID] = session

	return session, true, nil
}

func (l *inMemoryLedger) AttachSettlement(c context.Context, sessionID string, artifact checkoutapi.Settlement) error {
	l.Lock()
	defer l.Unlock()

	session, exists := l.sessions[sessionID]
	if !exists {
		return myerrors.NewNotFoundErrorf("session with id %s not found", sessionID)
	}

	l.attachLocked(session, artifact)

	return nil
}

func (l *inMemoryLedger) AttachSettlementByRef(c context.Context, orderRef string, artifact checkoutapi.Settlement) error {
	l.Lock()
	defer l.Unlock()

	session, exists, err := l.getByRefLocked(orderRef)
	if err != nil {
		return err
	}
	if !exists {
		return myerrors.NewNotFoundErrorf("order with reference %s not found", orderRef)
	}

	l.attachLocked(session, artifact)

	return nil
}

// attachLocked sets the artifact only when unset: the settlement
// transitions monotonically from unset to set.
func (l *inMemoryLedger) attachLocked(session checkoutapi.OrderSession, artifact checkoutapi.Settlement) {
	if session.Settlement != nil {
		return
	}

	session.Settlement = &artifact
	l.sessions[session.SessionID] = session
}

func (l *inMemoryLedger) MergeCustomer(c context.Context, sessionID string, customer checkoutapi.Customer, cart []checkoutapi.CartItem) (checkoutapi.OrderSession, bool, error) {
	return l.Update(c, sessionID, func(session *checkoutapi.OrderSession) {
		session.Customer = customer
		if len(cart) > 0 {
			session.Cart = cart
		}
		session.AwaitingCustomer = false
	})
}
