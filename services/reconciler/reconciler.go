package reconciler

import (
	"context"
	"fmt"

	"github.com/authenshop/paygate/lib/myerrors"
	"github.com/authenshop/paygate/lib/mylog"
	"github.com/authenshop/paygate/lib/mytime"
	"github.com/authenshop/paygate/services/checkoutapi"
	"github.com/authenshop/paygate/services/notifier"
	"github.com/authenshop/paygate/services/orderledger"
)

// Reconciler performs a single reconciliation pass for one session: ask
// the provider for the current status, record it on the ledger entry and,
// the first time a session is observed as paid with customer data on
// board, notify the operator.
type Reconciler struct {
	fetcher  StatusFetcher
	ledger   orderledger.Ledger
	notifier notifier.Notifier
	nower    mytime.Nower
	logger   mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func New(fetcher StatusFetcher, ledger orderledger.Ledger, notify notifier.Notifier, nower mytime.Nower, logger mylog.Logger) *Reconciler {
	return &Reconciler{
		fetcher:  fetcher,
		ledger:   ledger,
		notifier: notify,
		nower:    nower,
		logger:   logger,
	}
}

// Reconcile returns the freshest normalized status on every call. Side
// effects (settlement marker, operator notification) fire at most once
// per session, so repeated polling is safe.
func (r *Reconciler) Reconcile(c context.Context, sessionID string) (checkoutapi.SessionStatus, error) {
	status, details, err := r.fetcher.FetchStatus(c, sessionID)
	if err != nil {
		return checkoutapi.SessionStatusUnknown, myerrors.NewUnavailableError(fmt.Errorf("error fetching status of session %s: %s", sessionID, err))
	}

	now := r.nower.Now()

	notify := false
	session, found, err := r.ledger.Update(c, sessionID, func(session *checkoutapi.OrderSession) {
		session.Status = status
		session.StatusDetails = details
		session.LastModified = &now

		if status != checkoutapi.SessionStatusPaid {
			return
		}

		if session.Settlement == nil {
			session.Settlement = &checkoutapi.Settlement{Paid: true}
		}

		// The notification waits for the payer-submitted contact
		// snapshot: in the polling variant the provider never learns
		// the customer identity.
		if !session.Notified && !session.AwaitingCustomer {
			session.Notified = true
			notify = true
		}
	})
	if err != nil {
		return status, err
	}
	if !found {
		// A webhook can outrun session creation; "not yet known" is an
		// expected state, the fresh provider status is still the answer.
		r.logger.Log(c, sessionID, mylog.SeverityWarn, "Status %s reported for unknown session %s", status, sessionID)
		return status, nil
	}

	if notify {
		err = r.notifier.PaymentReceived(c, session)
		if err != nil {
			// Failing to notify the operator must not fail the payment.
			r.logger.Log(c, sessionID, mylog.SeverityError, "Error notifying operator about session %s: %s", sessionID, err)
		}
	}

	return status, nil
}
