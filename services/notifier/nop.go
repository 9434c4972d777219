package notifier

import (
	"context"

	"github.com/authenshop/paygate/lib/mylog"
	"github.com/authenshop/paygate/services/checkoutapi"
)

// nopNotifier is used when no telegram credentials are configured.
type nopNotifier struct {
	logger mylog.Logger
}

func NewNopNotifier() Notifier {
	return &nopNotifier{
		logger: mylog.New("notifier"),
	}
}

func (n *nopNotifier) OrderPlaced(c context.Context, session checkoutapi.OrderSession) error {
	n.logger.Log(c, session.SessionID, mylog.SeverityInfo, "Notifier not configured: dropping new-order event for %s", session.OrderRef)
	return nil
}

func (n *nopNotifier) PaymentReceived(c context.Context, session checkoutapi.OrderSession) error {
	n.logger.Log(c, session.SessionID, mylog.SeverityInfo, "Notifier not configured: dropping payment-received event for %s", session.SessionID)
	return nil
}
