package checkoutmanual

import (
	"context"

	"github.com/authenshop/paygate/lib/myerrors"
	"github.com/authenshop/paygate/lib/mylog"
	"github.com/authenshop/paygate/lib/mytime"
	"github.com/authenshop/paygate/services/checkoutapi"
	"github.com/authenshop/paygate/services/notifier"
	"github.com/authenshop/paygate/services/orderledger"
)

// The manual variant has no payment provider at all: the operator is
// paged over the notification channel and answers with a payment link,
// which the waiting checkout page polls for.
type service struct {
	ledger   orderledger.Ledger
	notifier notifier.Notifier
	nower    mytime.Nower
	logger   mylog.Logger
}

func newService(ledger orderledger.Ledger, notify notifier.Notifier, nower mytime.Nower, logger mylog.Logger) *service {
	return &service{
		ledger:   ledger,
		notifier: notify,
		nower:    nower,
		logger:   logger,
	}
}

// placeOrder records the order and pages the operator. The short order
// number doubles as session id: there is no provider to assign one.
func (s *service) placeOrder(c context.Context, request checkoutapi.NotifyOrderRequest) (checkoutapi.OrderSession, error) {
	amount, err := checkoutapi.CheckoutForm{Amount: request.Amount, Currency: request.Currency}.ToAmount()
	if err != nil {
		return checkoutapi.OrderSession{}, err
	}

	session := checkoutapi.OrderSession{
		SessionID: request.OrderRef,
		OrderRef:  request.OrderRef,
		Provider:  "manual",
		Amount:    amount,
		Customer:  request.CustomerData,
		Cart:      request.CartData.ItemsOrNil(),
		ReturnURL: request.ReturnURL,
		CreatedAt: s.nower.Now(),
		Status:    checkoutapi.SessionStatusPending,
	}
	err = s.ledger.Put(c, session)
	if err != nil {
		return checkoutapi.OrderSession{}, myerrors.NewInternalError(err)
	}

	err = s.notifier.OrderPlaced(c, session)
	if err != nil {
		// The order stands even when the operator page fails.
		s.logger.Log(c, session.OrderRef, mylog.SeverityError, "Error notifying operator about order %s: %s", session.OrderRef, err)
	}

	s.logger.Log(c, session.OrderRef, mylog.SeverityInfo, "Order %s placed, awaiting payment link", session.OrderRef)

	return session, nil
}

// checkPaymentLink reports the operator-provided payment link, or a nil
// link while the operator has not answered yet. An unknown order reference
// also reads as "no link yet": the page keeps polling, it never errors out.
func (s *service) checkPaymentLink(c context.Context, orderRef string) (checkoutapi.PaymentLinkResponse, error) {
	session, found, err := s.ledger.GetByRef(c, orderRef)
	if err != nil {
		return checkoutapi.PaymentLinkResponse{}, myerrors.NewInternalError(err)
	}
	if !found {
		return checkoutapi.PaymentLinkResponse{}, nil
	}

	resp := checkoutapi.PaymentLinkResponse{}
	if session.Settlement != nil && session.Settlement.RedirectURL != "" {
		resp.PaymentLink = &session.Settlement.RedirectURL
	}

	return resp, nil
}
