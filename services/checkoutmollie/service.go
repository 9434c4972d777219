package checkoutmollie

import (
	"context"
	"fmt"
	"net/url"

	"github.com/VictorAvelar/mollie-api-go/v3/mollie"

	"github.com/authenshop/paygate/lib/myerrors"
	"github.com/authenshop/paygate/lib/mylog"
	"github.com/authenshop/paygate/lib/mytime"
	"github.com/authenshop/paygate/services/checkoutapi"
	"github.com/authenshop/paygate/services/orderledger"
	"github.com/authenshop/paygate/services/reconciler"
)

type service struct {
	apiKey     string
	payer      Payer
	ledger     orderledger.Ledger
	reconciler *reconciler.Reconciler
	nower      mytime.Nower
	logger     mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(apiKey string, payer Payer, ledger orderledger.Ledger, recon *reconciler.Reconciler, nower mytime.Nower, logger mylog.Logger) *service {
	return &service{
		apiKey:     apiKey,
		payer:      payer,
		ledger:     ledger,
		reconciler: recon,
		nower:      nower,
		logger:     logger,
	}
}

func (s *service) startCheckout(c context.Context, orderRef string, form checkoutapi.CheckoutForm, request mollie.Payment) (string, error) {
	amount, err := form.ToAmount()
	if err != nil {
		return "", err
	}

	s.logger.Log(c, orderRef, mylog.SeverityInfo, "Start mollie checkout for order %s over %s", orderRef, amount)

	s.payer.UseAPIKey(s.apiKey)
	payment, err := s.payer.CreatePayment(c, request)
	if err != nil {
		// no ledger entry for a failed creation
		return "", myerrors.NewUnavailableError(fmt.Errorf("error creating payment: %s", err))
	}

	err = s.ledger.Put(c, checkoutapi.OrderSession{
		SessionID: payment.ID,
		OrderRef:  orderRef,
		Provider:  "mollie",
		Amount:    amount,
		Customer:  form.Customer,
		Cart:      form.ParseCart(),
		ReturnURL: form.ReturnURL,
		CreatedAt: s.nower.Now(),
		Status:    checkoutapi.SessionStatusPending,

		// mollie receives the shopper identity with the payment, so a
		// missing customer form just means there is nothing to wait for
		AwaitingCustomer: false,
	})
	if err != nil {
		return "", myerrors.NewInternalError(fmt.Errorf("error storing session %s: %s", payment.ID, err))
	}

	s.logger.Log(c, payment.ID, mylog.SeverityInfo, "Mollie payment %s created for order %s", payment.ID, orderRef)

	return payment.Links.Checkout.Href, nil
}

// webhookNotification handles the asynchronous status push from mollie: a
// single reconciliation pass for the payment named in the webhook.
func (s *service) webhookNotification(c context.Context, paymentID string) error {
	s.logger.Log(c, paymentID, mylog.SeverityInfo, "Webhook: status update for payment '%s'", paymentID)

	s.payer.UseAPIKey(s.apiKey)
	_, err := s.reconciler.Reconcile(c, paymentID)

	return err
}

func (s *service) finalizeCheckout(c context.Context, orderRef string, status string) (string, error) {
	s.logger.Log(c, orderRef, mylog.SeverityInfo, "Redirect: checkout completed for order %s -> %s", orderRef, status)

	session, found, err := s.ledger.GetByRef(c, orderRef)
	if err != nil {
		return "", myerrors.NewInternalError(fmt.Errorf("error fetching order %s: %s", orderRef, err))
	}
	if !found {
		return "", myerrors.NewNotFoundErrorf("order with reference %s not found", orderRef)
	}

	now := s.nower.Now()
	_, _, _ = s.ledger.Update(c, session.SessionID, func(session *checkoutapi.OrderSession) {
		session.LastModified = &now
	})

	return addStatusQueryParam(session.ReturnURL, status)
}

func addStatusQueryParam(orgURL string, status string) (string, error) {
	u, err := url.Parse(orgURL)
	if err != nil {
		return "", myerrors.NewInternalError(fmt.Errorf("error parsing return URL %s: %s", orgURL, err))
	}
	params := u.Query()
	params.Set("status", status)
	u.RawQuery = params.Encode()
	return u.String(), nil
}

type statusFetcher struct {
	apiKey string
	payer  Payer
}

func newStatusFetcher(apiKey string, payer Payer) reconciler.StatusFetcher {
	return statusFetcher{apiKey: apiKey, payer: payer}
}

func (f statusFetcher) FetchStatus(c context.Context, sessionID string) (checkoutapi.SessionStatus, string, error) {
	payment, err := f.payer.GetPaymentOnID(c, sessionID)
	if err != nil {
		return checkoutapi.SessionStatusUnknown, "", err
	}

	return classifyPaymentStatus(payment.Status), payment.Status, nil
}

func classifyPaymentStatus(mollieStatus string) checkoutapi.SessionStatus {
	switch mollieStatus {
	case "paid":
		return checkoutapi.SessionStatusPaid
	case "failed", "canceled", "expired":
		return checkoutapi.SessionStatusFailed
	case "open", "pending", "authorized":
		return checkoutapi.SessionStatusPending

	default:
		return checkoutapi.SessionStatusUnknown
	}
}
