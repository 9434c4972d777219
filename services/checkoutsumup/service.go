package checkoutsumup

import (
	"context"
	"fmt"

	"github.com/authenshop/paygate/lib/myerrors"
	"github.com/authenshop/paygate/lib/mylog"
	"github.com/authenshop/paygate/lib/mytime"
	"github.com/authenshop/paygate/services/checkoutapi"
	"github.com/authenshop/paygate/services/orderledger"
	"github.com/authenshop/paygate/services/reconciler"
)

type service struct {
	payToEmail string
	payer      Payer
	ledger     orderledger.Ledger
	reconciler *reconciler.Reconciler
	nower      mytime.Nower
	logger     mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(payToEmail string, payer Payer, ledger orderledger.Ledger, recon *reconciler.Reconciler, nower mytime.Nower, logger mylog.Logger) *service {
	return &service{
		payToEmail: payToEmail,
		payer:      payer,
		ledger:     ledger,
		reconciler: recon,
		nower:      nower,
		logger:     logger,
	}
}

func (s *service) startCheckout(c context.Context, form checkoutapi.CheckoutForm) (checkoutapi.OrderSession, error) {
	amount, err := form.ToAmount()
	if err != nil {
		return checkoutapi.OrderSession{}, err
	}

	now := s.nower.Now()
	reference := checkoutReference(form.OrderRef, now.UnixMilli())

	s.logger.Log(c, reference, mylog.SeverityInfo, "Start sumup checkout %s over %s", reference, amount)

	checkout, err := s.payer.CreateCheckout(c, CreateCheckoutRequest{
		CheckoutReference: reference,
		Amount:            float64(amount.Value) / 100.0,
		Currency:          amount.Currency,
		PayToEmail:        s.payToEmail,
		Description:       "Order " + form.OrderRef,
	})
	if err != nil {
		// no ledger entry for a failed creation
		return checkoutapi.OrderSession{}, myerrors.NewUnavailableError(fmt.Errorf("error creating checkout: %s", err))
	}

	session := checkoutapi.OrderSession{
		SessionID: checkout.ID,
		OrderRef:  form.OrderRef,
		Provider:  "sumup",
		Amount:    amount,
		Cart:      form.ParseCart(),
		ReturnURL: form.ReturnURL,
		CreatedAt: now,
		Status:    checkoutapi.SessionStatusPending,

		// the customer identity arrives out-of-band from the payer's own
		// submission; the provider never sees it
		AwaitingCustomer: true,
	}
	err = s.ledger.Put(c, session)
	if err != nil {
		return checkoutapi.OrderSession{}, myerrors.NewInternalError(fmt.Errorf("error storing session %s: %s", checkout.ID, err))
	}

	s.logger.Log(c, checkout.ID, mylog.SeverityInfo, "Sumup checkout %s created as session %s", reference, checkout.ID)

	return session, nil
}

func (s *service) checkPayment(c context.Context, checkoutID string) (checkoutapi.StatusResponse, error) {
	status, err := s.reconciler.Reconcile(c, checkoutID)
	if err != nil {
		return checkoutapi.StatusResponse{}, err
	}

	resp := checkoutapi.StatusResponse{Status: status}
	session, found, _ := s.ledger.Get(c, checkoutID)
	if found {
		resp.Details = session.StatusDetails
	}

	return resp, nil
}

func (s *service) saveCustomerData(c context.Context, request checkoutapi.CustomerDataRequest) error {
	_, found, err := s.ledger.MergeCustomer(c, request.CheckoutID, request.CustomerData, request.CartData.ItemsOrNil())
	if err != nil {
		return myerrors.NewInternalError(err)
	}
	if !found {
		return myerrors.NewNotFoundErrorf("session with id %s not found", request.CheckoutID)
	}

	// re-reconcile so the deferred operator notification can fire now
	// that the customer snapshot is on board
	_, err = s.reconciler.Reconcile(c, request.CheckoutID)
	if err != nil {
		return err
	}

	return nil
}

func checkoutReference(orderRef string, nowMillis int64) string {
	if orderRef == "" {
		return fmt.Sprintf("order-%d", nowMillis)
	}
	return fmt.Sprintf("order-%s-%d", orderRef, nowMillis)
}
