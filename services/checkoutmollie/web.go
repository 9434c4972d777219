package checkoutmollie

import (
	"context"
	"fmt"
	"net/http"

	"github.com/VictorAvelar/mollie-api-go/v3/mollie"
	"github.com/gorilla/mux"

	"github.com/authenshop/paygate/lib/mycontext"
	"github.com/authenshop/paygate/lib/myerrors"
	"github.com/authenshop/paygate/lib/myhttp"
	"github.com/authenshop/paygate/lib/mylog"
	"github.com/authenshop/paygate/lib/mytime"
	"github.com/authenshop/paygate/lib/myuuid"
	"github.com/authenshop/paygate/services/checkoutapi"
	"github.com/authenshop/paygate/services/notifier"
	"github.com/authenshop/paygate/services/orderledger"
	"github.com/authenshop/paygate/services/reconciler"
)

type webService struct {
	logger  mylog.Logger
	service *service
	uuider  myuuid.UUIDer
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(apiKey string, payer Payer, ledger orderledger.Ledger, notify notifier.Notifier, nower mytime.Nower, uuider myuuid.UUIDer) (*webService, error) {
	logger := mylog.New("checkoutmollie")
	recon := reconciler.New(newStatusFetcher(apiKey, payer), ledger, notify, nower, logger)

	return &webService{
		logger:  logger,
		service: newService(apiKey, payer, ledger, recon, nower, logger),
		uuider:  uuider,
	}, nil
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/mollie/checkout", s.startCheckoutPage()).Methods("POST")

	// Mollie redirects the shopper here after the hosted checkout
	router.HandleFunc("/mollie/checkout/{orderRef}/status/{status}", s.checkoutCompletedPage()).Methods("GET")

	// Asynchronous status push from mollie
	router.HandleFunc("/mollie/checkout/webhook", s.webhookNotification()).Methods("POST")

	return nil
}

// startCheckoutPage creates a payment on the mollie platform and redirects
// the shopper to its hosted checkout page.
func (s *webService) startCheckoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		request, orderRef, form, err := s.parseRequest(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("error parsing request: %s", err)))
			return
		}

		redirectURL, err := s.service.startCheckout(c, orderRef, form, request)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		http.Redirect(w, r, redirectURL, http.StatusSeeOther)
	}
}

func (s *webService) checkoutCompletedPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orderRef := mux.Vars(r)["orderRef"]
		status := mux.Vars(r)["status"]

		redirectURL, err := s.service.finalizeCheckout(c, orderRef, status)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		http.Redirect(w, r, redirectURL, http.StatusSeeOther)
	}
}

func (s *webService) webhookNotification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 4, myerrors.NewInvalidInputError(err))
			return
		}

		id := r.FormValue("id")
		if id == "" {
			errorWriter.WriteError(c, w, 5, myerrors.NewInvalidInputErrorf("missing id"))
			return
		}

		err = s.service.webhookNotification(c, id)
		if err != nil {
			// ack-on-receipt: the transport response does not fail on a
			// business error, mollie would only keep retrying
			s.logger.Log(c, id, mylog.SeverityWarn, "Webhook for payment %s not fully processed: %s", id, err)
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.Success())
	}
}

func (s *webService) parseRequest(r *http.Request) (mollie.Payment, string, checkoutapi.CheckoutForm, error) {
	form, err := checkoutapi.NewFromRequest(r)
	if err != nil {
		return mollie.Payment{}, "", form, err
	}
	err = form.Validate()
	if err != nil {
		return mollie.Payment{}, "", form, err
	}

	orderRef := form.OrderRef
	if orderRef == "" {
		orderRef = s.uuider.Create()
	}

	amount, err := form.ToAmount()
	if err != nil {
		return mollie.Payment{}, "", form, err
	}

	hostname := myhttp.HostnameWithScheme(r)
	request := mollie.Payment{
		Description:  "Order " + orderRef,
		BillingEmail: form.Customer.Email,
		ConsumerName: form.Customer.FullName(),
		RedirectURL:  fmt.Sprintf("%s/mollie/checkout/%s/status/success", hostname, orderRef),
		CancelURL:    fmt.Sprintf("%s/mollie/checkout/%s/status/cancelled", hostname, orderRef),
		WebhookURL:   fmt.Sprintf("%s/mollie/checkout/webhook", hostname),
		Metadata: map[string]string{
			"orderRef": orderRef,
		},
		Amount: &mollie.Amount{
			Currency: amount.Currency,
			Value:    fmt.Sprintf("%.2f", float64(amount.Value)/100.0),
		},
	}

	return request, orderRef, form, nil
}
