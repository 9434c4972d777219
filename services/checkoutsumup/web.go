package checkoutsumup

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/authenshop/paygate/lib/mycontext"
	"github.com/authenshop/paygate/lib/myerrors"
	"github.com/authenshop/paygate/lib/myhttp"
	"github.com/authenshop/paygate/lib/mylog"
	"github.com/authenshop/paygate/lib/mytime"
	"github.com/authenshop/paygate/services/checkoutapi"
	"github.com/authenshop/paygate/services/notifier"
	"github.com/authenshop/paygate/services/orderledger"
	"github.com/authenshop/paygate/services/reconciler"
)

//go:embed templates
var templateFolder embed.FS

var (
	checkoutPageTemplate *template.Template
	errorPageTemplate    *template.Template
)

func init() {
	checkoutPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/checkout.html"))
	errorPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/error.html"))
}

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(payToEmail string, payer Payer, ledger orderledger.Ledger, notify notifier.Notifier, nower mytime.Nower) (*webService, error) {
	logger := mylog.New("checkoutsumup")
	recon := reconciler.New(newStatusFetcher(payer), ledger, notify, nower, logger)

	return &webService{
		logger:  logger,
		service: newService(payToEmail, payer, ledger, recon, nower, logger),
	}, nil
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/checkout", s.startCheckoutPage()).Methods("POST")
	router.HandleFunc("/api/check-payment/{checkoutID}", s.checkPaymentStatus()).Methods("GET")
	router.HandleFunc("/api/save-customer-data", s.saveCustomerData()).Methods("POST")

	return nil
}

// startCheckoutPage creates a checkout on the SumUp platform and renders
// the card page that polls for completion.
func (s *webService) startCheckoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		form, err := checkoutapi.NewFromRequest(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("error parsing request: %s", err)))
			return
		}
		err = form.Validate()
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		session, err := s.service.startCheckout(c, form)
		if err != nil {
			s.renderErrorPage(c, w, err)
			return
		}

		s.renderCheckoutPage(c, w, session)
	}
}

func (s *webService) checkPaymentStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		checkoutID := mux.Vars(r)["checkoutID"]

		resp, err := s.service.checkPayment(c, checkoutID)
		if err != nil {
			if myerrors.IsUnavailable(err) {
				// a provider blip must look like "still pending" so the
				// client keeps polling instead of giving up
				errorWriter.Write(c, w, http.StatusOK, checkoutapi.StatusResponse{
					Status:  checkoutapi.SessionStatusPending,
					Details: "provider unavailable",
				})
				return
			}
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, resp)
	}
}

func (s *webService) saveCustomerData() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		request := checkoutapi.CustomerDataRequest{}
		err := json.NewDecoder(r.Body).Decode(&request)
		if err != nil {
			errorWriter.WriteError(c, w, 4, myerrors.NewInvalidInputError(fmt.Errorf("error parsing request: %s", err)))
			return
		}
		if request.CheckoutID == "" {
			errorWriter.WriteError(c, w, 5, myerrors.NewInvalidInputErrorf("missing checkoutId"))
			return
		}

		err = s.service.saveCustomerData(c, request)
		if err != nil {
			errorWriter.WriteError(c, w, 6, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.Success())
	}
}

type checkoutPage struct {
	CheckoutID string
	Amount     checkoutapi.Amount
	ReturnURL  string
	CartJSON   template.JS
}

func (s *webService) renderCheckoutPage(c context.Context, w http.ResponseWriter, session checkoutapi.OrderSession) {
	cartJSON := "null"
	if len(session.Cart) > 0 {
		raw, err := json.Marshal(checkoutapi.CartData{Items: session.Cart})
		if err == nil {
			cartJSON = string(raw)
		}
	}

	err := checkoutPageTemplate.Execute(w, checkoutPage{
		CheckoutID: session.SessionID,
		Amount:     session.Amount,
		ReturnURL:  session.ReturnURL,
		CartJSON:   template.JS(cartJSON),
	})
	if err != nil {
		s.logger.Log(c, session.SessionID, mylog.SeverityError, "Error rendering checkout page: %s", err)
	}
}

func (s *webService) renderErrorPage(c context.Context, w http.ResponseWriter, pageErr error) {
	s.logger.Log(c, "", mylog.SeverityError, "Error page: %s", pageErr)

	w.WriteHeader(myerrors.GetHttpStatus(pageErr))
	err := errorPageTemplate.Execute(w, struct{ Message string }{Message: pageErr.Error()})
	if err != nil {
		s.logger.Log(c, "", mylog.SeverityError, "Error rendering error page: %s", err)
	}
}

type statusFetcher struct {
	payer Payer
}

func newStatusFetcher(payer Payer) reconciler.StatusFetcher {
	return statusFetcher{payer: payer}
}

func (f statusFetcher) FetchStatus(c context.Context, sessionID string) (checkoutapi.SessionStatus, string, error) {
	checkout, err := f.payer.GetCheckout(c, sessionID)
	if err != nil {
		return checkoutapi.SessionStatusUnknown, "", err
	}

	return classifyCheckoutStatus(checkout), checkout.Status, nil
}
