package checkoutmanual

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
	logger   mylog.Logger
	service  *service
	numberer OrderNumberer
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(ledger orderledger.Ledger, notify notifier.Notifier, numberer OrderNumberer, nower mytime.Nower) (*webService, error) {
	logger := mylog.New("checkoutmanual")

	return &webService{
		logger:   logger,
		service:  newService(ledger, notify, nower, logger),
		numberer: numberer,
	}, nil
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/manual/checkout", s.startCheckoutPage()).Methods("POST")
	router.HandleFunc("/manual/api/notify", s.notifyOrder()).Methods("POST")
	router.HandleFunc("/manual/api/check-link/{orderRef}", s.checkPaymentLink()).Methods("GET")

	return nil
}

// startCheckoutPage assigns an order number and renders the waiting page.
// Nothing is recorded yet: the page reports the order over the notify
// endpoint once it is up, then polls for the operator's payment link.
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

		orderRef := form.OrderRef
		if orderRef == "" {
			orderRef = s.numberer.Create()
		}

		s.renderCheckoutPage(c, w, orderRef, form)
	}
}

func (s *webService) notifyOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		request := checkoutapi.NotifyOrderRequest{}
		err := json.NewDecoder(r.Body).Decode(&request)
		if err != nil {
			errorWriter.WriteError(c, w, 3, myerrors.NewInvalidInputError(fmt.Errorf("error parsing request: %s", err)))
			return
		}
		if request.OrderRef == "" {
			errorWriter.WriteError(c, w, 4, myerrors.NewInvalidInputErrorf("missing orderId"))
			return
		}

		session, err := s.service.placeOrder(c, request)
		if err != nil {
			errorWriter.WriteError(c, w, 5, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, orderPlacedResponse{
			Status:   "ok",
			OrderRef: session.OrderRef,
		})
	}
}

func (s *webService) checkPaymentLink() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orderRef := mux.Vars(r)["orderRef"]

		resp, err := s.service.checkPaymentLink(c, orderRef)
		if err != nil {
			errorWriter.WriteError(c, w, 6, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, resp)
	}
}

type orderPlacedResponse struct {
	Status   string `json:"status"`
	OrderRef string `json:"orderId"`
}

type checkoutPage struct {
	OrderRef   string
	Amount     checkoutapi.Amount
	ReturnURL  string
	Cart       []checkoutapi.CartItem
	NotifyJSON template.JS
}

func (s *webService) renderCheckoutPage(c context.Context, w http.ResponseWriter, orderRef string, form checkoutapi.CheckoutForm) {
	amount, err := form.ToAmount()
	if err != nil {
		s.renderErrorPage(c, w, err)
		return
	}

	cart := form.ParseCart()
	request := checkoutapi.NotifyOrderRequest{
		OrderRef:     orderRef,
		Amount:       form.Amount,
		Currency:     amount.Currency,
		ReturnURL:    form.ReturnURL,
		CustomerData: form.Customer,
	}
	if len(cart) > 0 {
		request.CartData = &checkoutapi.CartData{Items: cart}
	}

	notifyJSON, err := json.Marshal(request)
	if err != nil {
		s.renderErrorPage(c, w, myerrors.NewInternalError(err))
		return
	}

	err = checkoutPageTemplate.Execute(w, checkoutPage{
		OrderRef:   orderRef,
		Amount:     amount,
		ReturnURL:  form.ReturnURL,
		Cart:       cart,
		NotifyJSON: template.JS(notifyJSON),
	})
	if err != nil {
		s.logger.Log(c, orderRef, mylog.SeverityError, "Error rendering checkout page: %s", err)
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
