package checkoutsumup

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/authenshop/paygate/lib/mytime"
	"github.com/authenshop/paygate/services/checkoutapi"
	"github.com/authenshop/paygate/services/notifier"
	"github.com/authenshop/paygate/services/orderledger"
)

func TestCheckoutService(t *testing.T) {

	t.Run("Create checkout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, ledger, payer, nower, _ := setup(t, ctrl)

		// given
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		payer.EXPECT().CreateCheckout(gomock.Any(), CreateCheckoutRequest{
			CheckoutReference: fmt.Sprintf("order-ORD-1-%d", mytime.ExampleTime.UnixMilli()),
			Amount:            10.00,
			Currency:          "EUR",
			PayToEmail:        "merchant@shop.example",
			Description:       "Order ORD-1",
		}).Return(Checkout{ID: "chk_123", Status: "PENDING"}, nil)

		// when
		request, err := http.NewRequest(http.MethodPost, "/checkout",
			strings.NewReader(`amount=10.00&currency=EUR&order_id=ORD-1&return_url=https://shop.example/thanks`))
		assert.NoError(t, err)
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		got := response.Body.String()
		assert.Contains(t, got, "EUR 10.00")
		assert.Contains(t, got, "chk_123")

		session, found, _ := ledger.Get(ctx, "chk_123")
		assert.True(t, found)
		assert.Equal(t, "ORD-1", session.OrderRef)
		assert.True(t, session.AwaitingCustomer)
		assert.Equal(t, checkoutapi.SessionStatusPending, session.Status)
	})

	t.Run("Create checkout with missing parameters", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, _ := setup(t, ctrl)

		// when
		request, _ := http.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`amount=10.00`))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 400, response.Code)
	})

	t.Run("Create checkout with provider down", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, ledger, payer, nower, _ := setup(t, ctrl)

		// given
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		payer.EXPECT().CreateCheckout(gomock.Any(), gomock.Any()).Return(Checkout{}, fmt.Errorf("connection refused"))

		// when
		request, _ := http.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`amount=10.00&currency=EUR&order_id=ORD-1`))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then: user-facing error page, no ledger entry
		assert.Equal(t, 503, response.Code)
		assert.Contains(t, response.Body.String(), "An error occurred")

		_, found, _ := ledger.GetByRef(ctx, "ORD-1")
		assert.False(t, found)
	})

	t.Run("Check payment returns provider status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, ledger, payer, nower, _ := setup(t, ctrl)
		_ = ledger.Put(context.TODO(), checkoutapi.OrderSession{SessionID: "chk_123", AwaitingCustomer: true})

		// given
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		payer.EXPECT().GetCheckout(gomock.Any(), "chk_123").Return(Checkout{
			ID:           "chk_123",
			Status:       "PENDING",
			Transactions: []Transaction{{ID: "txn_1", Status: "SUCCESSFUL"}},
		}, nil)

		// when
		request, _ := http.NewRequest(http.MethodGet, "/api/check-payment/chk_123", nil)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then: transaction-level success wins over the lagging top level
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), `"status": "PAID"`)
	})

	t.Run("Check payment with provider blip keeps the client polling", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, payer, _, _ := setup(t, ctrl)

		// given
		payer.EXPECT().GetCheckout(gomock.Any(), "chk_123").Return(Checkout{}, fmt.Errorf("timeout"))

		// when
		request, _ := http.NewRequest(http.MethodGet, "/api/check-payment/chk_123", nil)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), `"status": "PENDING"`)
	})

	t.Run("Save customer data triggers the deferred notification", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, ledger, payer, nower, notify := setup(t, ctrl)
		_ = ledger.Put(ctx, checkoutapi.OrderSession{
			SessionID:        "chk_123",
			Provider:         "sumup",
			Amount:           checkoutapi.Amount{Currency: "EUR", Value: 1000},
			AwaitingCustomer: true,
		})

		// given
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		payer.EXPECT().GetCheckout(gomock.Any(), "chk_123").Return(Checkout{ID: "chk_123", Status: "PAID"}, nil)
		notify.EXPECT().PaymentReceived(gomock.Any(), gomock.Any()).Return(nil)

		// when
		request, _ := http.NewRequest(http.MethodPost, "/api/save-customer-data", strings.NewReader(`{
			"checkoutId": "chk_123",
			"customerData": {"firstName": "Ana", "lastName": "García", "email": "ana@home.es", "address": "Calle Mayor 1", "postalCode": "28001", "city": "Madrid"},
			"cartData": {"items": [{"title": "Widget", "quantity": 1, "price": 1000}]}
		}`))
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), `"status": "success"`)

		session, found, _ := ledger.Get(ctx, "chk_123")
		assert.True(t, found)
		assert.False(t, session.AwaitingCustomer)
		assert.True(t, session.Notified)
		assert.Equal(t, "ana@home.es", session.Customer.Email)
	})

	t.Run("Session outlives the page's polling window", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, ledger, payer, nower, _ := setup(t, ctrl)
		_ = ledger.Put(ctx, checkoutapi.OrderSession{
			SessionID:        "chk_123",
			OrderRef:         "ORD-1",
			CreatedAt:        mytime.ExampleTime,
			Status:           checkoutapi.SessionStatusPending,
			AwaitingCustomer: true,
		})

		// given: a poll arriving well past the 120s page window
		afterWindow := mytime.ExampleTime.Add(121 * time.Second)
		nower.EXPECT().Now().Return(afterWindow)
		payer.EXPECT().GetCheckout(gomock.Any(), "chk_123").Return(Checkout{ID: "chk_123", Status: "PENDING"}, nil)

		// when
		request, _ := http.NewRequest(http.MethodGet, "/api/check-payment/chk_123", nil)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then: the page gave up, the entry did not
		assert.Equal(t, 200, response.Code)

		session, found, _ := ledger.GetByRef(ctx, "ORD-1")
		assert.True(t, found)
		assert.Nil(t, session.Settlement)
		assert.Equal(t, checkoutapi.SessionStatusPending, session.Status)
		assert.Equal(t, afterWindow, *session.LastModified)
	})

	t.Run("Save customer data for unknown session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, _ := setup(t, ctrl)

		// when
		request, _ := http.NewRequest(http.MethodPost, "/api/save-customer-data",
			strings.NewReader(`{"checkoutId": "nope", "customerData": {"firstName": "Ana"}}`))
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 404, response.Code)
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, orderledger.Ledger, *MockPayer, *mytime.MockNower, *notifier.MockNotifier) {
	c := context.TODO()
	ledger := orderledger.New()
	payer := NewMockPayer(ctrl)
	nower := mytime.NewMockNower(ctrl)
	notify := notifier.NewMockNotifier(ctrl)

	sut, err := NewWebService("merchant@shop.example", payer, ledger, notify, nower)
	assert.NoError(t, err)

	router := mux.NewRouter()
	err = sut.RegisterEndpoints(c, router)
	assert.NoError(t, err)

	return c, router, ledger, payer, nower, notify
}
