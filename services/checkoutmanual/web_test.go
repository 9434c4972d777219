package checkoutmanual

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/authenshop/paygate/lib/mytime"
	"github.com/authenshop/paygate/services/checkoutapi"
	"github.com/authenshop/paygate/services/notifier"
	"github.com/authenshop/paygate/services/orderledger"
)

func TestCheckoutService(t *testing.T) {

	t.Run("Checkout renders waiting page with a fresh order number", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, numberer, _, _ := setup(t, ctrl)

		// given
		numberer.EXPECT().Create().Return("1234")

		// when
		request, err := http.NewRequest(http.MethodPost, "/manual/checkout",
			strings.NewReader(`amount=10.00&currency=eur&return_url=https://shop.example/thanks`))
		assert.NoError(t, err)
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), "Order #1234")
		assert.Contains(t, response.Body.String(), "EUR 10.00")
		assert.Contains(t, response.Body.String(), "/manual/api/check-link/")
	})

	t.Run("Checkout with missing parameters", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, _ := setup(t, ctrl)

		// when
		request, _ := http.NewRequest(http.MethodPost, "/manual/checkout", strings.NewReader(`amount=10.00`))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 400, response.Code)
	})

	t.Run("Notify records the order and pages the operator", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, ledger, _, nower, notify := setup(t, ctrl)

		// given
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		notify.EXPECT().OrderPlaced(gomock.Any(), gomock.Any()).Return(nil)

		// when
		request, _ := http.NewRequest(http.MethodPost, "/manual/api/notify",
			strings.NewReader(`{"orderId":"1234","amount":"10.00","currency":"EUR","returnUrl":"https://shop.example/thanks","customerData":{"firstName":"Ana","email":"ana@home.es"},"cartData":{"items":[{"title":"Widget","quantity":2,"price":500}]}}`))
		request.Header.Set("Content-Type", "application/json")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), `"orderId": "1234"`)

		session, found, _ := ledger.Get(ctx, "1234")
		assert.True(t, found)
		assert.Equal(t, "1234", session.OrderRef)
		assert.Equal(t, "manual", session.Provider)
		assert.Equal(t, checkoutapi.SessionStatusPending, session.Status)
		assert.Equal(t, int64(1000), session.Amount.Value)
		assert.Equal(t, "ana@home.es", session.Customer.Email)
		assert.Len(t, session.Cart, 1)
	})

	t.Run("Notify succeeds even when the operator channel is down", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, ledger, _, nower, notify := setup(t, ctrl)

		// given
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		notify.EXPECT().OrderPlaced(gomock.Any(), gomock.Any()).Return(fmt.Errorf("telegram is down"))

		// when
		request, _ := http.NewRequest(http.MethodPost, "/manual/api/notify",
			strings.NewReader(`{"orderId":"5678","amount":"10.00","currency":"EUR"}`))
		request.Header.Set("Content-Type", "application/json")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		_, found, _ := ledger.Get(ctx, "5678")
		assert.True(t, found)
	})

	t.Run("Notify without order number", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, _ := setup(t, ctrl)

		// when
		request, _ := http.NewRequest(http.MethodPost, "/manual/api/notify",
			strings.NewReader(`{"amount":"10.00","currency":"EUR"}`))
		request.Header.Set("Content-Type", "application/json")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 400, response.Code)
	})

	t.Run("Check link while the operator has not answered", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, ledger, _, _, _ := setup(t, ctrl)
		_ = ledger.Put(ctx, checkoutapi.OrderSession{SessionID: "1234", OrderRef: "1234", Provider: "manual"})

		// when
		request, _ := http.NewRequest(http.MethodGet, "/manual/api/check-link/1234", nil)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), `"paymentLink": null`)
	})

	t.Run("Check link after the operator answered", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, ledger, _, _, _ := setup(t, ctrl)
		_ = ledger.Put(ctx, checkoutapi.OrderSession{SessionID: "1234", OrderRef: "1234", Provider: "manual"})
		err := ledger.AttachSettlementByRef(ctx, "1234", checkoutapi.Settlement{
			Paid:        true,
			RedirectURL: "https://pay.example/abc",
		})
		assert.NoError(t, err)

		// when
		request, _ := http.NewRequest(http.MethodGet, "/manual/api/check-link/1234", nil)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), `"paymentLink": "https://pay.example/abc"`)
	})

	t.Run("Order outlives the page's polling window", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, ledger, _, nower, notify := setup(t, ctrl)

		// given
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		notify.EXPECT().OrderPlaced(gomock.Any(), gomock.Any()).Return(nil)

		request, _ := http.NewRequest(http.MethodPost, "/manual/api/notify",
			strings.NewReader(`{"orderId":"1234","amount":"10.00","currency":"EUR"}`))
		request.Header.Set("Content-Type", "application/json")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)
		assert.Equal(t, 200, response.Code)

		// when: the page stopped polling long ago, the operator answers late
		request, _ = http.NewRequest(http.MethodGet, "/manual/api/check-link/1234", nil)
		response = httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then: the entry is still there, link still pending, no artifact
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), `"paymentLink": null`)

		session, found, _ := ledger.GetByRef(ctx, "1234")
		assert.True(t, found)
		assert.Nil(t, session.Settlement)
		assert.Equal(t, mytime.ExampleTime, session.CreatedAt)
	})

	t.Run("Check link for unknown order reads as no link yet", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, _ := setup(t, ctrl)

		// when
		request, _ := http.NewRequest(http.MethodGet, "/manual/api/check-link/9999", nil)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), `"paymentLink": null`)
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, orderledger.Ledger, *MockOrderNumberer, *mytime.MockNower, *notifier.MockNotifier) {
	c := context.TODO()
	ledger := orderledger.New()
	numberer := NewMockOrderNumberer(ctrl)
	nower := mytime.NewMockNower(ctrl)
	notify := notifier.NewMockNotifier(ctrl)

	sut, err := NewWebService(ledger, notify, numberer, nower)
	assert.NoError(t, err)

	router := mux.NewRouter()
	err = sut.RegisterEndpoints(c, router)
	assert.NoError(t, err)

	return c, router, ledger, numberer, nower, notify
}
