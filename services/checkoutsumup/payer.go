package checkoutsumup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/authenshop/paygate/lib/myerrors"
	"github.com/authenshop/paygate/lib/myhttpclient"
)

const sumupBaseURL = "https://api.sumup.com/v0.1"

//go:generate mockgen -source=payer.go -package checkoutsumup -destination payer_mock.go Payer
type Payer interface {
	CreateCheckout(ctx context.Context, request CreateCheckoutRequest) (Checkout, error)
	GetCheckout(ctx context.Context, checkoutID string) (Checkout, error)
}

type sumupPayer struct {
	sender  myhttpclient.HTTPSender
	baseURL string
}

func NewPayer(apiKey string) Payer {
	return newPayer(myhttpclient.New(apiKey), sumupBaseURL)
}

func newPayer(sender myhttpclient.HTTPSender, baseURL string) *sumupPayer {
	return &sumupPayer{
		sender:  sender,
		baseURL: baseURL,
	}
}

func (p *sumupPayer) CreateCheckout(ctx context.Context, request CreateCheckoutRequest) (Checkout, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return Checkout{}, myerrors.NewInternalError(fmt.Errorf("error marshalling checkout request: %s", err))
	}

	httpStatus, respPayload, err := p.sender.Send(ctx, http.MethodPost, p.baseURL+"/checkouts", body)
	if err != nil {
		return Checkout{}, fmt.Errorf("error creating sumup checkout: %s", err)
	}
	if httpStatus < 200 || httpStatus >= 300 {
		return Checkout{}, fmt.Errorf("error creating sumup checkout: http %d: %s", httpStatus, respPayload)
	}

	return parseCheckout(respPayload)
}

func (p *sumupPayer) GetCheckout(ctx context.Context, checkoutID string) (Checkout, error) {
	httpStatus, respPayload, err := p.sender.Send(ctx, http.MethodGet, p.baseURL+"/checkouts/"+checkoutID, nil)
	if err != nil {
		return Checkout{}, fmt.Errorf("error getting sumup checkout %s: %s", checkoutID, err)
	}
	if httpStatus < 200 || httpStatus >= 300 {
		return Checkout{}, fmt.Errorf("error getting sumup checkout %s: http %d: %s", checkoutID, httpStatus, respPayload)
	}

	return parseCheckout(respPayload)
}

func parseCheckout(payload []byte) (Checkout, error) {
	checkout := Checkout{}
	err := json.Unmarshal(payload, &checkout)
	if err != nil {
		return Checkout{}, fmt.Errorf("error parsing sumup checkout response: %s", err)
	}

	return checkout, nil
}
