package myhttpclient

import "context"

//go:generate mockgen -source=api.go -package myhttpclient -destination httpclient_mock.go HTTPSender
type HTTPSender interface {
	Send(ctx context.Context, method string, url string, body []byte) (int, []byte, error)
}

// New returns a JSON-speaking client with a bounded request timeout.
// When bearerToken is non-empty it is passed as Authorization header.
func New(bearerToken string) HTTPSender {
	return newJSONHTTPClient(bearerToken)
}
