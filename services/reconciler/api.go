package reconciler

import (
	"context"

	"github.com/authenshop/paygate/services/checkoutapi"
)

// StatusFetcher is the one capability a provider adapter must offer to
// drive reconciliation: report the current status of a payment session in
// the normalized vocabulary, plus the raw provider status for diagnostics.
//
//go:generate mockgen -source=api.go -package reconciler -destination fetcher_mock.go StatusFetcher
type StatusFetcher interface {
	FetchStatus(c context.Context, sessionID string) (checkoutapi.SessionStatus, string, error)
}
