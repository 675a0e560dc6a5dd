// Package captcha exposes a token-only view of a CAPTCHA solving service,
// for callers that only need the response token for a site key and page.
package captcha

import "context"

// Solver abstracts CAPTCHA solving services.
type Solver interface {
	// Solve submits a CAPTCHA challenge and returns the solution token.
	// siteKey is the challenge's public site key, pageURL the page that shows it.
	Solve(ctx context.Context, siteKey, pageURL string) (token string, err error)

	// Balance returns the account balance in USD.
	Balance(ctx context.Context) (float64, error)
}
