// Package advisor produces advisory text for questions and scenarios, using
// a text-generation service with local canned responses as fallback.
package advisor

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"BizBoost/internal/model"
)

// ConnectionTrouble is the reply shown when no advice could be produced at all.
const ConnectionTrouble = "I'm sorry, I'm having trouble connecting right now. Please try again later."

// ErrNoAPIKey is returned by providers that need a key when none is configured.
var ErrNoAPIKey = errors.New("advisor: API key not configured")

// Comparison is a simulated scenario next to the state it was derived from.
type Comparison struct {
	Original  model.BusinessState
	Simulated model.BusinessState
	Command   string
}

// Request is one advisory call. Scenario is nil for plain questions.
type Request struct {
	Business model.BusinessState
	Question string
	Scenario *Comparison
}

// Advisor answers a request with free text.
type Advisor interface {
	Advise(ctx context.Context, req Request) (string, error)
	Name() string
}

func newHTTPClient(timeout time.Duration, proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}
