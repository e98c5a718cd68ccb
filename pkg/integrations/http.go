package integrations

import (
	"net/http"
	"time"

	"github.com/matzehuels/pipecanvas/pkg/observability"
)

const httpTimeout = 30 * time.Second

// NewHTTPClient creates an HTTP client with a standard timeout whose
// requests are reported to the observability hooks.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout:   httpTimeout,
		Transport: &hookTransport{next: http.DefaultTransport},
	}
}

type hookTransport struct {
	next http.RoundTripper
}

func (t *hookTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path

	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, err
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	return resp, nil
}
