package integrations

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/pipecanvas/pkg/observability"
)

type recordingHooks struct {
	observability.NoopHTTPHooks
	statuses []int
}

func (r *recordingHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	r.statuses = append(r.statuses, status)
}

func TestHTTPClientReportsResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	resp, err := NewHTTPClient().Get(srv.URL + "/lint")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if len(hooks.statuses) != 1 || hooks.statuses[0] != http.StatusTeapot {
		t.Errorf("statuses = %v", hooks.statuses)
	}
}
