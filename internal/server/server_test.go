package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/pipecanvas/pkg/editor"
	"github.com/matzehuels/pipecanvas/pkg/errors"
	"github.com/matzehuels/pipecanvas/pkg/layout"
	"github.com/matzehuels/pipecanvas/pkg/slot"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	if opts.BlockSize == (layout.Size{}) {
		opts.BlockSize = layout.Size{W: 100, H: 40}
	}
	srv := httptest.NewServer(New(opts, log.New(io.Discard)).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, srv.URL+path, r)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", resp.Request.URL.Path, err)
	}
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: status %d, want %d: %s", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want, body)
	}
}

func createWorkspace(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp := call(t, srv, http.MethodPost, "/api/workspaces", nil)
	expectStatus(t, resp, http.StatusCreated)
	var st struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &st)
	if st.ID == "" {
		t.Fatal("workspace without id")
	}
	return st.ID
}

func dropEvent(typ string, y float64) editor.DropEvent {
	return editor.DropEvent{
		Type:      typ,
		Container: layout.Canvas,
		Pointer:   layout.Point{X: 50, Y: y + 20},
	}
}

func TestDropAndDocument(t *testing.T) {
	srv := newTestServer(t, Options{})
	id := createWorkspace(t, srv)
	base := "/api/workspaces/" + id

	resp := call(t, srv, http.MethodPost, base+"/drop", dropEvent("build", 0))
	expectStatus(t, resp, http.StatusOK)
	var res editor.DropResult
	decodeBody(t, resp, &res)
	if !res.Placed || res.Block.Type != "build" {
		t.Fatalf("drop result = %+v", res)
	}
	expectStatus(t, call(t, srv, http.MethodPost, base+"/drop", dropEvent("test", 80)), http.StatusOK)

	resp = call(t, srv, http.MethodGet, base+"/document", nil)
	expectStatus(t, resp, http.StatusOK)
	body, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(body), "stages:\n  - build\n  - test\n") {
		t.Errorf("document =\n%s", body)
	}
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+base+"/document", nil)
	req.Header.Set("If-None-Match", etag)
	cached, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	cached.Body.Close()
	if cached.StatusCode != http.StatusNotModified {
		t.Errorf("conditional GET status = %d", cached.StatusCode)
	}

	resp = call(t, srv, http.MethodGet, base+"/document?format=json", nil)
	expectStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "json") {
		t.Errorf("content type = %q", ct)
	}
}

func TestEditAndCandidates(t *testing.T) {
	srv := newTestServer(t, Options{})
	base := "/api/workspaces/" + createWorkspace(t, srv)

	var build, test editor.DropResult
	decodeBody(t, call(t, srv, http.MethodPost, base+"/drop", dropEvent("build", 0)), &build)
	decodeBody(t, call(t, srv, http.MethodPost, base+"/drop", dropEvent("test", 80)), &test)

	resp := call(t, srv, http.MethodGet, base+"/blocks/"+test.Block.ID+"/candidates", nil)
	expectStatus(t, resp, http.StatusOK)
	var cands []struct {
		Name     string `json:"name"`
		Selected bool   `json:"selected"`
	}
	decodeBody(t, resp, &cands)
	if len(cands) != 1 || cands[0].Name != "build-job" || cands[0].Selected {
		t.Fatalf("candidates = %+v", cands)
	}

	resp = call(t, srv, http.MethodPatch, base+"/blocks/"+test.Block.ID, map[string]string{"needs": "build-job"})
	expectStatus(t, resp, http.StatusOK)

	resp = call(t, srv, http.MethodPatch, base+"/blocks/"+test.Block.ID, map[string]string{"name": "build-job"})
	expectStatus(t, resp, http.StatusConflict)
	var e errorBody
	decodeBody(t, resp, &e)
	if e.Code != errors.ErrCodeDuplicateName {
		t.Errorf("code = %s", e.Code)
	}

	expectStatus(t, call(t, srv, http.MethodDelete, base+"/blocks/"+build.Block.ID, nil), http.StatusNoContent)
	expectStatus(t, call(t, srv, http.MethodDelete, base+"/blocks/"+build.Block.ID, nil), http.StatusNotFound)

	var st struct {
		Warnings []struct {
			Kind string `json:"kind"`
		} `json:"warnings"`
	}
	decodeBody(t, call(t, srv, http.MethodGet, base, nil), &st)
	if len(st.Warnings) != 1 || st.Warnings[0].Kind != "dangling_need" {
		t.Errorf("warnings = %+v", st.Warnings)
	}
}

func TestImportAndToggle(t *testing.T) {
	srv := newTestServer(t, Options{})
	base := "/api/workspaces/" + createWorkspace(t, srv)

	yaml := "stages: [build]\njobs:\n  compile:\n    stage: build\n    script: [make]\n"
	resp := call(t, srv, http.MethodPost, base+"/import", yaml)
	expectStatus(t, resp, http.StatusOK)
	var st struct {
		Blocks []struct {
			Name string `json:"name"`
		} `json:"blocks"`
	}
	decodeBody(t, resp, &st)
	if len(st.Blocks) != 1 || st.Blocks[0].Name != "compile" {
		t.Fatalf("blocks = %+v", st.Blocks)
	}

	resp = call(t, srv, http.MethodPost, base+"/import", "stages: [build]\njobs:\n  broken:\n    stage: nowhere\n")
	expectStatus(t, resp, http.StatusUnprocessableEntity)

	resp = call(t, srv, http.MethodPost, base+"/toggle", nil)
	expectStatus(t, resp, http.StatusOK)
	var mode map[string]string
	decodeBody(t, resp, &mode)
	if mode["mode"] != string(layout.ModeMulti) {
		t.Errorf("mode = %v", mode)
	}

	resp = call(t, srv, http.MethodGet, base+"/positions", nil)
	expectStatus(t, resp, http.StatusOK)
	var positions map[string]any
	decodeBody(t, resp, &positions)
	if len(positions) != 1 {
		t.Errorf("positions = %v", positions)
	}
}

func TestSaveLoad(t *testing.T) {
	backend, err := slot.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := newTestServer(t, Options{Backend: backend})
	first := "/api/workspaces/" + createWorkspace(t, srv)
	expectStatus(t, call(t, srv, http.MethodPost, first+"/drop", dropEvent("deploy", 0)), http.StatusOK)
	expectStatus(t, call(t, srv, http.MethodPost, first+"/save", map[string]string{"key": "shared"}), http.StatusOK)

	second := "/api/workspaces/" + createWorkspace(t, srv)
	expectStatus(t, call(t, srv, http.MethodPost, second+"/load", map[string]string{"key": "missing"}), http.StatusNotFound)

	resp := call(t, srv, http.MethodPost, second+"/load", map[string]string{"key": "shared"})
	expectStatus(t, resp, http.StatusOK)
	var st struct {
		Blocks []struct {
			Type string `json:"type"`
		} `json:"blocks"`
	}
	decodeBody(t, resp, &st)
	if len(st.Blocks) != 1 || st.Blocks[0].Type != "deploy" {
		t.Errorf("blocks = %+v", st.Blocks)
	}
}

func TestSaveWithoutBackend(t *testing.T) {
	srv := newTestServer(t, Options{})
	base := "/api/workspaces/" + createWorkspace(t, srv)
	expectStatus(t, call(t, srv, http.MethodPost, base+"/save", nil), http.StatusNotImplemented)
	expectStatus(t, call(t, srv, http.MethodPost, base+"/lint", nil), http.StatusNotImplemented)
}

func TestUnknownWorkspace(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp := call(t, srv, http.MethodGet, "/api/workspaces/nope/document", nil)
	expectStatus(t, resp, http.StatusNotFound)
	var e errorBody
	decodeBody(t, resp, &e)
	if e.Code != errors.ErrCodeWorkspaceNotFound {
		t.Errorf("code = %s", e.Code)
	}
}

func TestGenerateYAML(t *testing.T) {
	srv := newTestServer(t, Options{})
	body := map[string]any{
		"blocks": []map[string]any{
			{"id": "a", "type": "build", "data": map[string]any{}, "position": map[string]any{"x": 0, "y": 0}},
			{"id": "b", "type": "test", "data": map[string]any{}, "position": map[string]any{"x": 0, "y": 60}},
		},
		"edges": []map[string]string{{"source": "a", "target": "b"}},
	}
	resp := call(t, srv, http.MethodPost, "/generate-yaml", body)
	expectStatus(t, resp, http.StatusOK)
	var out map[string]string
	decodeBody(t, resp, &out)
	for _, want := range []string{"  - build\n  - test\n", "  a:\n", "echo test", "needs:\n      - a"} {
		if !strings.Contains(out["yaml"], want) {
			t.Errorf("yaml missing %q:\n%s", want, out["yaml"])
		}
	}

	body["edges"] = []map[string]string{{"source": "a", "target": "ghost"}}
	expectStatus(t, call(t, srv, http.MethodPost, "/generate-yaml", body), http.StatusBadRequest)
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, Options{AllowedOrigins: []string{"http://canvas.test"}})
	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/workspaces", nil)
	req.Header.Set("Origin", "http://canvas.test")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent || resp.Header.Get("Access-Control-Allow-Origin") != "http://canvas.test" {
		t.Errorf("status %d, headers %v", resp.StatusCode, resp.Header)
	}
}

func TestWebSocketPushesUpdates(t *testing.T) {
	srv := newTestServer(t, Options{})
	id := createWorkspace(t, srv)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/workspaces/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first update
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatal(err)
	}
	if first.Kind != "state" {
		t.Fatalf("first message kind = %q", first.Kind)
	}

	expectStatus(t, call(t, srv, http.MethodPost, "/api/workspaces/"+id+"/drop", dropEvent("scan", 0)), http.StatusOK)

	var next update
	if err := conn.ReadJSON(&next); err != nil {
		t.Fatal(err)
	}
	if next.Kind != editor.OpDrop || next.Document.Jobs.Len() != 1 || len(next.Positions) != 1 {
		t.Errorf("update = %+v", next)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := New(Options{ShutdownTimeout: time.Second}, log.New(io.Discard))

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Post("http://"+ln.Addr().String()+"/api/workspaces", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
