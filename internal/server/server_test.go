package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"BizBoost/internal/advisor"
	"BizBoost/internal/catalog"
	"BizBoost/internal/scenario"
	"BizBoost/internal/session"
)

type blockingAdvisor struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingAdvisor) Name() string { return "blocking" }

func (b *blockingAdvisor) Advise(context.Context, advisor.Request) (string, error) {
	if b.entered != nil {
		b.entered <- struct{}{}
		<-b.release
	}
	return "advice", nil
}

func newTestServer(t *testing.T, adv advisor.Advisor) *httptest.Server {
	t.Helper()
	srv, _ := newLoggedServer(t, adv)
	return srv
}

func newLoggedServer(t *testing.T, adv advisor.Advisor) (*httptest.Server, *test.Hook) {
	t.Helper()
	cat, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	logger, hook := test.NewNullLogger()
	sess, err := session.New(session.Options{
		Catalog:     cat,
		Advisor:     adv,
		Assumptions: scenario.DefaultAssumptions(),
		Logger:      logger,
	})
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(NewHandler(sess, scenario.DefaultAssumptions(), nil, logger).Router())
	t.Cleanup(srv.Close)
	return srv, hook
}

func do(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &blockingAdvisor{})
	resp, body := do(t, http.MethodGet, srv.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Errorf("unexpected health %d %v", resp.StatusCode, body)
	}
}

func TestListBusinesses(t *testing.T) {
	srv := newTestServer(t, &blockingAdvisor{})
	resp, body := do(t, http.MethodGet, srv.URL+"/api/businesses", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	list, _ := body["businesses"].([]any)
	if len(list) != 3 || body["current"] != "sarah" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestSubmitCommand(t *testing.T) {
	srv := newTestServer(t, &blockingAdvisor{})

	resp, body := do(t, http.MethodPost, srv.URL+"/api/session/commands", `{"command": "reduce food cost by 10%"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}
	if body["scenario"] != true || body["advice"] != "advice" || body["description"] != "food cost down by 10%" {
		t.Errorf("unexpected reply %v", body)
	}

	_, view := do(t, http.MethodGet, srv.URL+"/api/session", "")
	if view["last_command"] != "reduce food cost by 10%" || view["scenario"] == nil {
		t.Errorf("expected active scenario in view, got %v", view)
	}
	sim := view["scenario"].(map[string]any)
	flow := sim["cash_flow"].([]any)
	if got := flow[3].(map[string]any)["predicted"]; got != 3200.0 {
		t.Errorf("expected projection 3200, got %v", got)
	}

	resp, view = do(t, http.MethodDelete, srv.URL+"/api/session/scenario", "")
	if resp.StatusCode != http.StatusOK || view["scenario"] != nil {
		t.Errorf("expected cleared scenario, got %d %v", resp.StatusCode, view)
	}
}

func TestSubmitCommand_BadRequests(t *testing.T) {
	srv := newTestServer(t, &blockingAdvisor{})
	tests := []struct {
		name string
		body string
	}{
		{"empty command", `{"command": "  "}`},
		{"not json", `hire`},
		{"unknown field", `{"cmd": "hire 2 employees"}`},
	}
	for _, tt := range tests {
		resp, body := do(t, http.MethodPost, srv.URL+"/api/session/commands", tt.body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tt.name, resp.StatusCode)
		}
		if body["error"] == nil {
			t.Errorf("%s: expected error message", tt.name)
		}
	}
}

func TestSubmitCommand_Busy(t *testing.T) {
	adv := &blockingAdvisor{entered: make(chan struct{}), release: make(chan struct{})}
	srv := newTestServer(t, adv)

	done := make(chan int)
	go func() {
		resp, err := http.Post(srv.URL+"/api/session/commands", "application/json", strings.NewReader(`{"command": "hire 1 employee"}`))
		if err != nil {
			done <- 0
			return
		}
		resp.Body.Close()
		done <- resp.StatusCode
	}()
	<-adv.entered

	resp, _ := do(t, http.MethodPost, srv.URL+"/api/session/commands", `{"command": "hire 2 employees"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409, got %d", resp.StatusCode)
	}
	close(adv.release)
	if code := <-done; code != http.StatusOK {
		t.Errorf("first request: expected 200, got %d", code)
	}
}

func TestSelectBusiness(t *testing.T) {
	srv := newTestServer(t, &blockingAdvisor{})

	resp, view := do(t, http.MethodPut, srv.URL+"/api/session/business", `{"id": "mike"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	biz := view["business"].(map[string]any)
	if biz["id"] != "mike" || biz["monthly_revenue"] != 55000.0 {
		t.Errorf("unexpected business %v", biz)
	}

	if resp, _ := do(t, http.MethodPut, srv.URL+"/api/session/business", `{"id": "zed"}`); resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if resp, _ := do(t, http.MethodPut, srv.URL+"/api/session/business", `{}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSimulate(t *testing.T) {
	srv := newTestServer(t, &blockingAdvisor{})

	resp, body := do(t, http.MethodPost, srv.URL+"/api/simulate", `{"business_id": "mike", "command": "revenue increase by 20%"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}
	if body["matched"] != true || body["rule"] != "revenue increase" {
		t.Errorf("unexpected body %v", body)
	}
	sim := body["simulated"].(map[string]any)
	if rev := sim["monthly_revenue"].(float64); rev < 65999.99 || rev > 66000.01 {
		t.Errorf("expected revenue 66000, got %v", rev)
	}

	_, sess := do(t, http.MethodGet, srv.URL+"/api/session", "")
	if sess["scenario"] != nil {
		t.Error("simulate must not touch the session")
	}
}

func TestSimulate_InlineBusinessAndNoMatch(t *testing.T) {
	srv := newTestServer(t, &blockingAdvisor{})

	inline := `{"command": "cut rent cost by 500", "business": {
		"id": "x", "name": "X", "type": "Retail", "monthly_revenue": 10000,
		"expense_categories": [{"name": "Rent", "share": 20}, {"name": "Other", "share": 50}],
		"cash_flow": [{"period": "Jan", "actual": 1, "predicted": 1}, {"period": "Feb", "actual": null, "predicted": 2}]
	}}`
	_, body := do(t, http.MethodPost, srv.URL+"/api/simulate", inline)
	sim := body["simulated"].(map[string]any)
	cats := sim["expense_categories"].([]any)
	if got := cats[0].(map[string]any)["share"]; got != 15.0 {
		t.Errorf("expected Rent 15, got %v", got)
	}
	// Both periods fall before the default boundary.
	flow := sim["cash_flow"].([]any)
	if got := flow[1].(map[string]any)["predicted"]; got != 2.0 {
		t.Errorf("expected untouched projection, got %v", got)
	}

	_, body = do(t, http.MethodPost, srv.URL+"/api/simulate", `{"command": "what is my runway?"}`)
	if body["matched"] != false || body["description"] != "no scenario" {
		t.Errorf("unexpected no-match body %v", body)
	}

	if resp, _ := do(t, http.MethodPost, srv.URL+"/api/simulate", `{"business_id": "zed", "command": "hire 1 employee"}`); resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestSimulate_UnencodableResultIsLogged(t *testing.T) {
	srv, hook := newLoggedServer(t, &blockingAdvisor{})

	cmd := `{"command": "revenue increase by ` + strings.Repeat("9", 308) + `%"}`
	resp, body := do(t, http.MethodPost, srv.URL+"/api/simulate", cmd)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %v", resp.StatusCode, body)
	}
	if body["error"] != "internal error" {
		t.Errorf("unexpected body %v", body)
	}

	var logged bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel && e.Message == "encode response" && e.Data[logrus.ErrorKey] != nil {
			logged = true
		}
	}
	if !logged {
		t.Error("expected the encode failure to be logged")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &blockingAdvisor{})
	if resp, _ := do(t, http.MethodGet, srv.URL+"/api/simulate", ""); resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}
