package breach

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nao1215/breachscan/internal/lookup"
	"github.com/nao1215/breachscan/internal/model"
)

func testLookupClient(srv *httptest.Server) *lookup.Client {
	return lookup.NewClient(srv.Client(), lookup.WithTimeout(time.Second))
}

func jsonServer(t *testing.T, status int, body string, inspect func(r *http.Request)) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inspect != nil {
			inspect(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// TestOutcome tests the Conclusive/Skipped constructors.
func TestOutcome(t *testing.T) {
	t.Parallel()

	t.Run("conclusive", func(t *testing.T) {
		t.Parallel()
		o := Conclusive(model.EmailExposure{Status: model.BreachFound})
		if !o.IsConclusive() || o.Err() != nil {
			t.Error("expected conclusive outcome without error")
		}
		if o.Exposure().Status != model.BreachFound {
			t.Errorf("unexpected status %v", o.Exposure().Status)
		}
	})

	t.Run("skipped", func(t *testing.T) {
		t.Parallel()
		o := Skipped(lookup.ErrTransport)
		if o.IsConclusive() {
			t.Error("expected skipped outcome")
		}
		if !errors.Is(o.Err(), lookup.ErrTransport) {
			t.Errorf("unexpected skip reason %v", o.Err())
		}
	})

	t.Run("skipped with nil error stays skipped", func(t *testing.T) {
		t.Parallel()
		o := Skipped(nil)
		if o.IsConclusive() {
			t.Error("expected skipped outcome")
		}
		if !errors.Is(o.Err(), ErrNoAnswer) {
			t.Errorf("expected ErrNoAnswer, got %v", o.Err())
		}
	})
}

// TestIntelXLookup tests the IntelX phonebook provider.
func TestIntelXLookup(t *testing.T) {
	t.Parallel()

	t.Run("sends the phonebook search payload", func(t *testing.T) {
		t.Parallel()

		srv := jsonServer(t, http.StatusOK, `{"selectors":[]}`, func(r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			var req map[string]any
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("failed to decode request: %v", err)
				return
			}
			if req["term"] != "alice@example.com" {
				t.Errorf("unexpected term %v", req["term"])
			}
			if req["maxresults"] != float64(100) || req["media"] != float64(0) || req["target"] != float64(1) {
				t.Errorf("unexpected search parameters %v", req)
			}
		})

		NewIntelX(testLookupClient(srv), srv.URL).Lookup(context.Background(), "alice@example.com")
	})

	testCases := []struct {
		name        string
		status      int
		body        string
		conclusive  bool
		wantStatus  model.BreachStatus
		wantMessage string
	}{
		{
			name:        "selectors present",
			status:      http.StatusOK,
			body:        `{"selectors":[{"selectorvalue":"a"},{"selectorvalue":"b"},{"selectorvalue":"c"}]}`,
			conclusive:  true,
			wantStatus:  model.BreachFound,
			wantMessage: "Found in 3 breach record(s)",
		},
		{
			name:        "empty selectors",
			status:      http.StatusOK,
			body:        `{"selectors":[]}`,
			conclusive:  true,
			wantStatus:  model.BreachNotFound,
			wantMessage: "No breaches found",
		},
		{name: "selectors missing", status: http.StatusOK, body: `{"status":0}`},
		{name: "selectors null", status: http.StatusOK, body: `{"selectors":null}`},
		{name: "selectors not a list", status: http.StatusOK, body: `{"selectors":"x"}`},
		{name: "not json", status: http.StatusOK, body: `<html></html>`},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := jsonServer(t, tc.status, tc.body, nil)
			got := NewIntelX(testLookupClient(srv), srv.URL).Lookup(context.Background(), "alice@example.com")

			if got.IsConclusive() != tc.conclusive {
				t.Fatalf("conclusive = %v, expected %v (err %v)", got.IsConclusive(), tc.conclusive, got.Err())
			}
			if !tc.conclusive {
				return
			}
			e := got.Exposure()
			if e.Status != tc.wantStatus {
				t.Errorf("got status %v, expected %v", e.Status, tc.wantStatus)
			}
			if e.Message != tc.wantMessage {
				t.Errorf("got message %q, expected %q", e.Message, tc.wantMessage)
			}
			if e.Provider != IntelXName {
				t.Errorf("got provider %q", e.Provider)
			}
		})
	}
}

// TestLeakCheckLookup tests the LeakCheck public API provider.
func TestLeakCheckLookup(t *testing.T) {
	t.Parallel()

	t.Run("sends the email as an escaped query parameter", func(t *testing.T) {
		t.Parallel()

		srv := jsonServer(t, http.StatusOK, `{"found":0}`, func(r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("expected GET, got %s", r.Method)
			}
			if got := r.URL.Query().Get("check"); got != "a+b@example.com" {
				t.Errorf("unexpected check parameter %q", got)
			}
		})

		NewLeakCheck(testLookupClient(srv), srv.URL).Lookup(context.Background(), "a+b@example.com")
	})

	testCases := []struct {
		name        string
		status      int
		body        string
		conclusive  bool
		wantStatus  model.BreachStatus
		wantMessage string
		wantSources []string
	}{
		{
			name:        "found with string sources",
			status:      http.StatusOK,
			body:        `{"success":true,"found":2,"sources":["Adobe","LinkedIn"]}`,
			conclusive:  true,
			wantStatus:  model.BreachFound,
			wantMessage: "Found in 2 breach(es)",
			wantSources: []string{"Adobe", "LinkedIn"},
		},
		{
			name:        "found with object sources",
			status:      http.StatusOK,
			body:        `{"success":true,"found":2,"sources":[{"name":"Adobe","date":"2013-10"},{"name":"Canva"},{"date":"2020"}]}`,
			conclusive:  true,
			wantStatus:  model.BreachFound,
			wantMessage: "Found in 2 breach(es)",
			wantSources: []string{"Adobe (2013-10)", "Canva"},
		},
		{
			name:        "found without sources",
			status:      http.StatusOK,
			body:        `{"found":4}`,
			conclusive:  true,
			wantStatus:  model.BreachFound,
			wantMessage: "Found in 4 breach(es)",
			wantSources: []string{},
		},
		{
			name:        "zero found",
			status:      http.StatusOK,
			body:        `{"success":false,"found":0}`,
			conclusive:  true,
			wantStatus:  model.BreachNotFound,
			wantMessage: "No breaches found",
			wantSources: []string{},
		},
		{name: "found missing", status: http.StatusOK, body: `{"success":false,"error":"Not found"}`},
		{name: "negative found", status: http.StatusOK, body: `{"found":-1}`},
		{name: "found wrong type", status: http.StatusOK, body: `{"found":"many"}`},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := jsonServer(t, tc.status, tc.body, nil)
			got := NewLeakCheck(testLookupClient(srv), srv.URL).Lookup(context.Background(), "alice@example.com")

			if got.IsConclusive() != tc.conclusive {
				t.Fatalf("conclusive = %v, expected %v (err %v)", got.IsConclusive(), tc.conclusive, got.Err())
			}
			if !tc.conclusive {
				return
			}
			e := got.Exposure()
			if e.Status != tc.wantStatus {
				t.Errorf("got status %v, expected %v", e.Status, tc.wantStatus)
			}
			if e.Message != tc.wantMessage {
				t.Errorf("got message %q, expected %q", e.Message, tc.wantMessage)
			}
			if len(e.Sources) != len(tc.wantSources) {
				t.Fatalf("got sources %v, expected %v", e.Sources, tc.wantSources)
			}
			for i := range e.Sources {
				if e.Sources[i] != tc.wantSources[i] {
					t.Errorf("source %d: got %q, expected %q", i, e.Sources[i], tc.wantSources[i])
				}
			}
		})
	}
}

// TestDefaultEndpoints tests that empty URLs fall back to the public endpoints.
func TestDefaultEndpoints(t *testing.T) {
	t.Parallel()

	if NewIntelX(nil, "").url != DefaultIntelXURL {
		t.Error("expected IntelX default URL")
	}
	if NewLeakCheck(nil, "").url != DefaultLeakCheckURL {
		t.Error("expected LeakCheck default URL")
	}
}
