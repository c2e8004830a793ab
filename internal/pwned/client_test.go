package pwned

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/breachscan/internal/lookup"
)

// SHA-1("password") = 5BAA61E4C9B93F3F0682250B6CF8331B7EE68FD8
const (
	passwordPrefix = "5BAA6"
	passwordSuffix = "1E4C9B93F3F0682250B6CF8331B7EE68FD8"
)

// newRangeServer returns a server that answers /range/{prefix} with body
// and records the requested paths.
func newRangeServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Value) {
	t.Helper()

	var path atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &path
}

func newTestClient(srv *httptest.Server) *Client {
	return New(lookup.NewClient(srv.Client(), lookup.WithTimeout(time.Second)), WithBaseURL(srv.URL+"/"))
}

// TestHashPrefix tests the prefix/suffix split.
func TestHashPrefix(t *testing.T) {
	t.Parallel()

	t.Run("known digest", func(t *testing.T) {
		t.Parallel()

		prefix, suffix := HashPrefix("password")
		if prefix != passwordPrefix {
			t.Errorf("got prefix %q, expected %q", prefix, passwordPrefix)
		}
		if suffix != passwordSuffix {
			t.Errorf("got suffix %q, expected %q", suffix, passwordSuffix)
		}
	})

	t.Run("deterministic and sized", func(t *testing.T) {
		t.Parallel()

		for _, pw := range []string{"", "a", "パスワード", "correct horse battery staple"} {
			p1, s1 := HashPrefix(pw)
			p2, s2 := HashPrefix(pw)
			if p1 != p2 || s1 != s2 {
				t.Errorf("HashPrefix(%q) is not deterministic", pw)
			}
			if len(p1) != PrefixLength || len(s1) != 40-PrefixLength {
				t.Errorf("HashPrefix(%q) returned lengths %d/%d", pw, len(p1), len(s1))
			}
		}
	})
}

// TestMatchSuffix tests range response parsing.
func TestMatchSuffix(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		body      string
		suffix    string
		want      int64
		malformed bool
	}{
		{
			name:   "match",
			body:   "0018A45C4D1DEF81644B54AB7F969B88D65:1\n1E4C9B93F3F0682250B6CF8331B7EE68FD8:9545824\n",
			suffix: passwordSuffix,
			want:   9545824,
		},
		{
			name:   "no match is zero",
			body:   "0018A45C4D1DEF81644B54AB7F969B88D65:1\n",
			suffix: passwordSuffix,
			want:   0,
		},
		{
			name:   "empty body is zero",
			body:   "",
			suffix: passwordSuffix,
			want:   0,
		},
		{
			name:   "CRLF and blank lines",
			body:   "0018A45C4D1DEF81644B54AB7F969B88D65:1\r\n\r\n1E4C9B93F3F0682250B6CF8331B7EE68FD8:3\r\n",
			suffix: passwordSuffix,
			want:   3,
		},
		{
			name:   "lower-case records match",
			body:   "1e4c9b93f3f0682250b6cf8331b7ee68fd8:7\n",
			suffix: passwordSuffix,
			want:   7,
		},
		{
			name:   "padding entry has zero count",
			body:   "1E4C9B93F3F0682250B6CF8331B7EE68FD8:0\n",
			suffix: passwordSuffix,
			want:   0,
		},
		{
			name:      "missing separator",
			body:      "1E4C9B93F3F0682250B6CF8331B7EE68FD8\n",
			suffix:    passwordSuffix,
			malformed: true,
		},
		{
			name:      "non-numeric count",
			body:      "1E4C9B93F3F0682250B6CF8331B7EE68FD8:lots\n",
			suffix:    passwordSuffix,
			malformed: true,
		},
		{
			name:      "negative count",
			body:      "1E4C9B93F3F0682250B6CF8331B7EE68FD8:-1\n",
			suffix:    passwordSuffix,
			malformed: true,
		},
		{
			name:      "malformed after match",
			body:      "1E4C9B93F3F0682250B6CF8331B7EE68FD8:3\ngarbage\n",
			suffix:    passwordSuffix,
			malformed: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := MatchSuffix([]byte(tc.body), tc.suffix)
			if tc.malformed {
				if !errors.Is(err, lookup.ErrMalformed) {
					t.Errorf("expected ErrMalformed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %d, expected %d", got, tc.want)
			}
		})
	}
}

// TestClientCheck tests the end-to-end lookup against a mocked range API.
func TestClientCheck(t *testing.T) {
	t.Parallel()

	t.Run("returns the matching count and sends only the prefix", func(t *testing.T) {
		t.Parallel()

		srv, path := newRangeServer(t, http.StatusOK, passwordSuffix+":42\n")
		got := newTestClient(srv).Check(context.Background(), "password")

		n, ok := got.Value()
		if !ok || n != 42 {
			t.Errorf("got (%d, %v), expected (42, true)", n, ok)
		}
		if p, _ := path.Load().(string); p != "/range/"+passwordPrefix {
			t.Errorf("unexpected request path %q", p)
		}
	})

	t.Run("absent suffix yields zero, not unknown", func(t *testing.T) {
		t.Parallel()

		srv, _ := newRangeServer(t, http.StatusOK, "0018A45C4D1DEF81644B54AB7F969B88D65:1\n")
		got := newTestClient(srv).Check(context.Background(), "password")

		n, ok := got.Value()
		if !ok || n != 0 {
			t.Errorf("got (%d, %v), expected (0, true)", n, ok)
		}
	})

	t.Run("non-200 yields unknown", func(t *testing.T) {
		t.Parallel()

		srv, _ := newRangeServer(t, http.StatusServiceUnavailable, "")
		got := newTestClient(srv).Check(context.Background(), "password")
		if got.Known() {
			t.Error("expected unknown result")
		}
	})

	t.Run("malformed body yields unknown", func(t *testing.T) {
		t.Parallel()

		srv, _ := newRangeServer(t, http.StatusOK, "<html>maintenance</html>")
		got := newTestClient(srv).Check(context.Background(), "password")
		if got.Known() {
			t.Error("expected unknown result")
		}
	})

	t.Run("timeout yields unknown", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		c := New(lookup.NewClient(srv.Client(), lookup.WithTimeout(50*time.Millisecond)), WithBaseURL(srv.URL))
		if c.Check(context.Background(), "password").Known() {
			t.Error("expected unknown result")
		}
	})

	t.Run("truncated body yields unknown", func(t *testing.T) {
		t.Parallel()

		var sb strings.Builder
		for i := range 50 {
			fmt.Fprintf(&sb, "%035X:1\r\n", i)
		}
		filler := sb.Len()
		body := sb.String() + passwordSuffix + ":12345\r\n"

		limits := map[string]int64{
			"cut inside the matching count": int64(filler + len(passwordSuffix) + 2),
			"cut before the matching record": int64(filler),
		}
		for name, limit := range limits {
			t.Run(name, func(t *testing.T) {
				t.Parallel()

				srv, _ := newRangeServer(t, http.StatusOK, body)
				lc := lookup.NewClient(srv.Client(), lookup.WithTimeout(time.Second), lookup.WithMaxBodySize(limit))
				got := New(lc, WithBaseURL(srv.URL+"/")).Check(context.Background(), "password")
				if got.Known() {
					n, _ := got.Value()
					t.Errorf("expected unknown result, got count %d", n)
				}
			})
		}
	})

	t.Run("repeated checks are identical", func(t *testing.T) {
		t.Parallel()

		srv, _ := newRangeServer(t, http.StatusOK, passwordSuffix+":5\n")
		c := newTestClient(srv)
		first, _ := c.Check(context.Background(), "password").Value()
		second, _ := c.Check(context.Background(), "password").Value()
		if first != second {
			t.Errorf("got %d then %d", first, second)
		}
	})
}
