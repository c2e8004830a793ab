package breach

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/nao1215/breachscan/internal/lookup"
	"github.com/nao1215/breachscan/internal/model"
)

const (
	// LeakCheckName identifies the LeakCheck public API provider.
	LeakCheckName = "leakcheck"

	// DefaultLeakCheckURL is the public, keyless LeakCheck endpoint.
	DefaultLeakCheckURL = "https://leakcheck.io/api/public"
)

// leakCheckResponse is the public API payload. Found is a pointer so that a
// missing field is malformed rather than a silent zero.
type leakCheckResponse struct {
	Found   *int              `json:"found"`
	Sources []json.RawMessage `json:"sources"`
}

// leakCheckSource is the object form of a source entry.
type leakCheckSource struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

// LeakCheck queries the LeakCheck public API.
type LeakCheck struct {
	client *lookup.Client
	url    string
}

// NewLeakCheck creates the LeakCheck provider. An empty endpoint selects
// DefaultLeakCheckURL.
func NewLeakCheck(client *lookup.Client, endpoint string) *LeakCheck {
	if endpoint == "" {
		endpoint = DefaultLeakCheckURL
	}
	return &LeakCheck{client: client, url: endpoint}
}

// Name implements Provider.
func (p *LeakCheck) Name() string {
	return LeakCheckName
}

// Lookup implements Provider.
// found > 0 is a hit; found == 0 is a conclusive miss. Sources are returned
// in full; the probe applies the display cap.
func (p *LeakCheck) Lookup(ctx context.Context, email string) Outcome {
	var resp leakCheckResponse
	if err := p.client.GetJSON(ctx, p.url+"?"+url.Values{"check": {email}}.Encode(), &resp); err != nil {
		return Skipped(err)
	}

	switch {
	case resp.Found == nil:
		return Skipped(fmt.Errorf("%w: found field missing", lookup.ErrMalformed))
	case *resp.Found < 0:
		return Skipped(fmt.Errorf("%w: negative found count %d", lookup.ErrMalformed, *resp.Found))
	case *resp.Found == 0:
		return Conclusive(notFound(LeakCheckName))
	}

	sources := make([]string, 0, len(resp.Sources))
	for _, raw := range resp.Sources {
		if name := sourceName(raw); name != "" {
			sources = append(sources, name)
		}
	}
	return Conclusive(model.EmailExposure{
		Status:   model.BreachFound,
		Message:  fmt.Sprintf("Found in %d breach(es)", *resp.Found),
		Sources:  sources,
		Provider: LeakCheckName,
	})
}

// sourceName renders a source entry, which the API sends either as a plain
// string or as {"name": ..., "date": ...}. Unrecognized entries are dropped.
func sourceName(raw json.RawMessage) string {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name
	}
	var src leakCheckSource
	if err := json.Unmarshal(raw, &src); err != nil || src.Name == "" {
		return ""
	}
	if src.Date != "" {
		return fmt.Sprintf("%s (%s)", src.Name, src.Date)
	}
	return src.Name
}
