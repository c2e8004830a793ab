package breach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/nao1215/breachscan/internal/lookup"
	"github.com/nao1215/breachscan/internal/model"
)

const (
	// IntelXName identifies the IntelX phonebook provider.
	IntelXName = "intelx"

	// DefaultIntelXURL is the public phonebook search endpoint.
	DefaultIntelXURL = "https://2.intelx.io/phonebook/search"

	// intelXMaxResults caps the selectors returned per search.
	intelXMaxResults = 100
)

// intelXRequest is the phonebook search body.
// media 0 means all media types; target 1 restricts results to email addresses.
type intelXRequest struct {
	Term       string `json:"term"`
	MaxResults int    `json:"maxresults"`
	Media      int    `json:"media"`
	Target     int    `json:"target"`
}

// intelXResponse keeps selectors raw so that an absent or null field can
// be told apart from an empty list.
type intelXResponse struct {
	Selectors json.RawMessage `json:"selectors"`
}

// IntelX searches the IntelX phonebook for an email address.
type IntelX struct {
	client *lookup.Client
	url    string
}

// NewIntelX creates the IntelX provider. An empty url selects DefaultIntelXURL.
func NewIntelX(client *lookup.Client, url string) *IntelX {
	if url == "" {
		url = DefaultIntelXURL
	}
	return &IntelX{client: client, url: url}
}

// Name implements Provider.
func (p *IntelX) Name() string {
	return IntelXName
}

// Lookup implements Provider.
// A non-empty selector list is a hit; an empty list is a conclusive miss.
func (p *IntelX) Lookup(ctx context.Context, email string) Outcome {
	body, err := p.client.PostJSON(ctx, p.url, intelXRequest{
		Term:       email,
		MaxResults: intelXMaxResults,
		Media:      0,
		Target:     1,
	})
	if err != nil {
		return Skipped(err)
	}

	count, err := countSelectors(body)
	if err != nil {
		return Skipped(err)
	}
	if count == 0 {
		return Conclusive(notFound(IntelXName))
	}
	return Conclusive(model.EmailExposure{
		Status:   model.BreachFound,
		Message:  fmt.Sprintf("Found in %d breach record(s)", count),
		Sources:  []string{},
		Provider: IntelXName,
	})
}

func countSelectors(body []byte) (int, error) {
	var resp intelXResponse
	if err := lookup.DecodeJSON(body, &resp); err != nil {
		return 0, err
	}
	raw := bytes.TrimSpace(resp.Selectors)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("%w: selectors field missing", lookup.ErrMalformed)
	}
	var selectors []json.RawMessage
	if err := lookup.DecodeJSON(raw, &selectors); err != nil {
		return 0, err
	}
	return len(selectors), nil
}

// notFound is the conclusive "no breaches" answer shared by providers.
func notFound(provider string) model.EmailExposure {
	return model.EmailExposure{
		Status:   model.BreachNotFound,
		Message:  "No breaches found",
		Sources:  []string{},
		Provider: provider,
	}
}
