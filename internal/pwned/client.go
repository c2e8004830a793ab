package pwned

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1" //nolint:gosec // SHA-1 is what the range API is keyed on
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/breachscan/internal/lookup"
	"github.com/nao1215/breachscan/internal/model"
)

const (
	// DefaultBaseURL is the public Pwned Passwords API.
	DefaultBaseURL = "https://api.pwnedpasswords.com"

	// DefaultTimeout bounds one range request.
	DefaultTimeout = 10 * time.Second

	// PrefixLength is the number of hex characters sent to the service.
	PrefixLength = 5
)

// Client is the hash-prefix password checker.
type Client struct {
	lookup  *lookup.Client
	baseURL string
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client that sends requests through lc.
// Callers should create lc with lookup.WithTimeout(DefaultTimeout) and
// lookup.WithHeader("Add-Padding", "true") unless configured otherwise.
func New(lc *lookup.Client, opts ...Option) *Client {
	c := &Client{
		lookup:  lc,
		baseURL: DefaultBaseURL,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HashPrefix returns the uppercase SHA-1 hex digest of password split into
// the prefix sent to the service and the suffix matched locally.
func HashPrefix(password string) (prefix, suffix string) {
	sum := sha1.Sum([]byte(password)) //nolint:gosec
	digest := strings.ToUpper(hex.EncodeToString(sum[:]))
	return digest[:PrefixLength], digest[PrefixLength:]
}

// Check returns how many times password appears in the breach corpus.
// Zero means the password was not found. Any failure yields an unknown result.
func (c *Client) Check(ctx context.Context, password string) model.PasswordExposure {
	count, err := c.Lookup(ctx, password)
	if err != nil {
		c.logger.Warn("password lookup failed", "reason", lookup.Reason(err))
		return model.PasswordUnknown()
	}
	return model.PasswordSeen(count)
}

// Lookup performs the range query and returns the count or a lookup error.
func (c *Client) Lookup(ctx context.Context, password string) (int64, error) {
	prefix, suffix := HashPrefix(password)
	c.logger.Debug("querying password range", "prefix", prefix)

	body, err := c.lookup.Get(ctx, c.baseURL+"/range/"+prefix)
	if err != nil {
		return 0, err
	}
	return MatchSuffix(body, suffix)
}

// MatchSuffix scans a range response for suffix and returns its count.
// Every record is validated, so a malformed body is rejected even when the
// match appears before the bad line. Blank lines and CRLF endings are accepted.
func MatchSuffix(body []byte, suffix string) (int64, error) {
	suffix = strings.ToUpper(suffix)

	var (
		found bool
		count int64
		line  int
	)
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		line++
		record := strings.TrimSpace(scanner.Text())
		if record == "" {
			continue
		}

		hashSuffix, rawCount, ok := strings.Cut(record, ":")
		if !ok || hashSuffix == "" {
			return 0, fmt.Errorf("%w: line %d has no SUFFIX:COUNT pair", lookup.ErrMalformed, line)
		}
		n, err := strconv.ParseInt(strings.TrimSpace(rawCount), 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: line %d has an invalid count", lookup.ErrMalformed, line)
		}

		if !found && strings.ToUpper(strings.TrimSpace(hashSuffix)) == suffix {
			found = true
			count = n
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", lookup.ErrMalformed, err)
	}
	return count, nil
}
