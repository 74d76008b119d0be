// Package sequence talks to the Sequence aggregator. The documented base
// path has proven unstable across deployments, so the client probes an
// ordered list of candidate endpoints and normalizes the variant response
// shapes into a flat accounts list.
package sequence

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/carson-networks/podsync-server/internal/syncerr"
)

const accessTokenHeader = "x-sequence-access-token"

// DefaultCandidateURLs are tried in order. POST /accounts is the confirmed
// working path; the rest are variants seen across Sequence deployments.
var DefaultCandidateURLs = []string{
	"https://api.getsequence.io/accounts",
	"https://api.getsequence.io/account",
	"https://api.getsequence.io/api/account",
	"https://api.getsequence.io/api/accounts",
	"https://api.getsequence.io/v1/account",
	"https://api.getsequence.io/v1/accounts",
	"https://api.getsequence.io/api/v1/account",
	"https://api.getsequence.io/api/v1/accounts",
}

// IClient is the interface the sync pipeline depends on.
type IClient interface {
	FetchAccounts(ctx context.Context) (*FetchResult, error)
}

// FetchResult is a successfully fetched and normalized accounts response.
type FetchResult struct {
	URL      string
	Body     interface{}
	Accounts []RawAccount
}

type Client struct {
	accessToken string
	candidates  []string
	httpClient  *http.Client
}

var _ IClient = (*Client)(nil)

func NewClient(accessToken string, candidates []string) *Client {
	if len(candidates) == 0 {
		candidates = DefaultCandidateURLs
	}
	return &Client{
		accessToken: accessToken,
		candidates:  candidates,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchAccounts probes the candidate endpoints and normalizes the winning
// response body into a flat accounts list.
func (c *Client) FetchAccounts(ctx context.Context) (*FetchResult, error) {
	body, url, err := c.probe(ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := ExtractAccounts(body)
	if err != nil {
		if classified, ok := syncerr.As(err); ok {
			classified.WithDiagnostic("sequenceUrl", url)
		}
		return nil, err
	}

	return &FetchResult{URL: url, Body: body, Accounts: accounts}, nil
}

// probe scans the candidates in order: first 2xx wins, a not-found signal
// moves on to the next candidate, and any other failure is terminal since
// a different path is unlikely to fix it.
func (c *Client) probe(ctx context.Context) (interface{}, string, error) {
	var lastStatus int
	var lastBody interface{}
	var lastURL string

	for _, url := range c.candidates {
		resp, err := c.post(ctx, url)
		if err != nil {
			return nil, "", syncerr.Wrap(syncerr.UpstreamUnavailable, "Sequence API request failed", err).
				WithDiagnostic("urlTried", url).
				WithDiagnostic("tried", c.candidates)
		}

		body := decodeBody(resp)
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			return body, url, nil
		}

		if !isNotFound(resp.StatusCode, body) {
			return nil, "", syncerr.New(syncerr.UpstreamUnavailable, "Sequence API request failed").
				WithDiagnostic("status", resp.StatusCode).
				WithDiagnostic("urlTried", url).
				WithDiagnostic("tried", c.candidates).
				WithDiagnostic("body", body)
		}

		lastStatus = resp.StatusCode
		lastBody = body
		lastURL = url
	}

	return nil, "", syncerr.New(syncerr.UpstreamUnavailable, "Sequence API request failed").
		WithDiagnostic("status", lastStatus).
		WithDiagnostic("urlTried", lastURL).
		WithDiagnostic("tried", c.candidates).
		WithDiagnostic("body", lastBody)
}

func (c *Client) post(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader([]byte("{}")))
	if err != nil {
		return nil, err
	}
	req.Header.Set(accessTokenHeader, "Bearer "+c.accessToken)
	req.Header.Set("content-type", "application/json")
	return c.httpClient.Do(req)
}

// decodeBody parses the response as JSON, keeping numbers as json.Number so
// balance values survive exactly. Non-JSON error pages yield a nil body
// rather than an error.
func decodeBody(resp *http.Response) interface{} {
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()

	var body interface{}
	if err := decoder.Decode(&body); err != nil {
		return nil
	}
	return body
}

// isNotFound reports whether the response means "this path does not exist":
// HTTP 404, or a JSON body whose message field says not found.
func isNotFound(status int, body interface{}) bool {
	if status == http.StatusNotFound {
		return true
	}
	obj, ok := body.(map[string]interface{})
	if !ok {
		return false
	}
	message, ok := obj["message"].(string)
	return ok && strings.Contains(strings.ToLower(message), "not found")
}
