// Package identity resolves a caller's bearer credential into the household
// they act for. The identity service enforces row-level access itself; this
// client trusts its output but validates the shape.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/carson-networks/podsync-server/internal/syncerr"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

const rpcPath = "/rest/v1/rpc/ensure_active_household"

// HouseholdContext is the identity layer's answer for one request.
type HouseholdContext struct {
	HouseholdID   string `json:"household_id"`
	HouseholdName string `json:"household_name"`
	Role          string `json:"role"`
}

// IClient is the interface the sync pipeline depends on.
type IClient interface {
	Resolve(ctx context.Context, accessToken string) (*HouseholdContext, error)
}

type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

var _ IClient = (*Client)(nil)

func NewClient(baseURL string, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Resolve invokes the ensure_active_household RPC with the caller's token.
// The response may be a bare object or a single-element array.
func (c *Client) Resolve(ctx context.Context, accessToken string) (*HouseholdContext, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+rpcPath, bytes.NewReader([]byte("{}")))
	if err != nil {
		return nil, syncerr.Wrap(syncerr.InvalidRequest, "ensure_active_household failed", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("authorization", "Bearer "+accessToken)
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyRPCError(err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyRPCError(err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyRPCError(rpcErrorMessage(body))
	}

	row, ok := decodeHouseholdRow(body)
	if !ok || len(row.HouseholdID) == 0 || len(row.Role) == 0 {
		return nil, syncerr.New(syncerr.InternalInconsistency, "Unexpected ensure_active_household response")
	}

	return row, nil
}

// classifyRPCError decides whether an RPC failure means the credential was
// bad (401 territory) or the request itself was (400 territory).
func classifyRPCError(message string) *syncerr.Error {
	if len(message) == 0 {
		message = "Unknown error"
	}
	lowered := strings.ToLower(message)
	isAuthish := strings.Contains(lowered, "jwt") ||
		strings.Contains(lowered, "not authenticated") ||
		strings.Contains(lowered, "unauthorized")

	kind := syncerr.InvalidRequest
	if isAuthish {
		kind = syncerr.Unauthenticated
	}
	return syncerr.New(kind, "ensure_active_household failed: "+message)
}

// rpcErrorMessage pulls the "message" field out of a PostgREST-style error
// body, falling back to the raw body text.
func rpcErrorMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Message) != 0 {
		return parsed.Message
	}
	return strings.TrimSpace(string(body))
}

func decodeHouseholdRow(body []byte) (*HouseholdContext, bool) {
	var rows []HouseholdContext
	if err := json.Unmarshal(body, &rows); err == nil {
		if len(rows) == 0 {
			return nil, false
		}
		return &rows[0], true
	}

	var row HouseholdContext
	if err := json.Unmarshal(body, &row); err == nil {
		return &row, true
	}

	return nil, false
}
