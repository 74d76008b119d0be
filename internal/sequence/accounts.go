package sequence

import (
	"github.com/carson-networks/podsync-server/internal/syncerr"
)

// RawAccount is one aggregator account as returned on the wire. There is no
// fixed schema, only field-name conventions probed downstream. A nil
// RawAccount is a placeholder for a non-object array entry; nil map reads
// return zero values, so downstream classification simply excludes it.
type RawAccount map[string]interface{}

// ExtractAccounts normalizes the shapes Sequence has been observed to return:
//   - [...]
//   - { accounts: [...] } / { account: [...] }
//   - { data: { accounts: [...] } } (what the docs examples show)
//
// An empty list is a valid "zero accounts" result; a body matching none of
// the shapes is an UnexpectedUpstreamShape error carrying the raw body.
func ExtractAccounts(body interface{}) ([]RawAccount, error) {
	if arr, ok := body.([]interface{}); ok {
		return toRawAccounts(arr), nil
	}

	if obj, ok := body.(map[string]interface{}); ok {
		if arr, found := accountsField(obj); found {
			return toRawAccounts(arr), nil
		}
		if data, ok := obj["data"].(map[string]interface{}); ok {
			if arr, found := accountsField(data); found {
				return toRawAccounts(arr), nil
			}
		}
	}

	return nil, syncerr.New(syncerr.UnexpectedUpstreamShape,
		"Unexpected Sequence response shape (accounts array not found)").
		WithDiagnostic("body", body)
}

func accountsField(obj map[string]interface{}) ([]interface{}, bool) {
	if arr, ok := obj["account"].([]interface{}); ok {
		return arr, true
	}
	if arr, ok := obj["accounts"].([]interface{}); ok {
		return arr, true
	}
	return nil, false
}

func toRawAccounts(arr []interface{}) []RawAccount {
	accounts := make([]RawAccount, len(arr))
	for i, entry := range arr {
		if obj, ok := entry.(map[string]interface{}); ok {
			accounts[i] = RawAccount(obj)
		}
	}
	return accounts
}
