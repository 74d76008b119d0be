package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/podsync-server/internal/sequence"
	"github.com/carson-networks/podsync-server/internal/storage/pod"
)

// Sequence docs say the type field is "Pod" / "Income Source" / "Account",
// but field names and casing have varied across deployments, so both the
// field lookup and the value check are tolerant.

var typeFieldAliases = []string{"type", "accountType", "account_type"}

var idFieldAliases = []string{
	"id",
	"accountId",
	"account_id",
	"sequenceAccountId",
	"sequence_account_id",
}

var nameFieldAliases = []string{"name", "nickname", "displayName"}

// maxTypesSeen caps the diagnostic type-value set echoed in responses.
const maxTypesSeen = 20

// mapPodRows filters the accounts to pods and maps each into a canonical
// upsert row stamped with the sync's shared timestamp. Accounts that are not
// pods are excluded from the sync entirely; pod accounts missing an id or a
// name are dropped rather than persisted as partial rows. The second return
// is the distinct set of raw type values observed, for diagnostics only.
func mapPodRows(accounts []sequence.RawAccount, householdID string, now time.Time) ([]pod.PodUpsert, []string) {
	var typesSeen []string
	seen := make(map[string]bool)
	for _, account := range accounts {
		t := typeValue(account)
		if len(t) != 0 && !seen[t] && len(typesSeen) < maxTypesSeen {
			seen[t] = true
			typesSeen = append(typesSeen, t)
		}
	}

	var rows []pod.PodUpsert
	for _, account := range accounts {
		if !isPodType(typeValue(account)) {
			continue
		}

		sequenceAccountID, ok := pickString(account, idFieldAliases)
		if !ok {
			continue
		}
		name, ok := pickString(account, nameFieldAliases)
		if !ok {
			continue
		}

		rows = append(rows, pod.PodUpsert{
			HouseholdID:          householdID,
			SequenceAccountID:    sequenceAccountID,
			Name:                 name,
			IsActive:             true,
			LastSeenAt:           now,
			BalanceAmountInCents: balanceAmountInCents(account),
			BalanceError:         balanceError(account),
			BalanceUpdatedAt:     now,
		})
	}

	return rows, typesSeen
}

// typeValue returns the trimmed value of the first present type-like field,
// or "" when the field is absent or not a string. There is no fallback past
// the first present field.
func typeValue(account sequence.RawAccount) string {
	for _, key := range typeFieldAliases {
		value, ok := account[key]
		if !ok || value == nil {
			continue
		}
		s, ok := value.(string)
		if !ok {
			return ""
		}
		return strings.TrimSpace(s)
	}
	return ""
}

func isPodType(typeValue string) bool {
	if len(typeValue) == 0 {
		return false
	}
	t := strings.ToLower(typeValue)
	return t == "pod" || strings.Contains(t, "pod")
}

// pickString returns the first present, non-empty value among the keys.
// Numeric values are stringified.
func pickString(account sequence.RawAccount, keys []string) (string, bool) {
	for _, key := range keys {
		switch v := account[key].(type) {
		case string:
			if len(v) != 0 {
				return v, true
			}
		case json.Number:
			return v.String(), true
		case float64:
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				return strconv.FormatFloat(v, 'f', -1, 64), true
			}
		}
	}
	return "", false
}

// balanceAmountInCents reads balance.amountInDollars (or the singular
// variant) and converts to cents, rounding half up at the cent boundary.
// Anything non-numeric yields nil.
func balanceAmountInCents(account sequence.RawAccount) *int64 {
	balance, ok := account["balance"].(map[string]interface{})
	if !ok {
		return nil
	}

	value := balance["amountInDollars"]
	if value == nil {
		value = balance["amountInDollar"]
	}

	var dollars decimal.Decimal
	switch v := value.(type) {
	case json.Number:
		parsed, err := decimal.NewFromString(v.String())
		if err != nil {
			return nil
		}
		dollars = parsed
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		dollars = decimal.NewFromFloat(v)
	default:
		return nil
	}

	cents := dollars.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return &cents
}

func balanceError(account sequence.RawAccount) *string {
	balance, ok := account["balance"].(map[string]interface{})
	if !ok {
		return nil
	}

	value := balance["error"]
	if value == nil {
		return nil
	}

	var message string
	if s, ok := value.(string); ok {
		message = strings.TrimSpace(s)
	} else {
		message = strings.TrimSpace(fmt.Sprintf("%v", value))
	}

	if len(message) == 0 {
		return nil
	}
	return &message
}
