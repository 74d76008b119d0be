package service

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/carson-networks/podsync-server/internal/sequence"
)

var testSyncTime = time.Date(2025, 8, 1, 9, 30, 0, 0, time.UTC)

func account(fields map[string]interface{}) sequence.RawAccount {
	return sequence.RawAccount(fields)
}

// -- classification tests --

func TestMapPodRows_Classification(t *testing.T) {
	accounts := []sequence.RawAccount{
		account(map[string]interface{}{"type": "Income Source", "id": "a1", "name": "Salary"}),
		account(map[string]interface{}{"type": "Spending Pod", "id": "a2", "name": "Groceries"}),
		account(map[string]interface{}{"accountType": "pod", "id": "a3", "name": "Rent"}),
		account(map[string]interface{}{"type": "Account", "id": "a4", "name": "Checking"}),
	}

	rows, _ := mapPodRows(accounts, "hh-1", testSyncTime)

	assert.Len(t, rows, 2)
	assert.Equal(t, "a2", rows[0].SequenceAccountID)
	assert.Equal(t, "a3", rows[1].SequenceAccountID)
}

func TestMapPodRows_TypeFieldFirstPresentWins(t *testing.T) {
	// A present but non-string type field does not fall through to aliases.
	accounts := []sequence.RawAccount{
		account(map[string]interface{}{"type": json.Number("3"), "accountType": "pod", "id": "a1", "name": "Rent"}),
	}

	rows, _ := mapPodRows(accounts, "hh-1", testSyncTime)

	assert.Empty(t, rows)
}

func TestMapPodRows_NoTypeFieldExcluded(t *testing.T) {
	accounts := []sequence.RawAccount{
		account(map[string]interface{}{"id": "a1", "name": "Mystery"}),
		nil,
	}

	rows, _ := mapPodRows(accounts, "hh-1", testSyncTime)

	assert.Empty(t, rows)
}

// -- field alias tests --

func TestMapPodRows_IDAndNameAliases(t *testing.T) {
	accounts := []sequence.RawAccount{
		account(map[string]interface{}{"type": "pod", "account_id": "a1", "nickname": "Rent"}),
		account(map[string]interface{}{"type": "pod", "sequenceAccountId": "a2", "displayName": "Bills"}),
		account(map[string]interface{}{"type": "pod", "id": json.Number("42"), "name": "Savings"}),
	}

	rows, _ := mapPodRows(accounts, "hh-1", testSyncTime)

	assert.Len(t, rows, 3)
	assert.Equal(t, "a1", rows[0].SequenceAccountID)
	assert.Equal(t, "Rent", rows[0].Name)
	assert.Equal(t, "a2", rows[1].SequenceAccountID)
	assert.Equal(t, "Bills", rows[1].Name)
	assert.Equal(t, "42", rows[2].SequenceAccountID)
}

func TestMapPodRows_DroppedWhenIDOrNameMissing(t *testing.T) {
	accounts := []sequence.RawAccount{
		account(map[string]interface{}{"type": "pod", "name": "No ID"}),
		account(map[string]interface{}{"type": "pod", "id": "a2"}),
		account(map[string]interface{}{"type": "pod", "id": "", "name": "Empty ID"}),
		account(map[string]interface{}{"type": "pod", "id": "a4", "name": "Kept"}),
	}

	rows, _ := mapPodRows(accounts, "hh-1", testSyncTime)

	assert.Len(t, rows, 1)
	assert.Equal(t, "a4", rows[0].SequenceAccountID)
}

// -- balance mapping tests --

func TestMapPodRows_BalanceRoundsHalfUpAtCent(t *testing.T) {
	accounts := []sequence.RawAccount{
		account(map[string]interface{}{
			"type": "pod", "id": "a1", "name": "Rent",
			"balance": map[string]interface{}{"amountInDollars": json.Number("12.345")},
		}),
	}

	rows, _ := mapPodRows(accounts, "hh-1", testSyncTime)

	assert.Len(t, rows, 1)
	assert.NotNil(t, rows[0].BalanceAmountInCents)
	assert.Equal(t, int64(1235), *rows[0].BalanceAmountInCents)
	assert.Nil(t, rows[0].BalanceError)
}

func TestMapPodRows_BalanceSingularVariant(t *testing.T) {
	accounts := []sequence.RawAccount{
		account(map[string]interface{}{
			"type": "pod", "id": "a1", "name": "Rent",
			"balance": map[string]interface{}{"amountInDollar": json.Number("100")},
		}),
	}

	rows, _ := mapPodRows(accounts, "hh-1", testSyncTime)

	assert.Equal(t, int64(10000), *rows[0].BalanceAmountInCents)
}

func TestMapPodRows_BalanceError(t *testing.T) {
	accounts := []sequence.RawAccount{
		account(map[string]interface{}{
			"type": "pod", "id": "a1", "name": "Rent",
			"balance": map[string]interface{}{"error": "  stale  "},
		}),
	}

	rows, _ := mapPodRows(accounts, "hh-1", testSyncTime)

	assert.Nil(t, rows[0].BalanceAmountInCents)
	assert.NotNil(t, rows[0].BalanceError)
	assert.Equal(t, "stale", *rows[0].BalanceError)
}

func TestMapPodRows_NoBalanceObject(t *testing.T) {
	accounts := []sequence.RawAccount{
		account(map[string]interface{}{"type": "pod", "id": "a1", "name": "Rent"}),
	}

	rows, _ := mapPodRows(accounts, "hh-1", testSyncTime)

	assert.Nil(t, rows[0].BalanceAmountInCents)
	assert.Nil(t, rows[0].BalanceError)
}

func TestMapPodRows_NonNumericBalanceIgnored(t *testing.T) {
	accounts := []sequence.RawAccount{
		account(map[string]interface{}{
			"type": "pod", "id": "a1", "name": "Rent",
			"balance": map[string]interface{}{"amountInDollars": "12.34"},
		}),
	}

	rows, _ := mapPodRows(accounts, "hh-1", testSyncTime)

	assert.Nil(t, rows[0].BalanceAmountInCents)
}

// -- canonical row tests --

func TestMapPodRows_RowCarriesSyncTimestamp(t *testing.T) {
	accounts := []sequence.RawAccount{
		account(map[string]interface{}{"type": "pod", "id": "a1", "name": "Rent"}),
	}

	rows, _ := mapPodRows(accounts, "hh-1", testSyncTime)

	assert.Equal(t, "hh-1", rows[0].HouseholdID)
	assert.True(t, rows[0].IsActive)
	assert.Equal(t, testSyncTime, rows[0].LastSeenAt)
	assert.Equal(t, testSyncTime, rows[0].BalanceUpdatedAt)
}

// -- typesSeen diagnostics tests --

func TestMapPodRows_TypesSeenDistinctAndCapped(t *testing.T) {
	var accounts []sequence.RawAccount
	for i := 0; i < 25; i++ {
		accounts = append(accounts, account(map[string]interface{}{
			"type": fmt.Sprintf("Type %d", i), "id": fmt.Sprintf("a%d", i), "name": "X",
		}))
	}
	// Duplicate of the first type should not add an entry.
	accounts = append(accounts, account(map[string]interface{}{"type": "Type 0", "id": "dup", "name": "X"}))

	_, typesSeen := mapPodRows(accounts, "hh-1", testSyncTime)

	assert.Len(t, typesSeen, maxTypesSeen)
	assert.Equal(t, "Type 0", typesSeen[0])
}

func TestMapPodRows_TypesSeenIncludesNonPods(t *testing.T) {
	accounts := []sequence.RawAccount{
		account(map[string]interface{}{"type": "Income Source", "id": "a1", "name": "Salary"}),
		account(map[string]interface{}{"type": "Pod", "id": "a2", "name": "Rent"}),
	}

	rows, typesSeen := mapPodRows(accounts, "hh-1", testSyncTime)

	assert.Len(t, rows, 1)
	assert.Equal(t, []string{"Income Source", "Pod"}, typesSeen)
}
