package sequence

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carson-networks/podsync-server/internal/syncerr"
)

// decodeTestBody mirrors the client's decoding (numbers kept as json.Number).
func decodeTestBody(t *testing.T, raw string) interface{} {
	t.Helper()
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()
	var body interface{}
	assert.NoError(t, decoder.Decode(&body))
	return body
}

// -- shape tolerance tests --

func TestExtractAccounts_AllShapesAgree(t *testing.T) {
	entry := `{"type": "pod", "id": "p1", "name": "Rent", "balance": {"amountInDollars": 12.34}}`
	shapes := map[string]string{
		"bare array":     `[` + entry + `]`,
		"accounts field": `{"accounts": [` + entry + `]}`,
		"account field":  `{"account": [` + entry + `]}`,
		"nested data":    `{"data": {"accounts": [` + entry + `]}}`,
	}

	for name, raw := range shapes {
		accounts, err := ExtractAccounts(decodeTestBody(t, raw))
		assert.NoError(t, err, name)
		assert.Len(t, accounts, 1, name)
		assert.Equal(t, "p1", accounts[0]["id"], name)
		assert.Equal(t, "Rent", accounts[0]["name"], name)
	}
}

func TestExtractAccounts_AccountFieldCheckedFirst(t *testing.T) {
	raw := `{"account": [{"id": "a"}], "accounts": [{"id": "b"}]}`

	accounts, err := ExtractAccounts(decodeTestBody(t, raw))

	assert.NoError(t, err)
	assert.Len(t, accounts, 1)
	assert.Equal(t, "a", accounts[0]["id"])
}

func TestExtractAccounts_EmptyListIsValid(t *testing.T) {
	accounts, err := ExtractAccounts(decodeTestBody(t, `{"accounts": []}`))

	assert.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestExtractAccounts_NonObjectEntriesBecomePlaceholders(t *testing.T) {
	accounts, err := ExtractAccounts(decodeTestBody(t, `[{"id": "p1"}, "stray", 7]`))

	assert.NoError(t, err)
	assert.Len(t, accounts, 3)
	assert.Equal(t, "p1", accounts[0]["id"])
	assert.Nil(t, accounts[1])
	assert.Nil(t, accounts[2])
}

// -- unexpected shape tests --

func TestExtractAccounts_UnexpectedShape(t *testing.T) {
	cases := map[string]string{
		"object without accounts": `{"foo": 1}`,
		"accounts not an array":   `{"accounts": {"id": "p1"}}`,
		"data without accounts":   `{"data": {"foo": 1}}`,
		"scalar":                  `42`,
	}

	for name, raw := range cases {
		_, err := ExtractAccounts(decodeTestBody(t, raw))
		classified, ok := syncerr.As(err)
		assert.True(t, ok, name)
		assert.Equal(t, syncerr.UnexpectedUpstreamShape, classified.Kind, name)
		assert.Contains(t, classified.Diagnostics, "body", name)
	}
}

func TestExtractAccounts_NilBody(t *testing.T) {
	_, err := ExtractAccounts(nil)

	classified, ok := syncerr.As(err)
	assert.True(t, ok)
	assert.Equal(t, syncerr.UnexpectedUpstreamShape, classified.Kind)
}
