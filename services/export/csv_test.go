package export

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEscapeCSVCell(t *testing.T) {
	testCases := []struct {
		in, out string
	}{
		{"plain", "plain"},
		{"", ""},
		{`Hello, "World"`, `"Hello, ""World"""`},
		{"two\nlines", "\"two\nlines\""},
		{"a,b", `"a,b"`},
	}
	for _, test := range testCases {
		require.Equal(t, test.out, escapeCSVCell(test.in))
	}
}

func TestMarshalCSVRoundTrip(t *testing.T) {
	original := [][]string{
		{"1", `Hello, "World"`, "plain"},
		{"2", "multi\nline", ""},
	}
	text := marshalCSV([]string{"a", "b", "c"}, original)

	parsed, err := csv.NewReader(strings.NewReader(text)).ReadAll()
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a", "b", "c"}}, parsed[:1])
	require.Equal(t, original, parsed[1:])
}

func TestMarshalRawCSVHeaderOnly(t *testing.T) {
	text := MarshalRawCSV(nil)
	require.Equal(t,
		"ID,Date,Type,TX Type,Amount 1,Currency 1,Amount 2,Currency 2,"+
			"Fee Amount,Fee Currency,Net Amount,Network,To Address,TxHash,URL",
		text,
	)
	require.False(t, strings.HasSuffix(text, "\n"))
}

func TestMarshalKoinlyCSVHeader(t *testing.T) {
	text := MarshalKoinlyCSV(nil)
	require.Equal(t,
		"Date,Sent Amount,Sent Currency,Received Amount,Received Currency,"+
			"Fee Amount,Fee Currency,Net Worth Amount,Net Worth Currency,"+
			"Label,Description,TxHash",
		text,
	)
}
