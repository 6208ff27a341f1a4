package export

import "strings"

// column orders are part of the external contract, do not reorder
var rawHeader = []string{
	"ID", "Date", "Type", "TX Type", "Amount 1", "Currency 1",
	"Amount 2", "Currency 2", "Fee Amount", "Fee Currency",
	"Net Amount", "Network", "To Address", "TxHash", "URL",
}

var koinlyHeader = []string{
	"Date", "Sent Amount", "Sent Currency", "Received Amount",
	"Received Currency", "Fee Amount", "Fee Currency",
	"Net Worth Amount", "Net Worth Currency", "Label", "Description",
	"TxHash",
}

// marshalCSV renders a header and records as CSV text. Cells containing a
// comma, double quote or newline are wrapped in double quotes with inner
// quotes doubled; everything else is emitted bare.
func marshalCSV(header []string, records [][]string) string {
	var sb strings.Builder
	writeCSVLine(&sb, header)
	for _, record := range records {
		sb.WriteString("\n")
		writeCSVLine(&sb, record)
	}
	return sb.String()
}

func writeCSVLine(sb *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(escapeCSVCell(cell))
	}
}

func escapeCSVCell(cell string) string {
	if !strings.ContainsAny(cell, ",\"\n") {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

// MarshalRawCSV serializes rows in the 15-column raw schema.
func MarshalRawCSV(rows []RawRow) string {
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = row.record()
	}
	return marshalCSV(rawHeader, records)
}

// MarshalKoinlyCSV serializes rows in the 12-column Koinly schema.
func MarshalKoinlyCSV(rows []KoinlyRow) string {
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = row.record()
	}
	return marshalCSV(koinlyHeader, records)
}
