package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/woozymasta/satprobe/internal/status"
)

// writeJSON emits the record as a single flat JSON object followed by a
// newline. Record.MarshalJSON keeps the key order.
func writeJSON(w io.Writer, rec *status.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	_, err = w.Write(append(raw, '\n'))

	return err
}

// writeCSV emits exactly two lines: the header row of field names and
// one row of values, quoted per RFC 4180.
func writeCSV(w io.Writer, rec *status.Record) error {
	keys := rec.Keys()
	values := make([]string, len(keys))
	for i, key := range keys {
		values[i] = rec.String(key)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(keys); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.Write(values); err != nil {
		return fmt.Errorf("write csv values: %w", err)
	}
	cw.Flush()

	return cw.Error()
}

// writeTable emits an aligned two-column table of every record field.
func writeTable(w io.Writer, rec *status.Record) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"FIELD", "VALUE"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, key := range rec.Keys() {
		table.Append([]string{key, rec.String(key)})
	}

	table.Render()

	return nil
}
