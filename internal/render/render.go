// Package render serializes a status record into one of the supported
// output formats. Only the console format is free-form; json, csv and
// table are machine-oriented and must stay free of any extra output.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/woozymasta/satprobe/internal/api"
	"github.com/woozymasta/satprobe/internal/status"
)

// Format identifies an output format.
type Format string

const (
	// FormatConsole is the human-readable multi-section report.
	FormatConsole Format = "console"
	// FormatJSON is one flat JSON object, key order preserved.
	FormatJSON Format = "json"
	// FormatCSV is a header row plus one value row.
	FormatCSV Format = "csv"
	// FormatTable is an aligned two-column field/value table.
	FormatTable Format = "table"
)

// ParseFormat validates a format name from the command line.
func ParseFormat(name string) (Format, error) {
	format := Format(strings.ToLower(name))
	switch format {
	case FormatConsole, FormatJSON, FormatCSV, FormatTable:
		return format, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected console, json, csv or table)", name)
	}
}

// Report bundles the flattened record with the extra context only the
// console format displays.
type Report struct {
	Record *status.Record

	// State is the raw game state, used by the console format for the
	// status banners.
	State *api.GameState

	// Pending holds server options queued for the next restart. Shown as
	// an extra console section, never merged into the record.
	Pending api.OrderedFields

	// Color enables ANSI colors in the console format.
	Color bool
}

// Write renders the report to w in the requested format.
func Write(w io.Writer, format Format, rep *Report) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, rep.Record)
	case FormatCSV:
		return writeCSV(w, rep.Record)
	case FormatTable:
		return writeTable(w, rep.Record)
	default:
		return writeConsole(w, rep)
	}
}
