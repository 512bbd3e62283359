package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/woozymasta/satprobe/internal/status"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiDim    = "\033[2m"
)

// writeConsole emits the multi-section human-readable report with the
// run/pause and players-online banners.
func writeConsole(w io.Writer, rep *Report) error {
	var b strings.Builder

	paint := func(color, s string) string {
		if !rep.Color {
			return s
		}
		return color + s + ansiReset
	}

	rec := rep.Record
	state := rep.State

	rule := strings.Repeat("=", 58)
	b.WriteString(rule + "\n")
	b.WriteString(" Satisfactory Dedicated Server Status\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Probed:  %s\n", rec.String(status.FieldTimestamp))
	fmt.Fprintf(&b, "Server:  %s\n", rec.String(status.FieldServerURL))
	fmt.Fprintf(&b, "Session: %s\n\n", state.ActiveSessionName)

	switch {
	case state.IsGamePaused:
		b.WriteString(paint(ansiYellow, ">>> PAUSED <<<") + "\n")
	case state.IsGameRunning:
		b.WriteString(paint(ansiGreen, ">>> RUNNING <<<") + "\n")
	default:
		b.WriteString(paint(ansiRed, ">>> STOPPED <<<") + "\n")
	}

	if state.NumConnectedPlayers > 0 {
		banner := fmt.Sprintf(">>> %d PLAYER(S) ONLINE <<<", state.NumConnectedPlayers)
		b.WriteString(paint(ansiGreen, banner) + "\n")
	} else {
		b.WriteString(paint(ansiDim, ">>> NO PLAYERS ONLINE <<<") + "\n")
	}
	b.WriteString("\n")

	writeSectionHeader(&b, "Server State")
	for _, key := range rec.Keys() {
		if strings.HasPrefix(key, status.PrefixConfig) || strings.HasPrefix(key, status.PrefixSetting) {
			continue
		}
		writeField(&b, key, rec.String(key))
	}

	writeSectionHeader(&b, "Server Configuration")
	for _, key := range rec.Keys() {
		if strings.HasPrefix(key, status.PrefixConfig) {
			writeField(&b, key, rec.String(key))
		}
	}

	writeSectionHeader(&b, "Advanced Game Settings")
	for _, key := range rec.Keys() {
		if strings.HasPrefix(key, status.PrefixSetting) {
			writeField(&b, key, rec.String(key))
		}
	}

	if len(rep.Pending) > 0 {
		writeSectionHeader(&b, "Pending Server Options")
		for _, field := range rep.Pending {
			writeField(&b, field.Key, status.FormatValue(field.Value))
		}
	}

	_, err := io.WriteString(w, b.String())

	return err
}

func writeSectionHeader(b *strings.Builder, title string) {
	fmt.Fprintf(b, "--- %s ---\n", title)
}

func writeField(b *strings.Builder, name, value string) {
	fmt.Fprintf(b, "  %-28s %s\n", name+":", value)
}
