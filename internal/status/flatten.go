package status

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/woozymasta/satprobe/internal/api"
)

// Field names of the fixed head of the record.
const (
	FieldTimestamp        = "Timestamp"
	FieldServerURL        = "ServerURL"
	FieldSessionName      = "SessionName"
	FieldConnectedPlayers = "ConnectedPlayers"
	FieldPlayerLimit      = "PlayerLimit"
	FieldTechTier         = "TechTier"
	FieldGamePhase        = "GamePhase"
	FieldIsGameRunning    = "IsGameRunning"
	FieldIsGamePaused     = "IsGamePaused"
	FieldDurationHours    = "TotalGameDurationHours"
	FieldAverageTickRate  = "AverageTickRate"
	FieldAutoLoadSession  = "AutoLoadSession"
	FieldCreativeMode     = "CreativeModeEnabled"
	FieldPlayersOnline    = "PlayersOnline"
)

// Prefixes applied to the dynamic tail so option and setting names never
// collide with the fixed fields.
const (
	PrefixConfig  = "Config_"
	PrefixSetting = "Setting_"
)

// optionNamespace is the namespace the dedicated server prepends to its
// option keys, e.g. "FG.DSAutoPause".
const optionNamespace = "FG."

// settingNamespaces are the two category namespaces used by advanced
// game setting keys, e.g. "FG.GameRules.NoPower".
var settingNamespaces = []string{"FG.GameRules.", "FG.PlayerRules."}

const timestampLayout = "2006-01-02 15:04:05"

// Flatten merges the three query responses into one flat record. The
// fixed fields come first, then one Config_ field per server option and
// one Setting_ field per advanced game setting, in response order.
func Flatten(state *api.GameState, options *api.ServerOptions, settings *api.AdvancedSettings, serverURL string, now time.Time) *Record {
	rec := NewRecord()

	rec.Set(FieldTimestamp, now.Format(timestampLayout))
	rec.Set(FieldServerURL, serverURL)
	rec.Set(FieldSessionName, state.ActiveSessionName)
	rec.Set(FieldConnectedPlayers, state.NumConnectedPlayers)
	rec.Set(FieldPlayerLimit, state.PlayerLimit)
	rec.Set(FieldTechTier, state.TechTier)
	rec.Set(FieldGamePhase, PhaseLabel(state.GamePhase))
	rec.Set(FieldIsGameRunning, state.IsGameRunning)
	rec.Set(FieldIsGamePaused, state.IsGamePaused)
	rec.Set(FieldDurationHours, round2(float64(state.TotalGameDuration)/3600))
	rec.Set(FieldAverageTickRate, round2(state.AverageTickRate))
	rec.Set(FieldAutoLoadSession, state.AutoLoadSessionName)
	rec.Set(FieldCreativeMode, settings.CreativeModeEnabled)
	rec.Set(FieldPlayersOnline, state.NumConnectedPlayers > 0)

	for _, field := range options.Options {
		name := strings.TrimPrefix(field.Key, optionNamespace)
		rec.Set(PrefixConfig+name, scalar(field.Value))
	}

	for _, field := range settings.Settings {
		name := field.Key
		for _, ns := range settingNamespaces {
			if strings.HasPrefix(name, ns) {
				name = strings.TrimPrefix(name, ns)
				break
			}
		}
		rec.Set(PrefixSetting+name, scalar(field.Value))
	}

	return rec
}

// phaseTag matches a short uppercase namespace tag such as "GP_".
var phaseTag = regexp.MustCompile(`^[A-Z]{2,3}_`)

// PhaseLabel reduces a raw game phase identifier to a readable label.
// The server reports phases as asset paths like
// ".../GamePhases/GP_Project_Assembly_Phase_4". Only the trailing
// component matters; the namespace tag is dropped and underscores become
// spaces.
func PhaseLabel(raw string) string {
	s := strings.Trim(raw, `'"`)

	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}

	s = phaseTag.ReplaceAllString(s, "")

	return strings.ReplaceAll(s, "_", " ")
}

// scalar keeps scalar values as-is and collapses the rare nested value
// into its compact JSON form, so every record field stays single-level.
func scalar(value any) any {
	switch value.(type) {
	case nil, string, bool, json.Number:
		return value
	default:
		raw, err := json.Marshal(value)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
