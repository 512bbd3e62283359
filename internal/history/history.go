// Package history appends completed probe samples to a local SQLite
// file, so scheduled invocations (cron and friends) accumulate a
// queryable time series without any long-lived process.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	_ "modernc.org/sqlite" // Driver sqlite

	"github.com/woozymasta/satprobe/internal/status"
)

// Log manages the SQLite history database.
type Log struct {
	db *sql.DB
}

// Open initializes the SQLite connection and applies pending schema
// migrations. The file is created when missing.
func Open(path string) (*Log, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// single-shot writer, one connection is enough
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(1 * time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Log{db: db}, nil
}

// Close closes the underlying database connection.
func (l *Log) Close() error {
	return l.db.Close()
}

// Append stores the record unless it matches the most recent sample for
// the same server URL. It reports whether a row was written.
func (l *Log) Append(rec *status.Record) (bool, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("encode sample: %w", err)
	}

	serverURL := rec.String(status.FieldServerURL)
	hash := sampleHash(rec)

	var last string
	err = l.db.QueryRow(
		`SELECT payload_hash FROM samples WHERE server_url = ? ORDER BY id DESC LIMIT 1`,
		serverURL,
	).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("read last sample: %w", err)
	}
	if err == nil && last == hash {
		return false, nil
	}

	_, err = l.db.Exec(`
		INSERT INTO samples (
			probed_at, server_url, session_name, connected_players,
			tick_rate, game_phase, payload_hash, payload
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.String(status.FieldTimestamp),
		serverURL,
		rec.String(status.FieldSessionName),
		rec.Int(status.FieldConnectedPlayers),
		rec.Float(status.FieldAverageTickRate),
		rec.String(status.FieldGamePhase),
		hash,
		string(payload),
	)
	if err != nil {
		return false, fmt.Errorf("insert sample: %w", err)
	}

	return true, nil
}

// Sample is one stored probe result.
type Sample struct {
	ProbedAt         string
	ServerURL        string
	SessionName      string
	GamePhase        string
	Payload          string
	ConnectedPlayers int64
	TickRate         float64
}

// Samples returns up to limit stored samples for a server, newest first.
func (l *Log) Samples(serverURL string, limit int) ([]Sample, error) {
	rows, err := l.db.Query(`
		SELECT probed_at, server_url, session_name, connected_players,
		       tick_rate, game_phase, payload
		FROM samples
		WHERE server_url = ?
		ORDER BY id DESC
		LIMIT ?`,
		serverURL, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var samples []Sample
	for rows.Next() {
		var s Sample
		if err := rows.Scan(
			&s.ProbedAt, &s.ServerURL, &s.SessionName, &s.ConnectedPlayers,
			&s.TickRate, &s.GamePhase, &s.Payload,
		); err != nil {
			continue
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

// sampleHash fingerprints every field except the capture timestamp, so
// runs that observe an unchanged server collapse into one row.
func sampleHash(rec *status.Record) string {
	digest := xxhash.New()

	for _, key := range rec.Keys() {
		if key == status.FieldTimestamp {
			continue
		}
		_, _ = digest.WriteString(key)
		_, _ = digest.WriteString("=")
		_, _ = digest.WriteString(rec.String(key))
		_, _ = digest.WriteString("\n")
	}

	return strconv.FormatUint(digest.Sum64(), 16)
}
