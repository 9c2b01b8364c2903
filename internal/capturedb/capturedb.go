// Package capturedb indexes recorded capture sessions in SQLite so tools
// can list what was captured without scanning log files.
package capturedb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/rerun-io/realsense-go/rs2"
)

// DB wraps the session index database.
type DB struct {
	*sql.DB
}

// Open opens (and if needed creates) the index at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			session_id     TEXT PRIMARY KEY,
			serial         TEXT NOT NULL,
			product_line   TEXT,
			rawlog_path    TEXT,
			started_ns     BIGINT NOT NULL,
			ended_ns       BIGINT,
			frameset_count BIGINT DEFAULT 0,
			frame_count    BIGINT DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS streams (
			session_id  TEXT NOT NULL REFERENCES sessions(session_id),
			kind        TEXT NOT NULL,
			stream_idx  INTEGER NOT NULL,
			format      TEXT NOT NULL,
			width       INTEGER,
			height      INTEGER,
			framerate   INTEGER
		);
		CREATE INDEX IF NOT EXISTS idx_streams_session ON streams(session_id);
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("capturedb: create schema: %w", err)
	}

	return &DB{db}, nil
}

// Session is one row of the session index.
type Session struct {
	ID            string
	Serial        string
	ProductLine   string
	RawlogPath    string
	Started       time.Time
	Ended         time.Time
	FramesetCount int64
	FrameCount    int64
}

// StreamRow describes one enabled stream of a session.
type StreamRow struct {
	Kind      string
	Index     int
	Format    string
	Width     int
	Height    int
	Framerate int
}

// InsertSession records the start of a capture and its enabled streams,
// returning the new session id.
func (db *DB) InsertSession(serial, productLine, rawlogPath string, started time.Time, streams []rs2.StreamProfile) (string, error) {
	id := uuid.New().String()

	tx, err := db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sessions (session_id, serial, product_line, rawlog_path, started_ns)
		 VALUES (?, ?, ?, ?, ?)`,
		id, serial, productLine, rawlogPath, started.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("capturedb: insert session: %w", err)
	}

	for _, p := range streams {
		_, err = tx.Exec(
			`INSERT INTO streams (session_id, kind, stream_idx, format, width, height, framerate)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, p.Kind.String(), p.Index, p.Format.String(), p.Width, p.Height, p.Framerate,
		)
		if err != nil {
			return "", fmt.Errorf("capturedb: insert stream: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// CloseSession finalises a session with its end time and counters.
func (db *DB) CloseSession(id string, ended time.Time, framesets, frames int64) error {
	res, err := db.Exec(
		`UPDATE sessions SET ended_ns = ?, frameset_count = ?, frame_count = ? WHERE session_id = ?`,
		ended.UnixNano(), framesets, frames, id,
	)
	if err != nil {
		return fmt.Errorf("capturedb: close session: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("capturedb: unknown session %s", id)
	}
	return err
}

// ListSessions returns every session, most recent first.
func (db *DB) ListSessions() ([]Session, error) {
	rows, err := db.Query(
		`SELECT session_id, serial, COALESCE(product_line, ''), COALESCE(rawlog_path, ''),
		        started_ns, COALESCE(ended_ns, 0), frameset_count, frame_count
		 FROM sessions ORDER BY started_ns DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var startedNs, endedNs int64
		if err := rows.Scan(&s.ID, &s.Serial, &s.ProductLine, &s.RawlogPath,
			&startedNs, &endedNs, &s.FramesetCount, &s.FrameCount); err != nil {
			return nil, err
		}
		s.Started = time.Unix(0, startedNs)
		if endedNs != 0 {
			s.Ended = time.Unix(0, endedNs)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// SessionStreams returns the streams enabled for one session.
func (db *DB) SessionStreams(id string) ([]StreamRow, error) {
	rows, err := db.Query(
		`SELECT kind, stream_idx, format, COALESCE(width, 0), COALESCE(height, 0), COALESCE(framerate, 0)
		 FROM streams WHERE session_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var streams []StreamRow
	for rows.Next() {
		var s StreamRow
		if err := rows.Scan(&s.Kind, &s.Index, &s.Format, &s.Width, &s.Height, &s.Framerate); err != nil {
			return nil, err
		}
		streams = append(streams, s)
	}
	return streams, rows.Err()
}
