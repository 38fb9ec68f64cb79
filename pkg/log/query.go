package log

import (
	"database/sql"
	"fmt"
	"time"
)

const DefaultLimit = 100

// Entry is one stored log event.
type Entry struct {
	ID         int64
	InsertedAt time.Time
	Data       string // raw JSON
}

func handle() (*sql.DB, error) {
	mu.RLock()
	defer mu.RUnlock()
	if sink == nil {
		return nil, ErrNotInitialized
	}
	return sink.db, nil
}

var insertedAtFormats = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

func parseInsertedAt(ts string) time.Time {
	for _, layout := range insertedAtFormats {
		if t, err := time.Parse(layout, ts); err == nil {
			return t
		}
	}
	return time.Time{}
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		var insertedAt string
		if err := rows.Scan(&e.ID, &insertedAt, &e.Data); err != nil {
			return nil, fmt.Errorf("log: scan entry: %w", err)
		}
		e.InsertedAt = parseInsertedAt(insertedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("log: iterate rows: %w", err)
	}
	return entries, nil
}

// GetLogsSinceStart returns the events written by this process.
func GetLogsSinceStart() ([]Entry, error) {
	return GetLastNLogs(int(writeSinceStart.Load()))
}

// GetLastNLogs returns the n most recent events, oldest first.
func GetLastNLogs(n int) ([]Entry, error) {
	db, err := handle()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []Entry{}, nil
	}
	rows, err := db.Query(`SELECT id, inserted_at, log_data FROM logs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("log: query last %d: %w", n, err)
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// GetLogsBetween returns events whose time field lies in [start, end], in
// event time order. Times are compared as instants, so events carrying
// different UTC offsets or fraction widths order correctly. limit <= 0 means
// DefaultLimit.
func GetLogsBetween(start, end time.Time, limit int) ([]Entry, error) {
	db, err := handle()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := db.Query(`
        SELECT id, inserted_at, log_data
        FROM logs
        WHERE julianday(json_extract(log_data, '$.time')) BETWEEN julianday(?) AND julianday(?)
        ORDER BY julianday(json_extract(log_data, '$.time')) ASC, id ASC
        LIMIT ?`,
		start.UTC().Format(zerologTimeFieldFormat), end.UTC().Format(zerologTimeFieldFormat), limit)
	if err != nil {
		return nil, fmt.Errorf("log: query between %s and %s: %w", start, end, err)
	}
	return scanEntries(rows)
}

// GetLogsSince is GetLogsBetween up to now.
func GetLogsSince(start time.Time, limit int) ([]Entry, error) {
	return GetLogsBetween(start, time.Now(), limit)
}
