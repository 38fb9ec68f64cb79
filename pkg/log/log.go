// Package log holds the process-wide zerolog logger. It discards everything
// until SetStd or Init is called; Init additionally keeps every event in an
// SQLite database that can be read back with the Get* functions.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"strbuf-go/pkg/appdir"
)

var (
	pkgLogger = zerolog.Nop()
	sink      *sqliteWriter
	mu        sync.RWMutex

	zerologTimeFieldFormat = time.RFC3339Nano

	ErrNotInitialized     = errors.New("log: sqlite sink not initialized, call log.Init() first")
	ErrAlreadyInitialized = errors.New("log: sqlite sink already initialized")
)

// SetStd logs human readable lines to stderr.
func SetStd() {
	SetOutput(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// SetOutput logs JSON lines to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	pkgLogger = zerolog.New(w).With().Timestamp().Logger()
}

// SetLevel parses level ("debug", "info", ...) and applies it globally.
func SetLevel(level string) error {
	if level == "" {
		return nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// Init routes the logger to the SQLite database dbFile. Relative paths are
// resolved inside the application directory.
func Init(dbFile string) error {
	if dbFile == "" {
		return errors.New("log: Init needs a database file")
	}
	dbPath := dbFile
	if !filepath.IsAbs(dbPath) {
		dir, err := appdir.Ensure()
		if err != nil {
			return err
		}
		dbPath = filepath.Join(dir, dbFile)
	}

	mu.Lock()
	defer mu.Unlock()
	if sink != nil {
		return ErrAlreadyInitialized
	}
	w, err := newSQLiteWriter(dbPath)
	if err != nil {
		return fmt.Errorf("log: %w", err)
	}
	sink = w
	zerolog.TimeFieldFormat = zerologTimeFieldFormat
	pkgLogger = zerolog.New(sink).With().Timestamp().Logger()
	return nil
}

// Close detaches the SQLite sink and falls back to discarding events.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if sink == nil {
		return nil
	}
	w := sink
	sink = nil
	pkgLogger = zerolog.Nop()
	if err := w.close(); err != nil {
		return fmt.Errorf("log: closing sqlite sink: %w", err)
	}
	return nil
}

func logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := pkgLogger
	return &l
}

func Debug() *zerolog.Event { return logger().Debug() }
func Info() *zerolog.Event  { return logger().Info() }
func Warn() *zerolog.Event  { return logger().Warn() }
func Error() *zerolog.Event { return logger().Error() }

// Printf sends an info event. Arguments are handled in the manner of fmt.Printf.
func Printf(format string, v ...any) {
	logger().Info().CallerSkipFrame(1).Msgf(format, v...)
}
