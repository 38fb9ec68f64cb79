package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"strbuf-go/internal/fn"
	"strbuf-go/pkg/log"
)

var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimeSpec accepts either a duration back from now ("30m", "2d", "1w")
// or an absolute timestamp.
func parseTimeSpec(spec string, now time.Time) (time.Time, error) {
	if d, err := parseDuration(spec); err == nil {
		return now.Add(-d), nil
	}
	for _, layout := range timeFormats {
		if ts, err := time.ParseInLocation(layout, spec, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time specification %q: use a duration (1h, 30m, 2d) or a timestamp (2023-10-27T15:04:05Z)", spec)
}

// parseDuration extends time.ParseDuration with d (days) and w (weeks).
func parseDuration(spec string) (time.Duration, error) {
	for suffix, unit := range map[string]time.Duration{"d": 24 * time.Hour, "w": 7 * 24 * time.Hour} {
		if n, ok := strings.CutSuffix(spec, suffix); ok {
			v, err := strconv.Atoi(n)
			if err != nil {
				return 0, err
			}
			return time.Duration(v) * unit, nil
		}
	}
	return time.ParseDuration(spec)
}

var logsCommand = &cli.Command{
	Name:      "logs",
	Usage:     "Print log entries stored in the SQLite log database",
	UsageText: "bufctl logs [-f FILE] [-n COUNT | -s TIME_SPEC [-e TIME_SPEC]]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "dbfile",
			Aliases: []string{"f"},
			Usage:   "SQLite log database `PATH`, defaults to log_db from the config",
		},
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   "Print the last `NUMBER` entries",
			Value:   100,
		},
		&cli.StringFlag{
			Name:    "start",
			Aliases: []string{"s"},
			Usage:   "Print entries since `TIME_SPEC`",
		},
		&cli.StringFlag{
			Name:    "end",
			Aliases: []string{"e"},
			Usage:   "With --start, print entries up to `TIME_SPEC`",
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Usage:   "Max entries with --start `NUMBER`",
			Value:   1000,
		},
	},
	Action: logsCmd,
}

func logsCmd(c *cli.Context) error {
	dbFile := fn.Coalesce(c.String("dbfile"), cfg.LogDB)
	if dbFile == "" {
		return cli.Exit("Error: no log database, use --dbfile or set log_db", 1)
	}
	if c.IsSet("end") && !c.IsSet("start") {
		return cli.Exit("Error: --end requires --start", 1)
	}

	if err := log.Init(dbFile); err != nil {
		return cli.Exit(fmt.Sprintf("Error opening log database: %v", err), 1)
	}
	defer log.Close()

	var (
		entries []log.Entry
		err     error
	)
	now := time.Now()
	switch {
	case c.IsSet("start"):
		start, perr := parseTimeSpec(c.String("start"), now)
		if perr != nil {
			return cli.Exit(fmt.Sprintf("Error parsing start time: %v", perr), 1)
		}
		end := now
		if c.IsSet("end") {
			if end, perr = parseTimeSpec(c.String("end"), now); perr != nil {
				return cli.Exit(fmt.Sprintf("Error parsing end time: %v", perr), 1)
			}
		}
		entries, err = log.GetLogsBetween(start, end, c.Int("limit"))
	default:
		if c.Int("count") <= 0 {
			return cli.Exit("Error: --count must be positive", 1)
		}
		entries, err = log.GetLastNLogs(c.Int("count"))
	}
	if err != nil {
		if errors.Is(err, log.ErrNotInitialized) {
			return cli.Exit("Internal error: log database handle unavailable", 2)
		}
		return cli.Exit(fmt.Sprintf("Error retrieving logs: %v", err), 1)
	}

	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No log entries found.")
		return nil
	}
	for _, e := range entries {
		fmt.Println(e.Data)
	}
	return nil
}
