package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"strbuf-go/pkg/config"
	"strbuf-go/pkg/log"
	"strbuf-go/pkg/strbuf"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// cfg is loaded once in before and read by every command.
var cfg *config.Config

func newApp() *cli.App {
	return &cli.App{
		Name:    "bufctl",
		Usage:   "quote, substitute and format text with growable buffers",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the configuration `FILE`",
			},
			&cli.IntFlag{
				Name:  "max-size",
				Usage: "Refuse single buffer allocations above `BYTES` (0 = unlimited)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log `LEVEL` (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-db",
				Usage: "Also store logs in the SQLite database `FILE`",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log to stderr",
			},
		},
		Before: before,
		After: func(*cli.Context) error {
			return log.Close()
		},
		Commands: []*cli.Command{
			quoteCommand,
			replaceCommand,
			printfCommand,
			packCommand,
			unpackCommand,
			serveCommand,
			logsCommand,
		},
	}
}

func before(c *cli.Context) error {
	var err error
	cfg, err = config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if c.IsSet("max-size") {
		cfg.MaxSize = c.Int("max-size")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-db") {
		cfg.LogDB = c.String("log-db")
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if c.Bool("verbose") {
		log.SetStd()
	}
	if err := log.SetLevel(cfg.LogLevel); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if cfg.LogDB != "" && c.Args().First() != "logs" {
		if err := log.Init(cfg.LogDB); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}
	log.Debug().Str("config", cfg.ConfigFile).Int("max_size", cfg.MaxSize).Msg("configuration loaded")
	return nil
}

// input fills a new buffer with the joined arguments, or with stdin when there
// are none.
func input(c *cli.Context) (*strbuf.Buffer, error) {
	if c.NArg() > 0 {
		b, err := strbuf.NewString(strings.Join(c.Args().Slice(), " "), strbuf.WithAllocator(cfg.Allocator()))
		if err != nil {
			return nil, oomExit(b, err)
		}
		return b, nil
	}
	b := cfg.NewBuffer()
	if _, err := io.Copy(b, os.Stdin); err != nil {
		return nil, oomExit(b, err)
	}
	return b, nil
}

func output(b *strbuf.Buffer, newline bool) error {
	defer b.Dispose()
	if _, err := os.Stdout.Write(b.Bytes()); err != nil {
		return err
	}
	if newline {
		fmt.Println()
	}
	return nil
}

func oomExit(b *strbuf.Buffer, err error) error {
	log.Error().Err(err).Int("size", b.Len()).Int("capacity", b.Cap()).Msg("buffer operation failed")
	b.Dispose()
	return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
