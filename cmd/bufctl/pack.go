package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"strbuf-go/pkg/log"
	"strbuf-go/pkg/strbuf"
	"strbuf-go/pkg/transform"
)

func compressionFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "compression",
		Usage: "Override the configured compression `NAME` (none, zstd, gzip)",
	}
}

func passphraseFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "passphrase",
		Usage:   "Encrypt with AES-256-GCM under `SECRET` after compressing",
		EnvVars: []string{"BUFCTL_PASSPHRASE"},
	}
}

var (
	packCommand = &cli.Command{
		Name:      "pack",
		Usage:     "Compress (and optionally encrypt) stdin with the configured transform",
		UsageText: "bufctl pack < input > output",
		Flags:     []cli.Flag{compressionFlag(), passphraseFlag()},
		Action:    packCmd(false),
	}

	unpackCommand = &cli.Command{
		Name:      "unpack",
		Usage:     "Decrypt and decompress stdin with the configured transform",
		UsageText: "bufctl unpack < input > output",
		Flags:     []cli.Flag{compressionFlag(), passphraseFlag()},
		Action:    packCmd(true),
	}
)

func packCmd(reverse bool) cli.ActionFunc {
	return func(c *cli.Context) error {
		name := cfg.Compression
		if c.IsSet("compression") {
			name = c.String("compression")
		}
		t, err := transform.ByName(name)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}
		steps := []transform.Transform{t}
		if secret := c.String("passphrase"); secret != "" {
			enc, err := transform.NewAESGCM(secret)
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}
			steps = append(steps, enc)
		}
		p, err := transform.NewPipeline(steps...)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}

		b, err := input(c)
		if err != nil {
			return err
		}
		in := b.Len()
		if reverse {
			err = p.ReverseTo(b)
		} else {
			err = p.ApplyTo(b)
		}
		if err != nil {
			if errors.Is(err, strbuf.ErrOOM) {
				return oomExit(b, err)
			}
			b.Dispose()
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}
		log.Debug().Str("compression", name).Bool("encrypted", len(steps) > 1).Bool("reverse", reverse).Int("in", in).Int("out", b.Len()).Msg("transformed")
		return output(b, false)
	}
}
