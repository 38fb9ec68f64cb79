package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"strbuf-go/internal/fn"
	"strbuf-go/pkg/log"
	"strbuf-go/pkg/strbuf"
)

func newlineFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "newline",
		Aliases: []string{"n"},
		Usage:   "Print a trailing newline",
		Value:   true,
	}
}

var (
	quoteCommand = &cli.Command{
		Name:      "quote",
		Usage:     "Quote text as a single POSIX shell word",
		UsageText: "bufctl quote [text...]  (reads stdin when no text is given)",
		Flags:     []cli.Flag{newlineFlag()},
		Action:    quoteCmd,
	}

	replaceCommand = &cli.Command{
		Name:      "replace",
		Usage:     "Substitute literal patterns, first listed pattern wins",
		UsageText: "bufctl replace -p FROM=TO [-p FROM=TO...] [text...]",
		Flags: []cli.Flag{
			newlineFlag(),
			&cli.StringSliceFlag{
				Name:    "pair",
				Aliases: []string{"p"},
				Usage:   "Replacement `FROM=TO`; tried before the configured replacements",
			},
			&cli.BoolFlag{
				Name:  "quote",
				Usage: "Shell-quote the result",
			},
		},
		Action: replaceCmd,
	}

	printfCommand = &cli.Command{
		Name:      "printf",
		Usage:     "Format string arguments",
		UsageText: "bufctl printf FORMAT [args...]",
		Flags:     []cli.Flag{newlineFlag()},
		Action:    printfCmd,
	}
)

func quoteCmd(c *cli.Context) error {
	b, err := input(c)
	if err != nil {
		return err
	}
	if err := b.ShellQuote(); err != nil {
		return oomExit(b, err)
	}
	log.Debug().Int("size", b.Len()).Msg("quoted")
	return output(b, c.Bool("newline"))
}

// parsePairs splits FROM=TO flag values. Only the first '=' separates.
func parsePairs(values []string) ([]strbuf.Pair, error) {
	pairs := make([]strbuf.Pair, 0, len(values))
	for _, v := range values {
		from, to, ok := strings.Cut(v, "=")
		if !ok || from == "" {
			return nil, fmt.Errorf("invalid pair %q, expected FROM=TO", v)
		}
		pairs = append(pairs, strbuf.Pair{Pattern: from, Replacement: to})
	}
	return pairs, nil
}

func replaceCmd(c *cli.Context) error {
	flagPairs, err := parsePairs(c.StringSlice("pair"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	pairs := cfg.Pairs(flagPairs...)
	if len(pairs) == 0 {
		return cli.Exit("Error: no replacements given (use -p FROM=TO or the config file)", 1)
	}

	b, err := input(c)
	if err != nil {
		return err
	}
	if err := b.Replace(pairs); err != nil {
		return oomExit(b, err)
	}
	if c.Bool("quote") {
		if err := b.ShellQuote(); err != nil {
			return oomExit(b, err)
		}
	}
	log.Debug().Int("pairs", len(pairs)).Str("mode", fn.T(c.Bool("quote"), "quoted", "raw")).Msg("replaced")
	return output(b, c.Bool("newline"))
}

func printfCmd(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("Error: printf needs a FORMAT argument", 1)
	}
	rest := c.Args().Tail()
	args := make([]any, len(rest))
	for i, a := range rest {
		args[i] = a
	}
	b := cfg.NewBuffer()
	if err := b.Printf(c.Args().First(), args...); err != nil {
		return oomExit(b, err)
	}
	return output(b, c.Bool("newline"))
}
