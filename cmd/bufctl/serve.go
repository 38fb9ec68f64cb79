package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"

	"strbuf-go/internal/fn"
	"strbuf-go/pkg/api"
	"strbuf-go/pkg/buffers"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "Serve quote, replace and printf over HTTP",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "listen",
			Usage: "Listen `ADDRESS`, overrides api_listen_address",
		},
	},
	Action: serveCmd,
}

func serveCmd(c *cli.Context) error {
	addr := fn.Coalesce(c.String("listen"), cfg.APIListenAddr)
	s := api.NewServer(cfg.Allocator(), buffers.Default, cfg.Replacements)
	if err := s.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	return nil
}
