// Package api exposes buffer operations over HTTP.
package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"strbuf-go/pkg/buffers"
	"strbuf-go/pkg/log"
	"strbuf-go/pkg/strbuf"
)

type ReplaceRequest struct {
	Text  string        `json:"text"`
	Pairs []strbuf.Pair `json:"pairs"`
}

type PrintfRequest struct {
	Format string   `json:"format"`
	Args   []string `json:"args"`
}

type Server struct {
	Echo  *echo.Echo
	alloc strbuf.Allocator
	pool  *buffers.Pool
	// defaults are tried after the pairs of a replace request.
	defaults []strbuf.Pair
}

// NewServer builds the routes. Every request works on its own buffer drawn
// from alloc. pool may be nil; when set its counters are served on /stats.
func NewServer(alloc strbuf.Allocator, pool *buffers.Pool, defaults []strbuf.Pair) *Server {
	s := &Server{
		Echo:     echo.New(),
		alloc:    alloc,
		pool:     pool,
		defaults: defaults,
	}
	s.Echo.HideBanner = true
	s.Echo.HTTPErrorHandler = s.errorHandler
	s.Echo.POST("/quote", s.Quote)
	s.Echo.POST("/replace", s.Replace)
	s.Echo.POST("/printf", s.Printf)
	s.Echo.GET("/stats", s.Stats)
	return s
}

func (s *Server) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("api listening")
	return s.Echo.Start(addr)
}

func (s *Server) buffer() *strbuf.Buffer {
	return strbuf.New(strbuf.WithAllocator(s.alloc))
}

func (s *Server) Quote(c echo.Context) error {
	b := s.buffer()
	defer b.Dispose()
	if _, err := io.Copy(b, c.Request().Body); err != nil {
		return err
	}
	if err := b.ShellQuote(); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, b.Bytes())
}

func (s *Server) Replace(c echo.Context) error {
	var req ReplaceRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	b := s.buffer()
	defer b.Dispose()
	if err := b.PutString(req.Text); err != nil {
		return err
	}
	pairs := append(append([]strbuf.Pair{}, req.Pairs...), s.defaults...)
	if err := b.Replace(pairs); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, b.Bytes())
}

func (s *Server) Printf(c echo.Context) error {
	var req PrintfRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	args := make([]any, len(req.Args))
	for i, a := range req.Args {
		args[i] = a
	}
	b := s.buffer()
	defer b.Dispose()
	if err := b.Printf(req.Format, args...); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, b.Bytes())
}

func (s *Server) Stats(c echo.Context) error {
	if s.pool == nil {
		return c.JSON(http.StatusOK, buffers.Stats{})
	}
	return c.JSON(http.StatusOK, s.pool.Stats())
}

func (s *Server) errorHandler(err error, c echo.Context) {
	switch {
	case errors.Is(err, strbuf.ErrOOM):
		err = echo.NewHTTPError(http.StatusInsufficientStorage, err.Error())
	case errors.Is(err, strbuf.ErrEmptyPattern):
		err = echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	log.Warn().Err(err).Str("path", c.Path()).Msg("api request failed")
	s.Echo.DefaultHTTPErrorHandler(err, c)
}
