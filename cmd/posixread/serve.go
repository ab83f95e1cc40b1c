// File: cmd/posixread/serve.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/momentics/posixread/adapters"
	"github.com/momentics/posixread/reader"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type serveCmd struct {
	listen    string
	size      int
	thenDrain bool
	out       io.Writer
	outMu     sync.Mutex
}

// NewServeCmd accepts TCP connections and reads exactly --size bytes from
// each one, leaving the rest of the stream for the ordinary conn reader.
func NewServeCmd() *cobra.Command {
	serve := &serveCmd{out: os.Stdout}
	cmd := &cobra.Command{
		Use:   "serve [--listen addr] --size N [--then-drain]",
		Short: "Accept TCP connections and read exactly N bytes from each",
		RunE: func(cmd *cobra.Command, args []string) error {
			if serve.size <= 0 {
				return errors.New("--size must be a positive integer")
			}
			if serve.listen == "" {
				serve.listen = cfg.CLI.Listen
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve.run(ctx)
		},
	}

	f := cmd.Flags()
	f.StringVar(&serve.listen, "listen", "", "Listen address (default from cli.listen)")
	f.IntVar(&serve.size, "size", 0, "Number of bytes to read from each connection")
	f.BoolVar(&serve.thenDrain, "then-drain", false, "Read the remainder with the ordinary connection reader and report its length")
	return cmd
}

func (s *serveCmd) run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.listen)
	if err != nil {
		return err
	}
	log.Info().Str("addr", ln.Addr().String()).Int("size", s.size).Msg("listening")

	r := reader.FromConfig(cfg, log)
	defer r.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return ln.Close()
	})
	g.Go(func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			go func() {
				defer conn.Close()
				if err := s.handle(ctx, r, conn); err != nil {
					log.Warn().Err(err).Str("remote", conn.RemoteAddr().String()).Msg("connection failed")
				}
			}()
		}
	})
	err = g.Wait()
	log.Info().Interface("stats", r.Stats()).Msg("stopped")
	return err
}

// handle reads the prefix from conn, prints it, and optionally drains the rest.
func (s *serveCmd) handle(ctx context.Context, r *reader.Reader, conn net.Conn) error {
	remote := conn.RemoteAddr().String()
	f, err := r.Read(adapters.FromConn(conn), s.size)
	if err != nil {
		return err
	}

	wctx := ctx
	if cfg.CLI.Timeout > 0 {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(ctx, cfg.CLI.Timeout)
		defer cancel()
	}
	buf, err := f.Wait(wctx)
	if err != nil {
		select {
		case <-f.Done():
		default:
			// the worker still owns the descriptor; closing conn now would let
			// the kernel hand its number to the next accepted connection
			log.Warn().Str("remote", remote).Err(err).Msg("read still pending, holding connection open")
			<-f.Done()
		}
		return fmt.Errorf("read %d bytes: %w", s.size, err)
	}
	s.print(remote, "prefix", strconv.Quote(string(buf)))

	if !s.thenDrain {
		return nil
	}
	if cfg.CLI.Timeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(cfg.CLI.Timeout))
	}
	n, err := io.Copy(io.Discard, conn)
	s.print(remote, "remainder", strconv.FormatInt(n, 10)+" bytes")
	return err
}

func (s *serveCmd) print(remote, label, value string) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, "%s %s: %s\n", remote, label, value)
}
