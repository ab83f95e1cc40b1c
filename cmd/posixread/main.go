// File: cmd/posixread/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// posixread reads an exact number of bytes from a connection and leaves the
// rest of the stream untouched.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/momentics/posixread/control"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
)

var (
	configPath string
	logLevel   string

	cfg       *control.Config
	log       = zerolog.Nop()
	logCloser io.Closer
)

func initConfig(cmd *cobra.Command, args []string) error {
	c, err := control.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.Logging.Level = strings.ToLower(logLevel)
	}
	l, closer, err := control.NewLogger(c.Logging)
	if err != nil {
		return err
	}
	cfg, log, logCloser = c, l, closer
	log.Debug().Str("config", configPath).Int("workers", cfg.Executor.Workers).Msg("configuration loaded")
	return nil
}

func closeLogging(cmd *cobra.Command, args []string) {
	if logCloser != nil {
		_ = logCloser.Close()
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "posixread",
		Short:             "Read an exact number of bytes from a socket",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initConfig,
		PersistentPostRun: closeLogging,
	}

	p := rootCmd.PersistentFlags()
	p.StringVar(&configPath, "config", "", "Path to config file (default $XDG_CONFIG_HOME/posixread/config.yaml)")
	p.StringVar(&logLevel, "log-level", "", "Logging level. One of (debug, info, warn, error)")

	rootCmd.AddCommand(
		NewServeCmd(),
		NewStdinCmd(),
	)
	return rootCmd
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "posixread:", err)
		os.Exit(1)
	}
}
