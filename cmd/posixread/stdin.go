// File: cmd/posixread/stdin.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"errors"
	"os"

	"github.com/momentics/posixread/adapters"
	"github.com/momentics/posixread/reader"
	"github.com/spf13/cobra"
)

// NewStdinCmd reads exactly N bytes from standard input and copies them to
// standard output. Whatever follows stays readable by the next process
// sharing the descriptor, e.g. (posixread stdin --size 4; cat) <&3.
func NewStdinCmd() *cobra.Command {
	var size int
	cmd := &cobra.Command{
		Use:   "stdin --size N",
		Short: "Read exactly N bytes from standard input",
		RunE: func(cmd *cobra.Command, args []string) error {
			if size <= 0 {
				return errors.New("--size must be a positive integer")
			}
			r := reader.FromConfig(cfg, log)
			defer r.Close()

			buf, err := r.ReadSync(adapters.FromFile(os.Stdin), size)
			if err != nil {
				return err
			}
			log.Debug().Int("size", size).Msg("stdin prefix read")
			_, err = cmd.OutOrStdout().Write(buf)
			return err
		},
	}
	cmd.Flags().IntVar(&size, "size", 0, "Number of bytes to read")
	return cmd
}
