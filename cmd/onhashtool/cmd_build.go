// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chasewyrick/onhash"
	"github.com/chasewyrick/onhash/codec"
	"github.com/chasewyrick/onhash/diskreader"
	"github.com/chasewyrick/onhash/internal/bytesutil"
)

var cmdBuild = &cobra.Command{
	Use:   "build [flags] OUTPUT",
	Short: "Build a table from newline-delimited key:value input on stdin",
	Long: `
The "build" command reads "key:value" lines from stdin and writes a
serialized table to OUTPUT.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if there was
any error.
`,
	Args:              cobra.ExactArgs(1),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(args[0])
	},
}

func init() {
	cmdRoot.AddCommand(cmdBuild)
}

func runBuild(outputPath string) error {
	b := onhash.NewBuilder[string, string](codec.StringCodec{})

	s := bufio.NewScanner(bufio.NewReaderSize(os.Stdin, 16*1024))
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	for s.Scan() {
		line := s.Bytes()
		k, v, ok := bytesutil.Cut(line, ':')
		if !ok {
			return fmt.Errorf("malformed input line %q: expected \"key:value\"", line)
		}
		b.Insert(string(k), string(v))
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	if err := diskreader.Create(outputPath, b); err != nil {
		return fmt.Errorf("diskreader.Create: %w", err)
	}

	fmt.Fprintf(os.Stderr, "wrote %d entries to %s\n", b.Len(), outputPath)
	return nil
}
