// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chasewyrick/onhash/codec"
	"github.com/chasewyrick/onhash/diskreader"
)

var cmdIterate = &cobra.Command{
	Use:   "iterate [flags] TABLE",
	Short: "Print every key:value pair in a previously built table",
	Long: `
The "iterate" command memory-maps TABLE and prints every entry it holds,
one "key:value" line at a time, in on-disk order.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if there was
any error.
`,
	Args:              cobra.ExactArgs(1),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIterate(args[0])
	},
}

func init() {
	cmdRoot.AddCommand(cmdIterate)
}

func runIterate(tablePath string) error {
	f, err := diskreader.OpenIterable[string, string, string](tablePath, codec.StringCodec{})
	if err != nil {
		return fmt.Errorf("diskreader.OpenIterable: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(os.Stdout)
	defer func() { _ = w.Flush() }()

	it := f.Entries()
	for {
		e, ok := it.Next()
		if !ok {
			break
		}
		if _, err := fmt.Fprintf(w, "%s:%s\n", e.Key, e.Value); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}

	return nil
}
