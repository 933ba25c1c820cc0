// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chasewyrick/onhash/codec"
	"github.com/chasewyrick/onhash/diskreader"
)

var cmdLookup = &cobra.Command{
	Use:   "lookup [flags] TABLE KEY",
	Short: "Look up a single key in a previously built table",
	Long: `
The "lookup" command memory-maps TABLE and prints the value associated
with KEY, if present.

EXIT STATUS
===========

Exit status is 0 and the value is printed if the key was found.
Exit status is 1 if the key was not found.
Exit status is 2 if the table could not be opened.
`,
	Args:              cobra.ExactArgs(2),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLookup(args[0], args[1])
	},
}

func init() {
	cmdRoot.AddCommand(cmdLookup)
}

func runLookup(tablePath, key string) error {
	f, err := diskreader.Open[string, string, string](tablePath, codec.StringCodec{})
	if err != nil {
		os.Exit(2)
		return err
	}
	defer func() { _ = f.Close() }()

	value, ok := f.Find(key)
	if !ok {
		os.Exit(1)
		return nil
	}

	fmt.Println(value)
	return nil
}
