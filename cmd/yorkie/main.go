/*
 * Copyright 2019 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command yorkie is a thin local shell around the document core: it
// opens a Document, runs a handful of scripted edits against it and
// prints the resulting JSON, for experimenting with the CRDT without a
// server. It is a convenience wrapper, not part of the core itself.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yorkie-team/yorkie/pkg/document"
	"github.com/yorkie-team/yorkie/pkg/document/crdt"
	"github.com/yorkie-team/yorkie/pkg/document/json"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yorkie",
		Short: "yorkie is a local shell around the CRDT document core",
	}
	cmd.AddCommand(newDemoCmd())
	return cmd
}

func newDemoCmd() *cobra.Command {
	var key string
	var text string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "open a document, apply a couple of scripted edits and print its JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := document.New(key)

			if err := doc.Update(func(root *json.Object) error {
				root.SetNewText("content").Edit(0, 0, text, nil)
				root.SetNewCounter("views", crdt.IntegerCnt, 0)
				return nil
			}, "seed document"); err != nil {
				return err
			}

			fmt.Println(doc.Marshal())
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "demo-doc", "document key")
	cmd.Flags().StringVar(&text, "text", "hello~yorkie", "initial text content")

	return cmd
}
