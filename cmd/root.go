// Copyright 2025 The argon Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd is argon's cobra command tree: a root command plus a send
// subcommand that opens one connection, sends one message, and tears
// the connection back down.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssorj/argon/common"
)

var rootCmd = &cobra.Command{
	Use:   common.App,
	Short: "A client-side AMQP 1.0 wire protocol implementation",
}

// Execute runs the command tree; main calls this and exits nonzero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
