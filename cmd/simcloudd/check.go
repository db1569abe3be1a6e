// Copyright 2026 The SimCloud Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"
	"simcloud.dev/internal/store"
)

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "validate a store fixture file" }
func (*checkCmd) Usage() string {
	return `check fixture.json:
  Parse a fixture file and report its collections.
`
}

func (*checkCmd) SetFlags(*flag.FlagSet) {}

func (*checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		log.Print("check: exactly one fixture path required")
		return subcommands.ExitUsageError
	}
	path := f.Arg(0)
	if _, err := os.Stat(path); err != nil {
		log.Printf("check: %v", err)
		return subcommands.ExitFailure
	}
	st, err := store.LoadFile(path)
	if err != nil {
		log.Printf("check: %v", err)
		return subcommands.ExitFailure
	}
	for _, name := range st.Collections() {
		fmt.Printf("%s: %d documents\n", name, st.Count(name, nil))
	}
	return subcommands.ExitSuccess
}
