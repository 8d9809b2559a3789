// Copyright 2020-2022 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anvil-lang/anvil/engine/memtable"
	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/exec"
	"github.com/anvil-lang/anvil/internal/plan"
)

// This is an example of how to embed Anvil: parse a pipeline program,
// compile it to a DAG, and run it against a table engine. This one
// uses engine/memtable, the in-memory reference engine the test suite
// itself runs against; a real embedding program would swap in its own
// engine.Session backed by a real storage/query engine.
//
// > go run ./_example people.csv
// produces people.adults.csv and people.minors.csv next to the input file.
const program = `
input(%q)
  | filter("age >= 18") {
      true -> output(%q),
      false -> output(%q)
    };
`

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: main <people.csv>")
		os.Exit(1)
	}
	in := os.Args[1]
	adults := strings.TrimSuffix(in, ".csv") + ".adults.csv"
	minors := strings.TrimSuffix(in, ".csv") + ".minors.csv"

	src := fmt.Sprintf(program, in, adults, minors)
	prog, err := ast.Parse(strings.NewReader(src))
	if err != nil {
		panic(err)
	}
	g, err := plan.Build(prog)
	if err != nil {
		panic(err)
	}

	sess := memtable.NewSession()
	if _, err := exec.New(nil).Run(context.Background(), g, sess); err != nil {
		panic(err)
	}
	fmt.Printf("wrote %s and %s\n", adults, minors)
}
