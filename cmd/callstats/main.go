/*
Command callstats prints dental office call statistics and exports the
selected calls from the terminal.

Usage:

	callstats summary [--from YYYY-MM-DD] [--to YYYY-MM-DD] [--direction D] [--category C] [--text]
	callstats export --out calls.xlsx [filters]

The call log comes from SOURCE_URL or SOURCE_PATH, or from --url/--file.
*/
package main

import (
	"fmt"
	"os"

	"dental-calls-go/internal/cli"
)

// set via ldflags
var version = "dev"

func main() {
	if err := cli.NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
