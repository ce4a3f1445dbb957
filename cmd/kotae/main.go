// Command kotae filters a question and answer dataset by keyword.
package main

import (
	"os"

	"github.com/custodia-labs/kotae/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
