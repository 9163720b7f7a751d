// main is the entry point for the sarq CLI.
package main

import (
	"fmt"
	"os"

	"github.com/statice-dev/sarq/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
