// ABOUTME: Entry point for the firefly CLI
// ABOUTME: Terminal companion for daily check-ins and guided interventions

package main

import (
	"fmt"
	"os"

	"github.com/firefly-health/firefly-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
