// Command contactbook runs the contact registry service and offers offline
// access to the same registry from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/deppfellow/contactbook/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
