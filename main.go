package main

import (
	"fmt"
	"os"

	"github.com/compozy/chatwoot-nodes/cli"
)

func main() {
	cmd := cli.RootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
