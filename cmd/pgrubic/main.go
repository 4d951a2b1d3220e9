package main

import (
	"fmt"
	"os"

	"github.com/bolajiwahab/pgrubic-sub001/cmd/pgrubic/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cmd.ExitInternal)
	}
}
