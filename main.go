package main

import (
	"fmt"
	"os"

	"github.com/kilianp07/carpool/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "carpool:", err)
		os.Exit(cmd.ExitCode(err))
	}
}
