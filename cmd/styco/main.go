package main

import (
	"fmt"
	"os"

	"github.com/gnana997/styco/pkg/styco"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", styco.UserMessage(err))
		os.Exit(1)
	}
}
