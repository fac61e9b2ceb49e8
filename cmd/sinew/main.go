// Command sinew inspects, poses and renders skeleton definitions.
package main

import (
	"os"

	"github.com/phanxgames/sinew/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
