// Command docinspect reads and maintains tenant documents directly on the
// configured storage backend. Stop the server before using reset or purge.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
