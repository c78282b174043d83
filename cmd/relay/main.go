// Command relay serves the registered provider calls over HTTP behind the
// configured gate chain.
//
//	relay serve --config relay.yaml --addr :8080
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "relay:", err)
		os.Exit(1)
	}
}
