// Command sessionkit runs the demo server and helps with session secrets
// and cookie tokens.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
