// cmd/sqlrepl/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	code := 0
	if err := newRootCmd(&code).ExecuteContext(ctx); err != nil {
		code = 1
	}
	stop()
	os.Exit(code)
}
