package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	handlers "blogdesk/internal/handler"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := RootCmd.ExecuteContext(ctx)
	code := handlers.ExitOK
	switch {
	case err == nil:
	case h != nil:
		code = h.Report(err)
	default:
		// flag errors and setup failures happen before handlers exist
		fmt.Fprintln(os.Stderr, "Error:", err)
		code = handlers.ExitError
	}

	teardown()
	stop()
	os.Exit(code)
}
