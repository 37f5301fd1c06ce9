package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/blacktop/xsched/cmd"
	"github.com/blacktop/xsched/internal/logutil"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()
	if err != nil {
		logutil.Errorf("%v", err)
		os.Exit(1)
	}
}
