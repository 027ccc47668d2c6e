package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pioneeros/pioneer/cmd"
	"github.com/pioneeros/pioneer/materialize"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx, cmd.GetRootCommand())
	stop()
	os.Exit(materialize.ExitCode(err))
}
