package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"periscope-sol/internal/cli"
	"periscope-sol/internal/display"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := cli.DefaultEnv()
	if err != nil {
		display.NewPrinter(os.Stderr, false).Error(err.Error())
		os.Exit(1)
	}

	code := cli.Execute(ctx, cli.NewRootCmd(env), os.Stderr, env.Color)
	stop()
	os.Exit(code)
}
