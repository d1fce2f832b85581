package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/thesavant42/waybackpulse/cmd/waybackpulse/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	commands.ExecuteContext(ctx)
}
