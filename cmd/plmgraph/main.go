package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/plmgraph/internal/cli"
	plmerrors "github.com/matzehuels/plmgraph/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, plmerrors.UserMessage(err))
		if plmerrors.IsDocumentError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
