package cli

import (
	"context"
	"os"
)

// Execute runs the plmgraph CLI with os.Args and returns an error if the
// command fails. Logs go to stderr at info level until the configuration and
// --verbose have been applied.
//
//	func main() {
//	    ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	    defer cancel()
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	c := New(os.Stderr, LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}
