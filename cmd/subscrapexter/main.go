// cmd/subscrapexter/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
)

// Version information (set by build flags)
var (
	version   = "1.1.0"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	// A missing .env is fine; the process environment is used as is.
	_ = godotenv.Load()

	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := newApp(stdout, stderr)

	root := a.rootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	fmt.Fprint(stderr, a.errors.FormatErrorForCLI(err))
	return a.errors.GetExitCode(err)
}
