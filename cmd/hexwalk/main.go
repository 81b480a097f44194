package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hexwalk/hexwalk/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	layoutPath := flag.String("layout", "", "path to the TOML layout file (required)")
	prefsPath := flag.String("prefs", "", "override prefs path (optional)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: hexwalk -layout <layout.toml> <datafile>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *layoutPath == "" || flag.NArg() != 1 {
		flag.Usage()
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		DataPath:   flag.Arg(0),
		LayoutPath: *layoutPath,
		PrefsPath:  *prefsPath,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "hexwalk: %v\n", err)
		return 1
	}
	return 0
}
