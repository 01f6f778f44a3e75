// Command smtgo-decode translates sentences read from stdin, one per line,
// and writes Moses-style n-best lists to stdout.
//
// Configuration comes from SMTGO_* environment variables, with a few flag
// overrides:
//
//	SMTGO_STORE=s3 SMTGO_BUCKET=models SMTGO_PREFIX=de-en/ \
//	    smtgo-decode -model CURRENT -nbest 10 < input.txt
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := parseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "smtgo-decode:", err)
		os.Exit(1)
	}
}
