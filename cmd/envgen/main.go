// cmd/envgen/main.go
//
// envgen: frontend environment materializer.
//
// Run life-cycle
// --------------
//
//  1. Load options (defaults + ENVGEN_ overlay).
//
//  2. Start the logger (stderr console, optional rotating file).
//
//  3. Read settings and secrets, derive entries, write .env.local.
//
//  4. Print one success line to stdout, or one error line to stderr.
//
//  5. Record the outcome in the metrics textfile when one is configured.
//
// The process exits 0 either way; callers read the message, not the status.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/AdeptTravel/envgen/internal/config"
	"github.com/AdeptTravel/envgen/internal/envgen"
	"github.com/AdeptTravel/envgen/internal/logger"
	"github.com/AdeptTravel/envgen/internal/metrics"
)

const successMessage = "Environment variables generated successfully"

func main() {
	run(context.Background(), os.Stdout, os.Stderr)
}

func run(ctx context.Context, stdout, stderr io.Writer) {
	start := time.Now()

	opts, err := config.Load()
	if err != nil {
		reportError(stderr, err)
		return
	}

	log, err := logger.New(opts.Log, stderr)
	if err != nil {
		reportError(stderr, err)
		return
	}
	defer func() { _ = log.Sync() }()

	res, err := envgen.Run(ctx, *opts, log)
	if err != nil {
		log.Debugw("run failed", "kind", envgen.KindOf(err).String(), "err", err)
		reportError(stderr, err)
		metrics.ObserveFailure(envgen.KindOf(err).String(), time.Since(start), time.Now())
	} else {
		fmt.Fprintln(stdout, successMessage)
		metrics.ObserveSuccess(res.Entries, len(res.Missing), time.Since(start), time.Now())
	}

	writeMetrics(opts.Metrics.Textfile, log)
}

func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error generating environment variables: %v\n", err)
}

func writeMetrics(path string, log *zap.SugaredLogger) {
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path); err != nil {
		log.Warnw("metrics textfile write failed", "file", path, "err", err)
	}
}
