package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var everyCmd = &cobra.Command{
	Use:   "every",
	Short: "Run benchmarks indefinitely at an interval",
	Long: `The every subcommand runs the benchmarks at the interval
you specify. The suites of each run are saved to storage.
Additionally, if notifiers or exporters are configured,
they are called with every run.

A run that takes longer than the interval delays the next
one; runs never overlap. This command blocks until it is
interrupted.

Interval formats are the same as those for Go's
time.ParseDuration() syntax:
https://golang.org/pkg/time/#ParseDuration - with a
few shortcuts: second, minute, hour, day, and week.

Examples:

  $ termbench every 6h
  $ termbench every day
  $ termbench every 1h30m -t kitty -b throughput`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.Long)
			os.Exit(1)
		}
		setupLogging()

		interval, err := parseInterval(args[0])
		if err != nil {
			log.Fatal(err)
		}

		tb, err := loadTermbench(cmd)
		if err != nil {
			log.Fatal(err)
		}
		if tb.Storage == nil {
			log.Fatal("no storage configured")
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		ticker := tb.RunAndStoreEvery(ctx, interval)
		defer ticker.Stop()
		<-ctx.Done()
	},
}

// parseInterval parses a duration, accepting a few words as
// shortcuts.
func parseInterval(s string) (time.Duration, error) {
	itvlStr := strings.ToLower(s)
	switch itvlStr {
	case "second":
		itvlStr = "1s"
	case "minute":
		itvlStr = "1m"
	case "hour":
		itvlStr = "1h"
	case "day":
		itvlStr = "24h"
	case "week":
		itvlStr = "168h"
	}
	interval, err := time.ParseDuration(itvlStr)
	if err != nil {
		return 0, err
	}
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive, got %s", s)
	}
	return interval, nil
}

func init() {
	RootCmd.AddCommand(everyCmd)
}
