package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sourcegraph/termbench"
	"github.com/sourcegraph/termbench/types"
)

var (
	configFile    string
	terminalList  string
	benchmarkList string
	runs          int
	printLogs     bool
	noColor       bool

	outputDir    string
	jsonOutput   bool
	compare      bool
	storeResults bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "termbench",
	Short: "Benchmark terminal emulators",
	Long: `Termbench measures how terminal emulators cope with bulk
output, short commands, Unicode, ANSI colors and long
scrollback, and how much memory and time to start they
need.

Termbench looks for a termbench.json file in the current
working directory and uses it if it exists. You can
specify a different file location using the --config/-c
flag. Flags override the configuration.

Running termbench without any arguments benchmarks every
detected terminal and writes one Markdown report per
terminal to ./benchmark_results. Use --json for JSON
reports, --compare for a comparison of all terminals and
--store to save the results to the configured storage.

Examples:

  $ termbench -t kitty,alacritty -b throughput,latency -r 3
  $ termbench --json --compare
  $ termbench -t iterm2 -b startup`,

	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		tb, err := loadTermbench(cmd)
		if err != nil {
			log.Fatal(err)
		}
		if storeResults && tb.Storage == nil {
			log.Fatal("no storage configured")
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		kinds := make([]string, len(tb.Benchmarks))
		for i, b := range tb.Benchmarks {
			kinds[i] = b.Type()
		}
		fmt.Printf("Terminals: %s\n", strings.Join(tb.Terminals, ", "))
		fmt.Printf("Benchmarks: %s\n", strings.Join(kinds, ", "))
		if runs > 0 {
			fmt.Printf("Runs per test: %d\n", runs)
		}

		suites, err := runEach(ctx, tb, output{Dir: outputDir, JSON: jsonOutput})
		if err != nil {
			log.Fatal(err)
		}

		if compare && len(suites) > 1 {
			fmt.Println("\nGenerating comparison report...")
			path, err := output{Dir: outputDir}.writeComparison(suites, time.Now())
			if err != nil {
				log.Fatal(err)
			}
			fmt.Printf("Saved: %s\n", path)
		}

		if storeResults {
			if err := tb.Store(suites); err != nil {
				log.Fatal(err)
			}
		}

		fmt.Println("\nBenchmarks complete!")
		if len(types.AllIssues(suites)) > 0 {
			os.Exit(1)
		}
	},
}

// runEach benchmarks one terminal at a time so that each report is
// written as soon as its terminal is done.
func runEach(ctx context.Context, tb termbench.Termbench, out output) ([]types.Suite, error) {
	var suites []types.Suite
	for _, id := range tb.Terminals {
		fmt.Printf("\nBenchmarking %s...\n", id)
		one := tb
		one.Terminals = []string{id}
		done, err := one.Run(ctx)
		for _, suite := range done {
			for _, r := range suite.Results {
				fmt.Print(r)
			}
			path, werr := out.writeSuite(suite, time.Now())
			if werr != nil {
				return suites, werr
			}
			fmt.Printf("  Saved: %s\n", path)
		}
		suites = append(suites, done...)
		if err != nil {
			return suites, err
		}
	}
	return suites, nil
}

func setupLogging() {
	log.SetLevel(log.WarnLevel)
	if printLogs {
		log.SetLevel(log.DebugLevel)
	}
	if noColor {
		types.DisableColor()
	}
}

// loadTermbench reads the configuration file, if any, and applies the
// command line flags on top of it.
func loadTermbench(cmd *cobra.Command) (termbench.Termbench, error) {
	flags := cmd.Flags()
	return buildTermbench(configFile, flags.Changed("config"), options{
		Terminals:     terminalList,
		TerminalsSet:  flags.Changed("terminal"),
		Benchmarks:    benchmarkList,
		BenchmarksSet: flags.Changed("benchmark"),
		Runs:          runs,
	})
}

// options are the command line flags that shape a run.
type options struct {
	Terminals     string
	TerminalsSet  bool
	Benchmarks    string
	BenchmarksSet bool
	Runs          int
}

func buildTermbench(path string, required bool, opts options) (termbench.Termbench, error) {
	var tb termbench.Termbench
	configBytes, err := ioutil.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(configBytes, &tb); err != nil {
			return tb, errors.Wrapf(err, "loading %s", path)
		}
	case os.IsNotExist(err) && !required:
		log.WithField("config", path).Debug("no config file, using defaults")
	default:
		return tb, err
	}

	if opts.TerminalsSet || len(tb.Terminals) == 0 {
		tb.Terminals = resolveTerminals(opts.Terminals)
	}
	if len(tb.Terminals) == 0 {
		return tb, errors.Wrap(types.ErrInvalidArgument, "no terminals given or detected")
	}

	if opts.BenchmarksSet || len(tb.Benchmarks) == 0 {
		kinds, err := types.ParseKinds(opts.Benchmarks)
		if err != nil {
			return tb, err
		}
		if tb.Benchmarks, err = termbench.NewBenchmarks(kinds, opts.Runs); err != nil {
			return tb, err
		}
	} else {
		for i, b := range tb.Benchmarks {
			tb.Benchmarks[i] = termbench.WithRuns(b, opts.Runs)
		}
	}
	return tb, nil
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "termbench.json", "JSON config file")
	RootCmd.PersistentFlags().StringVarP(&terminalList, "terminal", "t", "all", "Terminals to benchmark, comma separated, or all detected")
	RootCmd.PersistentFlags().StringVarP(&benchmarkList, "benchmark", "b", "all",
		"Benchmarks to run ("+strings.Join(types.Kinds(), ", ")+"), comma separated, or all")
	RootCmd.PersistentFlags().IntVarP(&runs, "runs", "r", 0, "Number of runs per test (default per benchmark)")
	RootCmd.PersistentFlags().BoolVar(&printLogs, "v", false, "Enable debug logging")
	RootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	RootCmd.Flags().StringVarP(&outputDir, "output", "o", "./benchmark_results", "Output directory")
	RootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Write JSON reports instead of Markdown")
	RootCmd.Flags().BoolVar(&compare, "compare", false, "Write a comparison report of all terminals")
	RootCmd.Flags().BoolVar(&storeResults, "store", false, "Store results")
}
