package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sourcegraph/termbench/report"
	"github.com/sourcegraph/termbench/types"
)

var compareOutput string

var compareCmd = &cobra.Command{
	Use:   "compare <file.json>...",
	Short: "Compare terminals from saved JSON results",
	Long: `The compare subcommand reads JSON reports written with
--json, or result files kept by a storage provider, and
prints a comparison of every terminal they contain.

Use --output to write comparison_<time>.md to a directory
instead of printing it.

Examples:

  $ termbench compare benchmark_results/*.json
  $ termbench compare -o reports results/kitty_20240301_123005.json`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.Long)
			os.Exit(1)
		}
		setupLogging()

		suites, err := loadSuites(args)
		if err != nil {
			log.Fatal(err)
		}

		now := time.Now()
		if compareOutput == "" {
			fmt.Print(report.Compare(suites, now))
			return
		}
		path, err := output{Dir: compareOutput}.writeComparison(suites, now)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Saved: %s\n", path)
	},
}

// loadSuites reads the suites of every file in paths, in order.
func loadSuites(paths []string) ([]types.Suite, error) {
	var suites []types.Suite
	for _, path := range paths {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, err
		}
		s, err := report.ParseSuites(data)
		if err != nil {
			return nil, errors.Wrap(err, path)
		}
		suites = append(suites, s...)
	}
	return suites, nil
}

func init() {
	RootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVarP(&compareOutput, "output", "o", "", "Write the comparison to this directory")
}
