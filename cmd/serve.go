package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sourcegraph/termbench"
	"github.com/sourcegraph/termbench/report"
	"github.com/sourcegraph/termbench/storage/fs"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored results from a local/remote storage service",
	Long: `Use the serve command to start a minimal http server that
serves the results kept by the configured storage provider.
It works with every provider that can read results back:
fs, github, mysql, sql (sqlite3, postgres).

  GET /index.json              the storage index
  GET /<file>                  the suites of a result file
  GET /latest/<terminal>       the newest suite of a terminal
  GET /<file>?format=markdown  the same suites as Markdown reports

By default, termbench.json configuration file will be loaded and used.`,
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		reader, err := storageReaderConfig(cmd)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("Serving results on %s\n", listenAddr)
		if err := http.ListenAndServe(listenAddr, serveHandler(reader)); err != nil {
			log.Fatal(err)
		}
	},
}

func serveHandler(reader termbench.StorageReader) http.HandlerFunc {
	writeError := func(w http.ResponseWriter, status int, err error) {
		response := struct {
			Error struct {
				Message string
			}
		}{}
		response.Error.Message = err.Error()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(response)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		requestedFile := strings.TrimLeft(r.URL.Path, "/")
		if requestedFile == "" {
			requestedFile = fs.IndexName
		}
		index, err := reader.GetIndex()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if requestedFile == fs.IndexName {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(index)
			return
		}
		if target := strings.TrimPrefix(requestedFile, "latest/"); target != requestedFile {
			latest, ok := fs.Index(index).Latest(target)
			if !ok {
				writeError(w, http.StatusNotFound, fmt.Errorf("no results for %s", target))
				return
			}
			requestedFile = latest
		}
		if _, ok := index[requestedFile]; !ok {
			writeError(w, http.StatusNotFound, fmt.Errorf("file not found: %s", requestedFile))
			return
		}
		suites, err := reader.Fetch(requestedFile)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if r.URL.Query().Get("format") == "markdown" {
			w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
			for i, suite := range suites {
				if i > 0 {
					fmt.Fprint(w, "\n")
				}
				fmt.Fprint(w, report.Markdown(suite))
			}
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(suites)
	}
}

func storageReaderConfig(cmd *cobra.Command) (termbench.StorageReader, error) {
	tb, err := loadTermbench(cmd)
	if err != nil {
		return nil, err
	}
	if tb.Storage == nil {
		return nil, fmt.Errorf("no storage configuration found")
	}
	reader, ok := tb.Storage.(termbench.StorageReader)
	if !ok {
		return nil, fmt.Errorf("configured storage type does not have reading capabilities")
	}
	return reader, nil
}

func init() {
	RootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&listenAddr, "listen", "", ":3000", "The listen address for the HTTP server")
}
