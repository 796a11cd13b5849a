package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/mdf/internal/catalog"
	"github.com/sells-group/mdf/internal/generate"
	"github.com/sells-group/mdf/internal/model"
)

var (
	generateCount int
	generateSeed  uint64
)

var generateCmd = &cobra.Command{
	Use:   "generate <source-id>",
	Short: "Print synthetic raw records for one source as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return eris.Wrap(err, "generate: load catalog")
		}

		count := generateCount
		if count <= 0 {
			count = cfg.Simulation.RecordsPerSource
		}
		seed := generateSeed
		if seed == 0 {
			seed = cfg.Simulation.Seed
		}
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}

		return writeRecords(cmd.OutOrStdout(), cmd.ErrOrStderr(), cat, args[0], count, seed)
	},
}

// writeRecords generates count records for sourceID and encodes them as an
// indented JSON array. An unknown source yields an empty array and a warning
// on warn.
func writeRecords(out, warn io.Writer, cat *catalog.Catalog, sourceID string, count int, seed uint64) error {
	records := []model.RawRecord{}
	if _, ok := cat.Lookup(sourceID); ok {
		records = generate.New(cat, seed).Generate(sourceID, count)
	} else {
		fmt.Fprintf(warn, "warning: unknown source %q, no records generated\n", sourceID)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return eris.Wrap(err, "generate: encode records")
	}
	return nil
}

func init() {
	generateCmd.Flags().IntVar(&generateCount, "count", 0, "number of records (default from config)")
	generateCmd.Flags().Uint64Var(&generateSeed, "seed", 0, "random seed (default from config, 0 = time-derived)")
	rootCmd.AddCommand(generateCmd)
}
