package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/mdf/internal/catalog"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the source catalog and scenario presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return eris.Wrap(err, "sources: load catalog")
		}
		formatSources(cmd.OutOrStdout(), cat)
		return nil
	},
}

func formatSources(out io.Writer, cat *catalog.Catalog) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tINGESTION\tDATA_CLASS")
	_, _ = fmt.Fprintln(w, "--\t----\t--------\t---------\t----------")
	for _, s := range cat.Sources {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Category, s.Ingestion, s.DataClass)
	}
	_ = w.Flush()

	_, _ = fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PRESET\tSOURCES")
	_, _ = fmt.Fprintln(w, "------\t-------")
	for _, name := range cat.PresetNames() {
		ids, _ := cat.Preset(name)
		_, _ = fmt.Fprintf(w, "%s\t%s\n", name, strings.Join(ids, ", "))
	}
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
